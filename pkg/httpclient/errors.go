package httpclient

import (
	"context"
	"errors"
	"net"
)

var (
	ErrRequestFailed = errors.New("httpclient: request failed")
	ErrTimeout       = errors.New("httpclient: request timed out")
	ErrHTTPStatus    = errors.New("httpclient: error status")
	ErrEncodeBody    = errors.New("httpclient: failed to encode request body")

	// ErrTooManyRedirects is reported with the last redirect response attached.
	ErrTooManyRedirects = errors.New("httpclient: too many redirects")
)

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
