package httpclient

import "context"

// Requester is the verb surface of RequestClient so callers can inject fakes.
type Requester interface {
	Get(ctx context.Context, endpoint string, query, headers map[string]string) Result
	Post(ctx context.Context, endpoint string, body any, headers map[string]string) Result
	Put(ctx context.Context, endpoint string, body any, headers map[string]string) Result
	Patch(ctx context.Context, endpoint string, body any, headers map[string]string) Result
	Delete(ctx context.Context, endpoint string, body any, headers map[string]string) Result
}

// Recorder observes every completed exchange.
type Recorder interface {
	Record(ctx context.Context, ex Exchange)
}

// Logger receives resty debug and warning output. *zap.SugaredLogger satisfies it.
type Logger interface {
	Errorf(format string, v ...any)
	Warnf(format string, v ...any)
	Debugf(format string, v ...any)
}

var _ Requester = (*RequestClient)(nil)
