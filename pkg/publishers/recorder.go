package publishers

import (
	"context"

	"github.com/samvad-hq/samvad-request-client/pkg/httpclient"
)

type recorder struct {
	fanout *Fanout
	log    Logger
}

// NewRecorder returns an httpclient.Recorder that publishes every exchange
// through fanout. Publish failures are logged and never reach the caller.
func NewRecorder(fanout *Fanout, log Logger) httpclient.Recorder {
	return &recorder{fanout: fanout, log: ensureLogger(log)}
}

func (r *recorder) Record(ctx context.Context, ex httpclient.Exchange) {
	if r.fanout.Size() == 0 {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	evt := NewEvent(ex)
	// The caller's deadline may already have fired for timed-out requests.
	delivered, err := r.fanout.Publish(context.WithoutCancel(ctx), evt)
	if err != nil {
		r.log.WarnObj("exchange publish failed", "publish_error", deliveryFields("", evt, "delivered", delivered, "error", err.Error()))
		return
	}
	r.log.DebugObj("exchange published", "publish", deliveryFields("", evt, "delivered", delivered))
}
