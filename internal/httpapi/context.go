package httpapi

import (
	"context"

	"github.com/rs/zerolog"
)

// serverBaseCtx is a process-level context canceled on shutdown. Conversions
// run under it rather than the request context, so a client disconnect does
// not kill a running tool.
var serverBaseCtx = context.Background()

// SetBaseContext sets the process-level base context used by handlers.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

var zlog = zerolog.Nop()

// SetLogger installs the structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = l }
