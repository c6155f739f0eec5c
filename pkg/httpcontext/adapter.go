package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/axsec/backend/pkg/logger"
)

// Key identifies request metadata carried on the derived context.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
)

const requestIDHeader = "X-Request-ID"

// Adapter derives a deadline-bound stdlib context from a fasthttp request.
// Handlers hand the derived context to the use-case layer so every blocking
// call inherits the per-request timeout.
type Adapter struct {
	timeout time.Duration
}

func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{timeout: timeout}
}

// Attach builds the per-request context. The request ID is taken from the
// inbound header when present, minted otherwise, and always echoed back on
// the response.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	requestID := resolveRequestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, requestID)
	ctx.Response.Header.Set(requestIDHeader, requestID)

	if addr := ctx.RemoteAddr(); addr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, addr.String())
	}
	if agent := string(ctx.Request.Header.UserAgent()); agent != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, agent)
	}

	return stdCtx, cancel
}

func resolveRequestID(ctx *fasthttp.RequestCtx) string {
	if ctx != nil {
		if inbound := strings.TrimSpace(string(ctx.Request.Header.Peek(requestIDHeader))); inbound != "" {
			return inbound
		}
	}
	return uuid.NewString()
}
