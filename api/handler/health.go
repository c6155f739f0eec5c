package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/axsec/backend/internal/infrastructure/monitor"
	"github.com/axsec/backend/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
}

func NewHealthHandler(m *monitor.Monitor, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     m,
	}
}

type healthView struct {
	Online bool           `json:"online"`
	Stores monitor.Status `json:"stores"`
}

// @Summary Service health
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Health(ctx *fasthttp.RequestCtx) {
	view := healthView{
		Online: h.monitor.IsOnline(),
		Stores: h.monitor.GetStatus(),
	}
	code := http.StatusOK
	if !view.Online {
		code = http.StatusServiceUnavailable
	}
	h.respondSuccess(ctx, code, view)
}
