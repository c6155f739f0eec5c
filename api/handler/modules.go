package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/axsec/backend/api/transport"
	"github.com/axsec/backend/domain"
	"github.com/axsec/backend/pkg/httpcontext"
	authUC "github.com/axsec/backend/usecase/auth"
	searchUC "github.com/axsec/backend/usecase/search"
)

// ModulesHandler serves the module catalog and runs lookups.
type ModulesHandler struct {
	baseHandler
	uc   *searchUC.UseCase
	auth *authUC.UseCase
}

func NewModulesHandler(uc *searchUC.UseCase, auth *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ModulesHandler {
	return &ModulesHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		auth:        auth,
	}
}

// @Summary Module catalog
// @Tags modules
// @Router /api/v1/modules [get]
func (h *ModulesHandler) Catalog(ctx *fasthttp.RequestCtx) {
	actor, ok := resolveActor(ctx, h.baseHandler, h.auth)
	if !ok {
		return
	}
	h.respondSuccess(ctx, http.StatusOK, h.uc.Catalog(actor))
}

// @Summary Run module search
// @Tags modules
// @Router /api/v1/modules/{id}/search [post]
func (h *ModulesHandler) Search(ctx *fasthttp.RequestCtx) {
	actor, ok := resolveActor(ctx, h.baseHandler, h.auth)
	if !ok {
		return
	}

	moduleID, _ := ctx.UserValue("id").(string)
	if moduleID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing module id", nil))
		return
	}

	var req transport.SearchRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.Run(stdCtx, actor, moduleID, req.SearchType, req.Query)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, result)
}

// @Summary Recent search history
// @Tags modules
// @Router /api/v1/searches [get]
func (h *ModulesHandler) History(ctx *fasthttp.RequestCtx) {
	actor, ok := resolveActor(ctx, h.baseHandler, h.auth)
	if !ok {
		return
	}

	limit := 50
	if raw := string(ctx.QueryArgs().Peek("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	results, err := h.uc.Recent(stdCtx, actor, limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, results)
}
