package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/axsec/backend/api/transport"
	"github.com/axsec/backend/domain"
	"github.com/axsec/backend/pkg/httpcontext"
	authUC "github.com/axsec/backend/usecase/auth"
	directoryUC "github.com/axsec/backend/usecase/directory"
)

// UsersHandler exposes the administrative directory operations. Role checks
// live in the directory use case; this layer only resolves the actor.
type UsersHandler struct {
	baseHandler
	uc   *directoryUC.UseCase
	auth *authUC.UseCase
}

func NewUsersHandler(uc *directoryUC.UseCase, auth *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		auth:        auth,
	}
}

// @Summary List accounts
// @Tags users
// @Router /api/v1/users [get]
func (h *UsersHandler) List(ctx *fasthttp.RequestCtx) {
	actor, ok := resolveActor(ctx, h.baseHandler, h.auth)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	accounts, err := h.uc.List(stdCtx, actor.ID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, accounts)
}

// @Summary Create account
// @Tags users
// @Router /api/v1/users [post]
func (h *UsersHandler) Create(ctx *fasthttp.RequestCtx) {
	actor, ok := resolveActor(ctx, h.baseHandler, h.auth)
	if !ok {
		return
	}

	var req transport.CreateUserRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	input := directoryUC.CreateInput{
		Username: req.Username,
		Email:    req.Email,
		Role:     domain.Role(req.Role),
		Tier:     domain.Tier(req.Tier),
	}
	if req.Secret != "" {
		hash, err := authUC.HashSecret(req.Secret)
		if err != nil {
			h.respondError(ctx, domain.WrapError(domain.ErrCodeInternal, "credential hashing failed", err))
			return
		}
		input.CredentialHash = hash
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	account, err := h.uc.Create(stdCtx, actor.ID, input)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, account)
}

// @Summary Update account
// @Tags users
// @Router /api/v1/users/{id} [put]
func (h *UsersHandler) Update(ctx *fasthttp.RequestCtx) {
	actor, ok := resolveActor(ctx, h.baseHandler, h.auth)
	if !ok {
		return
	}

	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	var req transport.UpdateUserRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}
	if req.ID != nil || req.CreatedAt != nil {
		h.respondError(ctx, domain.ErrImmutableField)
		return
	}

	patch := directoryUC.UpdatePatch{
		Username:     req.Username,
		Email:        req.Email,
		Active:       req.Active,
		CreditsUsed:  req.CreditsUsed,
		CreditsLimit: req.CreditsLimit,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		patch.Role = &role
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	account, err := h.uc.Update(stdCtx, actor.ID, id, patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, account)
}

// @Summary Delete account
// @Tags users
// @Router /api/v1/users/{id} [delete]
func (h *UsersHandler) Delete(ctx *fasthttp.RequestCtx) {
	actor, ok := resolveActor(ctx, h.baseHandler, h.auth)
	if !ok {
		return
	}

	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, actor.ID, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Activate or deactivate account
// @Tags users
// @Router /api/v1/users/{id}/active [put]
func (h *UsersHandler) SetActive(ctx *fasthttp.RequestCtx) {
	actor, ok := resolveActor(ctx, h.baseHandler, h.auth)
	if !ok {
		return
	}

	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	var req transport.SetActiveRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Active == nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.SetActive(stdCtx, actor.ID, id, *req.Active); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Change subscription tier
// @Tags users
// @Router /api/v1/users/{id}/tier [put]
func (h *UsersHandler) ChangeTier(ctx *fasthttp.RequestCtx) {
	actor, ok := resolveActor(ctx, h.baseHandler, h.auth)
	if !ok {
		return
	}

	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	var req transport.ChangeTierRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Tier == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.ChangeTier(stdCtx, actor.ID, id, domain.Tier(req.Tier)); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Reset daily credits
// @Tags users
// @Router /api/v1/users/{id}/credits/reset [post]
func (h *UsersHandler) ResetCredits(ctx *fasthttp.RequestCtx) {
	actor, ok := resolveActor(ctx, h.baseHandler, h.auth)
	if !ok {
		return
	}

	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.ResetCredits(stdCtx, actor.ID, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func (h *UsersHandler) pathID(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing account id", nil))
		return "", false
	}
	return id, true
}
