package handler

import (
	"encoding/json"
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/axsec/backend/api/transport"
	"github.com/axsec/backend/domain"
	"github.com/axsec/backend/pkg/httpcontext"
	authUC "github.com/axsec/backend/usecase/auth"
)

// TokenConfig carries what the handler needs to mint bearer tokens.
type TokenConfig struct {
	Secret string
	Issuer string
}

type AuthHandler struct {
	baseHandler
	uc    *authUC.UseCase
	token TokenConfig
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger, token TokenConfig) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		token:       token,
	}
}

type loginResponse struct {
	Token   string          `json:"token"`
	Session *domain.Session `json:"session"`
	Account *domain.Account `json:"account"`
}

// @Summary Authenticate and open a session
// @Tags auth
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Identifier == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, account, err := h.uc.Authenticate(stdCtx, req.Identifier, req.Secret)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	token, err := h.signToken(session)
	if err != nil {
		h.logger.Error("failed to sign session token", zap.Error(err))
		h.respondError(ctx, domain.WrapError(domain.ErrCodeInternal, "token signing failed", err))
		return
	}

	h.respondSuccess(ctx, http.StatusCreated, loginResponse{
		Token:   token,
		Session: session,
		Account: account,
	})
}

// @Summary Close the current session
// @Tags auth
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	sessionID := h.sessionID(ctx)
	if sessionID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.SignOut(stdCtx, sessionID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Inspect the current session
// @Tags auth
// @Router /api/v1/auth/session [get]
func (h *AuthHandler) Session(ctx *fasthttp.RequestCtx) {
	sessionID := h.sessionID(ctx)
	if sessionID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, account, err := h.uc.Current(stdCtx, sessionID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"session": session,
		"account": account,
	})
}

func (h *AuthHandler) signToken(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid": session.ID,
		"sub": session.AccountID,
		"iss": h.token.Issuer,
		"iat": session.CreatedAt.Unix(),
		"exp": session.ExpiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.token.Secret))
}

// resolveActor re-resolves the caller's account through the session
// manager. Shared by the handlers that need the acting account.
func resolveActor(ctx *fasthttp.RequestCtx, h baseHandler, uc *authUC.UseCase) (*domain.Account, bool) {
	sessionID := h.sessionID(ctx)
	if sessionID == "" {
		return nil, false
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	_, account, err := uc.Current(stdCtx, sessionID)
	if err != nil {
		h.respondError(ctx, err)
		return nil, false
	}
	return account, true
}
