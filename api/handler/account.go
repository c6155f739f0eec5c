package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/axsec/backend/domain"
	"github.com/axsec/backend/pkg/httpcontext"
	authUC "github.com/axsec/backend/usecase/auth"
)

// AccountHandler serves the authenticated account's own view.
type AccountHandler struct {
	baseHandler
	auth *authUC.UseCase
}

func NewAccountHandler(auth *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		baseHandler: newBaseHandler(adapter, logger),
		auth:        auth,
	}
}

type accountView struct {
	Account          *domain.Account `json:"account"`
	CreditsRemaining int             `json:"credits_remaining"`
	CreditsDisplay   string          `json:"credits_display"`
}

// @Summary Current account
// @Tags account
// @Router /api/v1/account [get]
func (h *AccountHandler) Current(ctx *fasthttp.RequestCtx) {
	account, ok := resolveActor(ctx, h.baseHandler, h.auth)
	if !ok {
		return
	}

	limits, _ := account.Tier.Limits()
	h.respondSuccess(ctx, http.StatusOK, accountView{
		Account:          account,
		CreditsRemaining: account.CreditsRemaining(),
		CreditsDisplay:   limits.DisplayCredits,
	})
}

type tierView struct {
	ID             string `json:"id"`
	DailyCredits   int    `json:"daily_credits"`
	DisplayCredits string `json:"display_credits"`
}

// @Summary Subscription tier catalog
// @Tags account
// @Router /api/v1/tiers [get]
func (h *AccountHandler) Tiers(ctx *fasthttp.RequestCtx) {
	tiers := domain.Tiers()
	views := make([]tierView, 0, len(tiers))
	for _, tier := range tiers {
		limits, _ := tier.Limits()
		views = append(views, tierView{
			ID:             string(tier),
			DailyCredits:   limits.DailyCredits,
			DisplayCredits: limits.DisplayCredits,
		})
	}
	h.respondSuccess(ctx, http.StatusOK, views)
}
