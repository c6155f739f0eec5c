package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/axsec/backend/api/handler"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Account *apiHandler.AccountHandler
	Users   *apiHandler.UsersHandler
	Modules *apiHandler.ModulesHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Health)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))
	r.GET("/api/v1/auth/session", authMiddleware(handlers.Auth.Session))

	r.GET("/api/v1/tiers", handlers.Account.Tiers)

	// Protected routes
	r.GET("/api/v1/account", authMiddleware(handlers.Account.Current))

	r.GET("/api/v1/users", authMiddleware(handlers.Users.List))
	r.POST("/api/v1/users", authMiddleware(handlers.Users.Create))
	r.PUT("/api/v1/users/{id}", authMiddleware(handlers.Users.Update))
	r.DELETE("/api/v1/users/{id}", authMiddleware(handlers.Users.Delete))
	r.PUT("/api/v1/users/{id}/active", authMiddleware(handlers.Users.SetActive))
	r.PUT("/api/v1/users/{id}/tier", authMiddleware(handlers.Users.ChangeTier))
	r.POST("/api/v1/users/{id}/credits/reset", authMiddleware(handlers.Users.ResetCredits))

	r.GET("/api/v1/modules", authMiddleware(handlers.Modules.Catalog))
	r.POST("/api/v1/modules/{id}/search", authMiddleware(handlers.Modules.Search))
	r.GET("/api/v1/searches", authMiddleware(handlers.Modules.History))

	return r
}
