// Package router wires the HTTP surface to its handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/gigstage/show-booking/internal/config"
	"github.com/gigstage/show-booking/internal/handler"
	"github.com/gigstage/show-booking/internal/middleware"
	"github.com/gigstage/show-booking/internal/model"
)

// Handlers collects every handler the routing table needs.
type Handlers struct {
	Auth       *handler.AuthHandler
	Shows      *handler.ShowHandler
	Consensus  *handler.ConsensusHandler
	Negotiator *handler.NegotiationHandler
	Votes      *handler.VoteHandler
	Backline   *handler.BacklineHandler
	Tickets    *handler.TicketHandler
}

// RegisterRoutes registers the liveness probe.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints. Register, login and the
// refresh flows are open; /v1/me sits behind the JWT middleware.
// Logout is reachable without a valid access token so expired sessions
// can still revoke their refresh token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterAPI registers the booking, consensus and settlement surface.
// Public reads go through the Redis response cache; the vote and
// application write endpoints carry the token-bucket rate limiter so a
// promotion campaign cannot hammer the ledger.
func RegisterAPI(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	rlCfg := config.LoadRateLimitConfig()
	rlCfg.KeyStrategy = "user_route"
	rateMW := middleware.NewTokenBucket(rlCfg, rdb)

	// Public reads. The optional JWT lets the vote view personalize
	// user_has_voted without requiring a session.
	e.GET("/v1/shows/:id", h.Shows.Get, cacheMW)
	e.GET("/v1/shows/:id/sales", h.Tickets.Sales, cacheMW)
	e.GET("/v1/shows/:id/votes", h.Votes.Info, middleware.OptionalJWTAuth(cfg.JWTSecret))

	auth := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))

	auth.POST("/shows", h.Shows.Create, middleware.RequireRole(model.RolePromoter))
	auth.POST("/shows/:id/members/decision", h.Consensus.Decide, middleware.RequireRole(model.RoleArtist))

	auth.GET("/shows/:id/negotiation", h.Negotiator.View, middleware.RequireRole(model.RoleVenue))
	auth.POST("/shows/:id/negotiation/review", h.Negotiator.Review, middleware.RequireRole(model.RoleVenue))
	auth.POST("/shows/:id/negotiation", h.Negotiator.Commit, middleware.RequireRole(model.RoleVenue))

	auth.POST("/shows/:id/votes", h.Votes.Add, rateMW)

	auth.GET("/shows/:id/backline", h.Backline.List)
	auth.POST("/shows/:id/backline", h.Backline.Apply, middleware.RequireRole(model.RoleArtist))
	auth.POST("/backline/:id/votes", h.Backline.Vote, rateMW)

	auth.POST("/shows/:id/tickets", h.Tickets.Order)
}
