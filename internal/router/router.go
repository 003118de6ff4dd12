// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/courtbook/court-booking/internal/config"
	"github.com/courtbook/court-booking/internal/handler"
	"github.com/courtbook/court-booking/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication and
// no state: currently just the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Register,
// login and refresh live under /v1/auth without middleware; logout and
// me require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	auth := middleware.JWTAuth(jwtSecret)
	g.POST("/logout", a.Logout, auth)
	e.GET("/v1/me", a.Me, auth)
}

// RegisterPublic registers the unauthenticated browse endpoints: the
// booked-slots calendar, tournament listings and the booking
// confirmation link target (reached from email, where no session
// exists).  Read endpoints sit behind the short-TTL response cache.
func RegisterPublic(e *echo.Echo, b *handler.BookingHandler, t *handler.TournamentHandler, ct *handler.ContactHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	cache := middleware.NewRedisCache(cacheCfg, rdb)

	e.GET("/v1/bookings/slots", b.Slots, cache)
	e.GET("/v1/tournaments/active", t.Active, cache)
	e.GET("/v1/tournaments", t.All, cache)
	e.POST("/v1/bookings/:id/confirm", b.Confirm)
	e.POST("/v1/contact", ct.Submit)
}

// RegisterBooking registers the authenticated booking endpoints.  The
// token-bucket limiter guards the mutation routes so a script cannot
// sweep every slot on a date.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	limit := middleware.NewTokenBucket(rlCfg, rdb)

	g.POST("/bookings", b.Create, limit)
	g.POST("/bookings/:id/cancel", b.Cancel, limit)
	g.GET("/my/bookings", b.Mine)
}

// RegisterTournament registers the authenticated tournament and
// team-entry endpoints.  Confirmation is admin-only.
func RegisterTournament(e *echo.Echo, t *handler.TournamentHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	limit := middleware.NewTokenBucket(rlCfg, rdb)

	g.POST("/tournaments", t.Create, limit)
	g.POST("/tournaments/:id/cancel", t.Cancel, limit)
	g.GET("/my/tournaments", t.Mine)

	g.POST("/tournaments/:id/entries", t.RegisterTeam, limit)
	g.POST("/entries/:id/cancel", t.CancelEntry, limit)
	g.GET("/my/entries", t.MyEntries)

	g.POST("/tournaments/:id/confirm", t.Confirm, middleware.RequireAdmin())
}
