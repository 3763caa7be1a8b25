package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Sanzai-X/enlistment-service/internal/config"
	"github.com/Sanzai-X/enlistment-service/internal/handler"
	"github.com/Sanzai-X/enlistment-service/internal/middleware"
)

// Handlers groups everything the router needs so main only makes one call.
type Handlers struct {
	Auth       *handler.AuthHandler
	Enlistment *handler.EnlistmentHandler
	Catalog    *handler.CatalogHandler
	Registrar  *handler.RegistrarHandler
}

// Register wires every route of the service onto the Echo instance.
//
// Route map:
//
//	GET  /healthz                            liveness probe
//	POST /v1/auth/register|login|refresh     session endpoints, no JWT
//	POST /v1/auth/logout                     protected, revokes all sessions
//	GET  /v1/me                              protected profile
//	GET  /v1/catalog/...                     public, cached browse
//	POST /v1/enlistments                     STUDENT only
//	GET  /v1/enlistments                     STUDENT only
//	...  /v1/registrar/...                   REGISTRAR only
func Register(e *echo.Echo, cfg config.Config, rdb *redis.Client, h Handlers) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Session endpoints.  Register/login/refresh need no token; logout and
	// the profile endpoint require one.
	auth := e.Group("/v1/auth", limiter)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout, middleware.JWTAuth(cfg.JWTSecret))

	me := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	me.GET("/me", h.Auth.Me)

	// Public catalog.  Read-only and cacheable; no authentication so
	// students can browse sections before logging in.
	catalog := e.Group("/v1/catalog", limiter, cache)
	catalog.GET("/sections", h.Catalog.ListSections)
	catalog.GET("/subjects", h.Catalog.ListSubjects)

	// Enlistment endpoints act on the student number carried in the JWT.
	enlist := e.Group("/v1/enlistments",
		middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole("STUDENT"),
		limiter)
	enlist.POST("", h.Enlistment.Perform)
	enlist.GET("", h.Enlistment.MySections)

	// Administrative setup of the catalog.
	reg := e.Group("/v1/registrar",
		middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole("REGISTRAR"))
	reg.POST("/subjects", h.Registrar.CreateSubject)
	reg.POST("/rooms", h.Registrar.CreateRoom)
	reg.POST("/faculty", h.Registrar.CreateFaculty)
	reg.POST("/students", h.Registrar.CreateStudent)
	reg.POST("/sections", h.Registrar.CreateSection)
	reg.PUT("/sections/:id/faculty", h.Registrar.AssignFaculty)
}
