package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/auth-service/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/auth-service/internal/middleware" // import middleware for JWT authentication and rate limiting
	"github.com/iliyamo/auth-service/internal/token"      // token engine backing the JWT middleware
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the /auth endpoints.  Signup and login take no token
// and sit behind the rate limiter; logout and refresh operate on the tokens
// carried in the request itself, so neither needs the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/auth")
	g.POST("/signup", a.Signup, limiter)
	g.POST("/login", a.Login, limiter)
	g.POST("/logout", a.Logout)
	g.POST("/refresh", a.Refresh)
}

// RegisterRoles wires role CRUD under /roles.  Every route requires a valid
// access token.
func RegisterRoles(e *echo.Echo, r *handler.RoleHandler, engine *token.Engine) {
	g := e.Group("/roles")
	g.Use(middleware.JWTAuth(engine))
	g.GET("", r.List)
	g.POST("", r.Create)
	g.PUT("/:id", r.Update)
	g.DELETE("/:id", r.Delete)
}

// RegisterUsers wires the self-service endpoints under /users.  The
// credentials update re-authenticates inside the handler, so it is the only
// /users route outside the JWT group; the per-user routes additionally
// verify ownership in the handler.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, engine *token.Engine) {
	e.PUT("/users/update-credentials", u.UpdateCredentials)

	g := e.Group("/users")
	g.Use(middleware.JWTAuth(engine))
	g.GET("/:id/roles", u.GetRole)
	g.POST("/:id/roles", u.AssignRole)
	g.DELETE("/:id/roles", u.RemoveRole)
	g.GET("/:id/auth-history", u.AuthHistory)
}
