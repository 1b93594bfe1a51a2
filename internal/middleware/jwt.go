package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/auth-service/internal/token"
)

// JWTAuth returns an Echo middleware that validates a bearer access token
// through the token engine and injects the token's subject into the request
// context under "user_id".  Going through the engine rather than a bare JWT
// parse matters: the engine also consults the deny-list, so a logged-out
// token is rejected even while its signature and expiry still verify.
//
// The token may arrive in an `Authorization: Bearer <token>` header or,
// for compatibility with older clients, as a `token` query parameter.
func JWTAuth(engine *token.Engine) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw := BearerToken(c)
            if raw == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }

            claims, err := engine.VerifyAccess(c.Request().Context(), raw)
            switch err {
            case nil:
                // fallthrough to the handler
            case token.ErrTokenExpired:
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "access token expired, refresh it"})
            case token.ErrUnauthenticated:
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            default:
                // Cache connectivity problems are not an auth failure.
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token verification unavailable"})
            }

            c.Set("user_id", claims.Subject)
            c.Set("access_token", raw)
            return next(c)
        }
    }
}

// BearerToken extracts the raw access token from the Authorization header
// or the `token` query parameter.  Returns "" when neither is present.
func BearerToken(c echo.Context) string {
    auth := c.Request().Header.Get("Authorization")
    if strings.HasPrefix(auth, "Bearer ") {
        return strings.TrimPrefix(auth, "Bearer ")
    }
    return c.QueryParam("token")
}
