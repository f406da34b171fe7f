package auth

import (
	"net/http"

	"delivery-ops/internal/models"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// Context keys set for handlers once a request is authenticated.
const (
	CtxUserID   = "userID"
	CtxUserName = "userName"
	CtxUserRole = "userRole"
)

// SessionSource reports the single live session.
type SessionSource interface {
	Session() (models.User, bool)
}

// JWT verifies the bearer token and stores it under "user".
func JWT(issuer *Issuer) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    issuer.Secret(),
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return new(Claims) },
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Missing or invalid token"})
		},
	})
}

// RequireSession rejects tokens that do not belong to the current session.
// Only one user is signed in at a time, so a token minted before a later
// login or a logout stops working.
func RequireSession(sessions SessionSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Missing or invalid token"})
			}
			claims, ok := token.Claims.(*Claims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Missing or invalid token"})
			}
			user, ok := sessions.Session()
			if !ok || user.ID != claims.Subject {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Session has ended"})
			}
			c.Set(CtxUserID, user.ID)
			c.Set(CtxUserName, user.Name)
			c.Set(CtxUserRole, string(user.Role))
			return next(c)
		}
	}
}
