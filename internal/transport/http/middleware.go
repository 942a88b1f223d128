package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"campus-quiz-service/internal/auth"
	"campus-quiz-service/internal/domain"
)

const contextClaimsKey = "claims"

// authenticated verifies the bearer credential and stores the decoded claims
// for the remainder of the request's handling.
func authenticated(gate *auth.Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := gate.Authenticate(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}
			c.Set(contextClaimsKey, claims)
			return next(c)
		}
	}
}

// requireRole rejects requests whose verified credential carries another role.
func requireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := contextClaims(c)
			if err != nil {
				return err
			}
			if claims.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, "permission denied")
			}
			return next(c)
		}
	}
}

func contextClaims(c echo.Context) (auth.Claims, error) {
	if claims, ok := c.Get(contextClaimsKey).(auth.Claims); ok {
		return claims, nil
	}
	return auth.Claims{}, domain.ErrMissingCredential
}
