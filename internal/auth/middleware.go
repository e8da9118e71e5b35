package auth

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"remarkly/internal/errors"
	"remarkly/internal/model"
	"remarkly/internal/repository"
)

// contextUserKey is where the resolved user is stored on the echo context.
const contextUserKey = "currentUser"

// CurrentUser resolves the identity embedded in a verified token to a User
// record and attaches it to the request context. It must run after the JWT
// middleware. A credential whose user no longer exists is rejected with 401.
func CurrentUser(users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "invalid token",
					Code:  "INVALID_TOKEN",
				})
			}

			claims, ok := token.Claims.(*Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "invalid token claims",
					Code:  "INVALID_TOKEN",
				})
			}

			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "user no longer exists",
					Code:  "INVALID_TOKEN",
				})
			}

			c.Set(contextUserKey, user)
			return next(c)
		}
	}
}

// UserFromContext returns the user attached by CurrentUser.
func UserFromContext(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(contextUserKey).(*model.User)
	return user, ok
}

// SetContextUser attaches a user to the context directly. Test helper for
// exercising handlers without the middleware chain.
func SetContextUser(c echo.Context, user *model.User) {
	c.Set(contextUserKey, user)
}
