package middlewares

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zeeshanfreelancer/memegenerator/services"
)

// UserIDKey is the echo context key holding the authenticated user id.
const UserIDKey = "userID"

// Auth resolves the bearer token to a user id and rejects requests without
// one. The resolved id is trusted unconditionally downstream.
func Auth(users services.UserStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := resolve(c, users)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"status":  http.StatusUnauthorized,
					"message": "error",
					"data":    echo.Map{"data": "authentication required"},
				})
			}
			c.Set(UserIDKey, id)
			return next(c)
		}
	}
}

// OptionalAuth resolves the bearer token when present and continues either
// way. Used on public reads where owners see more than visitors.
func OptionalAuth(users services.UserStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id, ok := resolve(c, users); ok {
				c.Set(UserIDKey, id)
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated user id from the context, or the zero id.
func UserID(c echo.Context) primitive.ObjectID {
	if id, ok := c.Get(UserIDKey).(primitive.ObjectID); ok {
		return id
	}
	return primitive.NilObjectID
}

func resolve(c echo.Context, users services.UserStore) (primitive.ObjectID, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return primitive.NilObjectID, false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" {
		return primitive.NilObjectID, false
	}

	user, err := users.FindByToken(c.Request().Context(), token)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return user.ID, true
}
