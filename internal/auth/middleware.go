package auth

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "feedhub/internal/errors"
)

// userIDKey is the echo context key under which Gate stores the caller id.
const userIDKey = "userID"

// Gate returns middleware that requires a valid "Authorization: Bearer"
// token. Every failure, missing header, malformed header, or unverifiable
// token, short-circuits the request with 401 before any handler runs. On
// success the resolved user id is attached to the request context.
func Gate(jwtService *JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				return nil, err
			}
			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return nil, fmt.Errorf("parse user id claim: %w", ErrInvalidToken)
			}
			c.Set(userIDKey, userID)
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized,
				apperrors.Response(apperrors.Unauthenticated("not authenticated")))
		},
	})
}

// UserID returns the authenticated user id attached by Gate.
func UserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(userIDKey).(uuid.UUID)
	return id, ok
}
