package middleware

import (
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/envelope/pkg/pipeline"
)

// UserIDKey is the user value holding the authenticated subject.
const UserIDKey = "user_id"

// JWTAuth guards a handler with an HMAC-signed bearer token. Rejections are
// returned as 401 errors so the error handler renders them.
func JWTAuth(secret string, logger *zap.Logger) func(pipeline.Handler) pipeline.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next pipeline.Handler) pipeline.Handler {
		return func(c *pipeline.Context) error {
			tokenString := extractToken(c)
			if tokenString == "" {
				return pipeline.NewHTTPError(fasthttp.StatusUnauthorized, "missing bearer token")
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("invalid jwt token", zap.Error(err))
				return pipeline.WrapHTTPError(fasthttp.StatusUnauthorized, err)
			}

			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				if userID, ok := claims["user_id"].(string); ok {
					c.RequestCtx().SetUserValue(UserIDKey, userID)
				}
			}

			return next(c)
		}
	}
}

func extractToken(c *pipeline.Context) string {
	header := string(c.Request().Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
