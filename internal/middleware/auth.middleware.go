package middleware

import (
	"net/http"
	"strings"

	"github.com/duccv/student-service/internal/constant"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenVerifier resolves a bearer token to the username it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// JWTAuthMiddleware gates routes on a valid bearer token.
type JWTAuthMiddleware struct {
	verifier TokenVerifier
}

func NewJWTAuthMiddleware(verifier TokenVerifier) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{verifier: verifier}
}

// Authenticate aborts with 401 unless the request carries a verifiable
// bearer token, then stores the token and its username on the context.
func (m *JWTAuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if !ok {
			handleAuthError(c, "missing_token", constant.UNAUTHORIZED.Message)
			return
		}

		username, err := m.verifier.Verify(token)
		if err != nil {
			zap.L().Debug("Token verification failed", zap.Error(err))
			handleAuthError(c, "invalid_token", constant.INVALID_TOKEN.Message)
			return
		}

		c.Set(constant.UsernameKey, username)
		c.Set(constant.BearerTokenKey, token)
		c.Next()
	}
}

// extractToken reads "Authorization: Bearer <token>".
func extractToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(constant.AuthHeader)
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constant.BearerPrefix) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// BearerToken returns the raw token accepted by Authenticate.
func BearerToken(c *gin.Context) string {
	return c.GetString(constant.BearerTokenKey)
}

// Username returns the authenticated teacher set by Authenticate.
func Username(c *gin.Context) string {
	return c.GetString(constant.UsernameKey)
}

func handleAuthError(c *gin.Context, errorType, message string) {
	zap.L().Warn("Authentication failed",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("ip", getClientIP(c)),
		zap.String("errorType", errorType))

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": message})
}
