package constant

// Constant package provides constants used throughout the application.

type ctxKey string

const (
	CorrelationIDKey ctxKey = "CorrelationID"
)

// Keys set on the gin context by middleware.
const (
	UsernameKey    = "username"
	BearerTokenKey = "bearerToken"
	RequestIDKey   = "requestId"
	BearerPrefix   = "Bearer"
	AuthHeader     = "Authorization"
	CorrelationID  = "X-Correlation-ID"
)
