package middleware

import (
	"context"

	"github.com/duccv/student-service/internal/constant"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CorrelationIDMiddleware reuses the caller's X-Correlation-ID or mints one,
// echoes it on the response and stores it on both the request and gin contexts.
func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader(constant.CorrelationID)
		if cid == "" {
			cid = uuid.New().String()
		}
		ctx := context.WithValue(c.Request.Context(), constant.CorrelationIDKey, cid)
		c.Request = c.Request.WithContext(ctx)
		c.Set(constant.RequestIDKey, cid)
		c.Writer.Header().Set(constant.CorrelationID, cid)
		c.Next()
	}
}
