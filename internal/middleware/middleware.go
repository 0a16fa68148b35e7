package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	pkgLog "mail-calendar-automation/pkg/log"
	"mail-calendar-automation/pkg/response"
)

const (
	headerRequestID   = "X-Request-ID"
	headerInternalKey = "X-Internal-Key"
)

// Trace attaches a trace id to the request context, reusing X-Request-ID when present.
func (m Middleware) Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(pkgLog.WithTraceID(c.Request.Context(), id))
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// RateLimit rejects clients exceeding the configured request rate.
func (m Middleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.limiter == nil {
			c.Next()
			return
		}
		ip := clientIP(c.Request)
		if !m.limiter.allow(ip) {
			m.l.Warnf(c.Request.Context(), "Rate limit exceeded for %s", ip)
			response.TooManyRequests(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// InternalKey requires X-Internal-Key to match the configured key.
// Without a configured key every request passes.
func (m Middleware) InternalKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.internalKey == "" {
			c.Next()
			return
		}
		got := c.GetHeader(headerInternalKey)
		if subtle.ConstantTimeCompare([]byte(got), []byte(m.internalKey)) != 1 {
			response.Unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
