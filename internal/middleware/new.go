package middleware

import (
	pkgLog "mail-calendar-automation/pkg/log"
)

// Config configures the HTTP middlewares.
type Config struct {
	// InternalKey protects mutating routes when set. Clients send it in X-Internal-Key.
	InternalKey     string
	RateLimitPerMin int
}

type Middleware struct {
	l           pkgLog.Logger
	internalKey string
	limiter     *clientLimiter
}

func New(l pkgLog.Logger, cfg Config) Middleware {
	if l == nil {
		l = pkgLog.NewNop()
	}
	return Middleware{
		l:           l,
		internalKey: cfg.InternalKey,
		limiter:     newClientLimiter(cfg.RateLimitPerMin),
	}
}
