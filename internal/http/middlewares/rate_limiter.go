package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"activity-tracker.com/activity-tracker/internal/auth"
)

// RateLimiter allows limit requests per window for each caller. Signed-in
// users get their own budget; everyone else shares one per client IP, so
// unknown user headers do not open new budgets. Register it after Identity.
func RateLimiter(limit int, window time.Duration) echo.MiddlewareFunc {
	l := &windowLimiter{
		limit:   limit,
		window:  window,
		windows: make(map[string]fixedWindow),
		now:     time.Now,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.allow(callerKey(c)) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

type fixedWindow struct {
	opened time.Time
	used   int
}

type windowLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	windows   map[string]fixedWindow
	lastSweep time.Time
	now       func() time.Time
}

func (l *windowLimiter) allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.window {
		l.sweep(now)
	}

	w, ok := l.windows[key]
	if !ok || now.Sub(w.opened) > l.window {
		w = fixedWindow{opened: now}
	}
	if w.used >= l.limit {
		l.windows[key] = w
		return false
	}

	w.used++
	l.windows[key] = w
	return true
}

// sweep forgets callers whose window has closed.
func (l *windowLimiter) sweep(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.opened) > l.window {
			delete(l.windows, key)
		}
	}
	l.lastSweep = now
}

func callerKey(c echo.Context) string {
	if u := auth.FromContext(c.Request().Context()).CurrentUser(); u != nil {
		return "user:" + u.ID
	}
	return "ip:" + c.RealIP()
}
