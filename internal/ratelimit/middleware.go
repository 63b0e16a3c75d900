package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"

	"saasbase/internal/platform/middleware"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/httputil"
	"saasbase/pkg/requestcontext"
)

// Observer is notified of rejected requests.
type Observer interface {
	IncrementRateLimited(route string)
}

// PerIP limits requests by client IP. Rejections get a 429 envelope with
// Retry-After; every response carries X-RateLimit-* headers.
func PerIP(limiter *Limiter, scope string, logger *slog.Logger, observer Observer) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)

			res := limiter.Allow(ctx, scope+":"+ip)
			setHeaders(w, res)
			if res.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			logger.WarnContext(ctx, "rate limit exceeded",
				"scope", scope,
				"ip_prefix", middleware.AnonymizeIP(ip),
				"path", r.URL.Path,
				"request_id", requestcontext.RequestID(ctx),
			)
			if observer != nil {
				observer.IncrementRateLimited(scope)
			}
			w.Header().Set("Retry-After", strconv.Itoa(res.RetryAfter))
			httputil.WriteError(w, dErrors.New(dErrors.CodeTooManyRequests, "too many requests, please try again later"))
		})
	}
}

func setHeaders(w http.ResponseWriter, res *Result) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	if !res.ResetAt.IsZero() {
		h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
	}
	if res.Degraded {
		h.Set("X-RateLimit-Status", "degraded")
	}
}
