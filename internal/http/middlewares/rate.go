package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	httperrors "github.com/dropDatabas3/guardia/internal/http/errors"
	"github.com/dropDatabas3/guardia/internal/observability/logger"
	"github.com/dropDatabas3/guardia/internal/rate"
)

// clientIP extrae la IP del cliente, considerando proxies.
func clientIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

// WithRateLimit limita requests por IP+path con el limiter dado.
// limiter nil desactiva el middleware. Si el backend del limiter falla se
// deja pasar el request: preferimos degradar a bloquear tráfico legítimo.
func WithRateLimit(limiter rate.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r) + ":" + r.URL.Path
			res, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter no disponible", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			if !res.Allowed {
				if res.RetryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())))
				}
				httperrors.WriteError(w, httperrors.ErrTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
