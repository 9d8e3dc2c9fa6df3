package middlewares

import (
	"net/http"

	httperrors "github.com/dropDatabas3/guardia/internal/http/errors"
	"github.com/dropDatabas3/guardia/internal/observability/logger"
	"go.uber.org/zap"
)

// WithRecover captura panics y devuelve un error 500 en lugar de crashear.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log := logger.From(r.Context())
					log.Error("panic recovered",
						logger.Op("recover"),
						zap.Any("panic", rec),
					)
					httperrors.WriteError(w, httperrors.ErrInternalServerError.WithDetail("panic recovered"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
