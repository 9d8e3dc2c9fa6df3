// Package router arma el árbol de rutas HTTP y aplica el chain de
// middlewares y guards sobre cada grupo.
package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/guardia/internal/authz"
	authctrl "github.com/dropDatabas3/guardia/internal/http/controllers/auth"
	ordersctrl "github.com/dropDatabas3/guardia/internal/http/controllers/orders"
	httperrors "github.com/dropDatabas3/guardia/internal/http/errors"
	mw "github.com/dropDatabas3/guardia/internal/http/middlewares"
	"github.com/dropDatabas3/guardia/internal/rate"
)

// Pinger reporta si una dependencia está viva. Lo implementa el store de
// postgres; el de memoria no lo necesita.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps contiene todo lo que el router necesita para armar las rutas.
type Deps struct {
	Auth   *authctrl.Controllers
	Orders *ordersctrl.Controller
	Guard  *authz.Guard
	Basic  *authz.BasicGuard

	// LoginLimiter protege los endpoints que aceptan credenciales.
	// nil desactiva el rate limiting.
	LoginLimiter rate.Limiter

	// Readiness es opcional; nil hace que /readyz siempre responda ok.
	Readiness Pinger
}

// New construye el handler raíz.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Middlewares globales: el orden importa. RequestID primero para que el
	// logging ya lo tenga; recover adentro del logging para que un panic
	// quede registrado como 500.
	r.Use(mw.WithRequestID())
	r.Use(mw.WithLogging())
	r.Use(mw.WithRecover())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", readyz(deps.Readiness))

	// Endpoints públicos de autenticación, con rate limit por IP.
	r.Group(func(r chi.Router) {
		r.Use(mw.WithRateLimit(deps.LoginLimiter))
		r.Post("/v1/auth/login", deps.Auth.Login.Login)
		r.Post("/v1/auth/refresh", deps.Auth.Refresh.Refresh)
		r.Post("/v1/auth/logout", deps.Auth.Logout.Logout)
	})

	// Endpoints autenticados sin capacidades extra.
	r.Group(func(r chi.Router) {
		r.With(deps.Guard.Require(OpMe)).Get("/v1/me", deps.Auth.Me.Me)
		r.With(deps.Guard.Require(OpPermissionToken)).Post("/v1/auth/permission-token", deps.Auth.Permission.Issue)
	})

	// Recurso demo protegido por la policy.
	r.Route("/v1/orders", func(r chi.Router) {
		r.With(deps.Guard.Require(OpOrdersRead)).Get("/", deps.Orders.List)
		r.With(deps.Guard.Require(OpOrdersExport)).Get("/export", deps.Orders.Export)
		r.With(deps.Guard.Require(OpOrdersRead)).Get("/{id}", deps.Orders.Get)
		r.With(deps.Guard.Require(OpOrdersCreate)).Post("/", deps.Orders.Create)
		r.With(deps.Guard.Require(OpOrdersUpdate)).Put("/{id}", deps.Orders.Update)
		r.With(deps.Guard.Require(OpOrdersDelete)).Delete("/{id}", deps.Orders.Delete)
	})

	// Introspección para clientes confidenciales: basic auth, no bearer.
	r.With(deps.Basic.Require()).Post("/v1/introspect", deps.Auth.Introspect.Introspect)

	return r
}

func readyz(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			if err := p.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("not ready"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
