// guardia es el servicio de autorización: emite tokens firmados (access,
// refresh, permission) y protege recursos con un chain de guards declarativo.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/guardia/internal/authz"
	"github.com/dropDatabas3/guardia/internal/cache"
	memcache "github.com/dropDatabas3/guardia/internal/cache/memory"
	redcache "github.com/dropDatabas3/guardia/internal/cache/redis"
	"github.com/dropDatabas3/guardia/internal/config"
	authctrl "github.com/dropDatabas3/guardia/internal/http/controllers/auth"
	ordersctrl "github.com/dropDatabas3/guardia/internal/http/controllers/orders"
	"github.com/dropDatabas3/guardia/internal/http/router"
	authsvc "github.com/dropDatabas3/guardia/internal/http/services/auth"
	"github.com/dropDatabas3/guardia/internal/metrics"
	"github.com/dropDatabas3/guardia/internal/observability/logger"
	"github.com/dropDatabas3/guardia/internal/rate"
	"github.com/dropDatabas3/guardia/internal/security/password"
	"github.com/dropDatabas3/guardia/internal/session"
	"github.com/dropDatabas3/guardia/internal/store/core"
	memstore "github.com/dropDatabas3/guardia/internal/store/memory"
	pgstore "github.com/dropDatabas3/guardia/internal/store/pg"
	"github.com/dropDatabas3/guardia/internal/token"
)

func main() {
	// .env opcional; el entorno del sistema siempre gana.
	_ = godotenv.Load()

	var cfgPath string

	root := &cobra.Command{
		Use:   "guardia",
		Short: "Servicio de autorización: tokens firmados + guards declarativos",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", os.Getenv("CONFIG_PATH"), "ruta del YAML de configuración (env CONFIG_PATH)")

	root.AddCommand(serveCmd(&cfgPath))
	root.AddCommand(tokenCmd(&cfgPath))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ====== serve ======

func serveCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}

			logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "guardia"})
			defer func() { _ = logger.Sync() }()
			log := logger.Named("main")

			if err := metrics.RegisterAuth(prometheus.DefaultRegisterer); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			deps, cleanup, err := buildDeps(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			srv := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      router.New(*deps),
				ReadTimeout:  config.Dur(cfg.Server.ReadTimeout),
				WriteTimeout: config.Dur(cfg.Server.WriteTimeout),
			}

			metricsAddr := cfg.Server.MetricsAddr
			if metricsAddr == "" {
				metricsAddr = ":9090"
			}
			metricsMux := http.NewServeMux()
			metricsMux.Handle("/metrics", promhttp.Handler())
			msrv := &http.Server{Addr: metricsAddr, Handler: metricsMux}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Info("server listening", logger.String("addr", cfg.Server.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				log.Info("metrics listening", logger.String("addr", metricsAddr))
				if err := msrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				log.Info("shutting down")
				shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = msrv.Shutdown(shutCtx)
				return srv.Shutdown(shutCtx)
			})

			return g.Wait()
		},
	}
}

// serverDeps junta lo construido para poder cerrarlo ordenadamente.
func buildDeps(ctx context.Context, cfg *config.Config) (*router.Deps, func(), error) {
	log := logger.Named("wiring")

	access, refresh, permission, err := buildTokenServices(cfg)
	if err != nil {
		return nil, nil, err
	}

	// Cache: revocación de sesiones y rate limiting comparten backend.
	var (
		c       cache.Cache
		limiter rate.Limiter
		cleanup = func() {}
	)
	switch cfg.Cache.Kind {
	case "redis":
		rc := redcache.New(cfg.Cache.Redis.Addr, cfg.Cache.Redis.DB, cfg.Cache.Redis.Prefix)
		c = rc
		if cfg.Rate.Enabled {
			limiter = rate.NewRedisLimiter(rc.Client(), "rl:", cfg.Rate.Login.Limit, config.Dur(cfg.Rate.Login.Window))
		}
	default:
		c = memcache.New(config.Dur(cfg.Cache.Memory.DefaultTTL))
		if cfg.Rate.Enabled {
			limiter = rate.NewMemoryLimiter(cfg.Rate.Login.Limit, config.Dur(cfg.Rate.Login.Window))
		}
	}
	revocations := session.NewRevocationStore(c)

	// Store de usuarios.
	var (
		users     core.UserStore
		readiness router.Pinger
	)
	switch cfg.Storage.Driver {
	case "postgres":
		pg, err := pgstore.New(ctx, cfg.Storage.DSN, cfg.Storage.Postgres.MaxConns)
		if err != nil {
			return nil, nil, err
		}
		users = pg
		readiness = pg
		prev := cleanup
		cleanup = func() { pg.Close(); prev() }
	default:
		ms := memstore.New()
		if cfg.App.Env != "prod" {
			seed(ms)
		} else {
			log.Warn("storage.driver=memory en prod: sin usuarios")
		}
		users = ms
	}

	services := authsvc.Services{
		Login: authsvc.NewLoginService(authsvc.LoginDeps{
			Users: users, Access: access, Refresh: refresh,
		}),
		Refresh: authsvc.NewRefreshService(authsvc.RefreshDeps{
			Users: users, Access: access, Refresh: refresh, Revocations: revocations,
		}),
		Logout: authsvc.NewLogoutService(authsvc.LogoutDeps{
			Revocations: revocations,
			RetainFor:   config.Dur(cfg.Token.RememberMe),
		}),
		Permission: authsvc.NewPermissionTokenService(authsvc.PermissionDeps{
			Permission: permission,
		}),
		Introspect: authsvc.NewIntrospectService(authsvc.IntrospectDeps{
			Access: access, Refresh: refresh, Permission: permission, Revocations: revocations,
		}),
	}

	guard := authz.NewGuard(access, permission, router.DefaultPolicy(), cfg.Token.PermissionHeader)
	basic := authz.NewBasicGuard(cfg.Basic.ClientID, cfg.Basic.ClientSecret)

	return &router.Deps{
		Auth:         authctrl.NewControllers(services),
		Orders:       ordersctrl.NewController(),
		Guard:        guard,
		Basic:        basic,
		LoginLimiter: limiter,
		Readiness:    readiness,
	}, cleanup, nil
}

func buildTokenServices(cfg *config.Config) (*token.AccessService, *token.RefreshService, *token.PermissionService, error) {
	var encKey, encIV []byte
	if cfg.Token.Encrypt {
		var err error
		if encKey, err = cfg.EncryptionKeyBytes(); err != nil {
			return nil, nil, nil, err
		}
		if encIV, err = cfg.EncryptionIVBytes(); err != nil {
			return nil, nil, nil, err
		}
	}

	newCodec := func(tc config.TokenConfig) (*token.Codec, error) {
		return token.NewCodec(token.CodecOptions{
			Secret:        []byte(tc.Secret),
			Issuer:        tc.Issuer,
			Audience:      tc.Audience,
			Encrypt:       cfg.Token.Encrypt,
			EncryptionKey: encKey,
			EncryptionIV:  encIV,
		})
	}

	accessCodec, err := newCodec(cfg.Token.Access)
	if err != nil {
		return nil, nil, nil, err
	}
	refreshCodec, err := newCodec(cfg.Token.Refresh)
	if err != nil {
		return nil, nil, nil, err
	}
	permCodec, err := newCodec(cfg.Token.Permission)
	if err != nil {
		return nil, nil, nil, err
	}

	nbAccess := config.Dur(cfg.Token.Access.NotBefore)
	nbRefresh := config.Dur(cfg.Token.Refresh.NotBefore)
	nbPerm := config.Dur(cfg.Token.Permission.NotBefore)

	return token.NewAccessService(accessCodec, config.Dur(cfg.Token.Access.TTL), nbAccess),
		token.NewRefreshService(refreshCodec, config.Dur(cfg.Token.Refresh.TTL), config.Dur(cfg.Token.RememberMe), nbRefresh),
		token.NewPermissionService(permCodec, config.Dur(cfg.Token.Permission.TTL), nbPerm),
		nil
}

// seed carga usuarios de desarrollo en el store de memoria. Solo corre
// fuera de prod.
func seed(s *memstore.Store) {
	log := logger.Named("seed")
	pass := os.Getenv("SEED_PASSWORD")
	if pass == "" {
		pass = "changeme"
	}
	hash, err := password.Hash(password.Default, pass)
	if err != nil {
		log.Warn("seed hash failed", logger.Err(err))
		return
	}
	now := time.Now().UTC()
	s.Put(&core.User{
		ID: "dev-admin", Email: "admin@guardia.local", PasswordHash: hash,
		RoleID: "role-admin", RoleType: token.RoleAdmin,
		Permissions: []core.PermissionRecord{{Subject: "order", ActionCodes: "0"}},
		CreatedAt:   now,
	})
	s.Put(&core.User{
		ID: "dev-user", Email: "user@guardia.local", PasswordHash: hash,
		RoleID: "role-user", RoleType: token.RoleUser,
		Permissions: []core.PermissionRecord{{Subject: "order", ActionCodes: "1,2,3"}},
		CreatedAt:   now,
	})
	log.Warn("seeded dev users", logger.String("emails", "admin@guardia.local,user@guardia.local"))
}

// ====== token ======

func tokenCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Herramientas de tokens (mint/inspect) con la config del servicio",
	}

	var (
		subject string
		email   string
		role    string
		perms   []string
	)
	mint := &cobra.Command{
		Use:   "mint",
		Short: "Emite un access token de prueba",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			access, _, _, err := buildTokenServices(cfg)
			if err != nil {
				return err
			}

			grants := make([]token.PermissionGrant, 0, len(perms))
			for _, p := range perms {
				// formato subject:codes, ej: order:1,3
				idx := strings.IndexByte(p, ':')
				if idx <= 0 {
					return fmt.Errorf("permiso inválido %q, formato subject:codes", p)
				}
				grants = append(grants, token.PermissionGrant{Subject: p[:idx], Action: p[idx+1:]})
			}

			raw, err := access.Create(token.AccessPayload{
				SubjectID:   subject,
				Email:       email,
				RoleType:    token.RoleType(role),
				LoginFrom:   token.LoginFromCredential,
				LoginAt:     time.Now().Unix(),
				Permissions: grants,
			})
			if err != nil {
				return err
			}
			fmt.Println(raw)
			return nil
		},
	}
	mint.Flags().StringVar(&subject, "subject", "dev-user", "subjectId del token")
	mint.Flags().StringVar(&email, "email", "", "email del token")
	mint.Flags().StringVar(&role, "role", "user", "roleType: user|admin|super_admin")
	mint.Flags().StringArrayVar(&perms, "perm", nil, "permiso subject:codes (repetible), ej: order:1,3")

	var kind string
	inspect := &cobra.Command{
		Use:   "inspect [token]",
		Short: "Valida un token y muestra sus claims",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			access, refresh, permission, err := buildTokenServices(cfg)
			if err != nil {
				return err
			}

			var claims any
			switch kind {
			case "refresh":
				claims, err = refresh.DecodePayload(args[0])
			case "permission":
				claims, err = permission.DecodePayload(args[0])
			default:
				claims, err = access.DecodePayload(args[0])
			}
			if err != nil {
				return err
			}
			b, _ := json.MarshalIndent(claims, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}
	inspect.Flags().StringVar(&kind, "kind", "access", "tipo de token: access|refresh|permission")

	cmd.AddCommand(mint, inspect)
	return cmd
}
