package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	dto "github.com/dropDatabas3/guardia/internal/http/dto/auth"
	"github.com/dropDatabas3/guardia/internal/metrics"
	"github.com/dropDatabas3/guardia/internal/observability/logger"
	"github.com/dropDatabas3/guardia/internal/security/password"
	"github.com/dropDatabas3/guardia/internal/store/core"
	"github.com/dropDatabas3/guardia/internal/token"
)

// Login errors
var (
	ErrMissingFields      = fmt.Errorf("missing required fields")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrAccountDisabled    = fmt.Errorf("account disabled")
)

// LoginDeps contains dependencies for the login service.
type LoginDeps struct {
	Users   core.UserStore
	Access  *token.AccessService
	Refresh *token.RefreshService
}

type loginService struct {
	deps LoginDeps
}

// NewLoginService creates a new login service.
func NewLoginService(deps LoginDeps) LoginService {
	return &loginService{deps: deps}
}

// LoginPassword autentica con email/password. Not-found y password incorrecto
// colapsan en el mismo error para no filtrar existencia de cuentas.
func (s *loginService) LoginPassword(ctx context.Context, in dto.LoginRequest) (*dto.LoginResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("LoginPassword"),
	)

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.deps.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			log.Warn("user lookup failed", logger.Err(err))
		}
		return nil, ErrInvalidCredentials
	}
	if !password.Verify(in.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if user.Disabled() {
		return nil, ErrAccountDisabled
	}

	now := time.Now().Unix()
	access, err := s.deps.Access.Create(token.AccessPayload{
		SubjectID:   user.ID,
		Email:       user.Email,
		RoleID:      user.RoleID,
		RoleType:    user.RoleType,
		LoginFrom:   token.LoginFromCredential,
		LoginAt:     now,
		Permissions: core.Grants(user.Permissions),
	})
	if err != nil {
		log.Error("access token issuance failed", logger.Err(err))
		return nil, err
	}
	refresh, err := s.deps.Refresh.Create(token.RefreshPayload{
		SubjectID: user.ID,
		LoginFrom: token.LoginFromCredential,
		LoginAt:   now,
	}, in.Remember)
	if err != nil {
		log.Error("refresh token issuance failed", logger.Err(err))
		return nil, err
	}

	metrics.TokensIssued.WithLabelValues("access").Inc()
	metrics.TokensIssued.WithLabelValues("refresh").Inc()
	log.Info("login successful", logger.SubjectID(user.ID))

	return &dto.LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.deps.Access.TTL().Seconds()),
	}, nil
}
