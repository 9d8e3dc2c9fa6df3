// Package pg implementa core.UserStore sobre PostgreSQL con pgxpool.
package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/guardia/internal/observability/logger"
	"github.com/dropDatabas3/guardia/internal/store/core"
	"github.com/dropDatabas3/guardia/internal/token"
)

type Store struct{ pool *pgxpool.Pool }

// New abre el pool. El arranque es non-blocking: si el ping falla se loguea
// warning y la app arranca igual (la DB puede estar temporalmente abajo).
func New(ctx context.Context, dsn string, maxConns int) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		pcfg.MaxConns = int32(maxConns)
	}
	if pcfg.MaxConns == 0 {
		pcfg.MaxConns = 5
	}
	pcfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Named("store.pg").Warn("startup ping falló", logger.Err(err))
	} else {
		logger.Named("store.pg").Info("pool listo", logger.Int("max_conns", int(pcfg.MaxConns)))
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

const qUserByEmail = `
SELECT u.id, u.email, u.password_hash, u.role_id, r.role_type, u.created_at, u.disabled_at
FROM app_user u
JOIN role r ON r.id = u.role_id
WHERE lower(u.email) = lower($1)`

const qUserByID = `
SELECT u.id, u.email, u.password_hash, u.role_id, r.role_type, u.created_at, u.disabled_at
FROM app_user u
JOIN role r ON r.id = u.role_id
WHERE u.id = $1`

const qPermsByRole = `
SELECT subject, action_codes
FROM role_permission
WHERE role_id = $1
ORDER BY position`

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	return s.getUser(ctx, qUserByEmail, email)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*core.User, error) {
	return s.getUser(ctx, qUserByID, id)
}

func (s *Store) getUser(ctx context.Context, query, arg string) (*core.User, error) {
	var u core.User
	var roleType string
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.RoleID, &roleType, &u.CreatedAt, &u.DisabledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	u.RoleType = token.RoleType(roleType)

	rows, err := s.pool.Query(ctx, qPermsByRole, u.RoleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p core.PermissionRecord
		if err := rows.Scan(&p.Subject, &p.ActionCodes); err != nil {
			return nil, err
		}
		u.Permissions = append(u.Permissions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &u, nil
}
