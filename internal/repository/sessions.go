package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinicbook/api/internal/models"
)

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, session models.Session) error {
	const query = `
		INSERT INTO sessions (
			token_hash, user_id, username, role, name, email, specialization, created_at, expires_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), $8
		)
	`

	_, err := r.pool.Exec(ctx, query,
		session.TokenHash,
		session.UserID,
		session.Username,
		session.Role,
		session.Name,
		session.Email,
		session.Specialization,
		session.ExpiresAt,
	)
	return err
}

func (r *SessionRepository) GetByTokenHash(ctx context.Context, hash []byte) (models.Session, error) {
	const query = `
		SELECT token_hash, user_id, username, role, name, email, specialization, created_at, expires_at
		FROM sessions
		WHERE token_hash = $1
	`

	row := r.pool.QueryRow(ctx, query, hash)
	var session models.Session
	if err := row.Scan(
		&session.TokenHash,
		&session.UserID,
		&session.Username,
		&session.Role,
		&session.Name,
		&session.Email,
		&session.Specialization,
		&session.CreatedAt,
		&session.ExpiresAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, err
	}
	return session, nil
}

func (r *SessionRepository) DeleteByTokenHash(ctx context.Context, hash []byte) error {
	const query = `DELETE FROM sessions WHERE token_hash = $1`
	cmd, err := r.pool.Exec(ctx, query, hash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM sessions WHERE expires_at <= $1`
	cmd, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
