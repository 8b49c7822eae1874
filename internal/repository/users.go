package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinicbook/api/internal/models"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, username, password_hash, role, name, email, phone, specialization, created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.Specialization,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, username, password_hash, role, name, email, phone, specialization, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.Name,
		user.Email,
		user.Phone,
		user.Specialization,
	)
	if err != nil {
		if isUniqueViolation(err, "users_username_key") {
			return ErrUsernameTaken
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

func (r *UserRepository) ListDoctors(ctx context.Context, specialization string) ([]models.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = 'doctor'
		  AND ($1 = '' OR specialization ILIKE '%' || $1 || '%')
		ORDER BY name
	`
	return r.listUsers(ctx, query, specialization)
}

func (r *UserRepository) ListSpecializations(ctx context.Context) ([]string, error) {
	const query = `
		SELECT DISTINCT specialization
		FROM users
		WHERE role = 'doctor' AND specialization IS NOT NULL AND specialization <> ''
		ORDER BY specialization
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *UserRepository) ListAll(ctx context.Context) ([]models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	return r.listUsers(ctx, query)
}

func (r *UserRepository) listUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

func (r *UserRepository) UpdateDoctorProfile(ctx context.Context, id string, profile DoctorProfile) (models.User, error) {
	const query = `
		UPDATE users
		SET name = $2, email = $3, phone = $4, specialization = $5, updated_at = NOW()
		WHERE id = $1 AND role = 'doctor'
		RETURNING ` + userColumns

	return scanUser(r.pool.QueryRow(ctx, query,
		id,
		profile.Name,
		profile.Email,
		profile.Phone,
		profile.Specialization,
	))
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
