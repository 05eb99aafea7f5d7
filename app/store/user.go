package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/narang24/Journal-Website-Backend/app/models"
)

// userColumns is the full row. Reads never project fields away; hiding
// sensitive columns is the job of models.User.Public at the serialization
// boundary.
const userColumns = `id, full_name, email, password_hash, role, bio, expertise,
	is_email_verified, email_verification_token, email_verification_expires,
	reset_password_token, reset_password_expires, is_active, last_login,
	created_at, updated_at`

type UsersStore struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	var expertise []byte
	err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Bio,
		&expertise,
		&user.IsEmailVerified,
		&user.EmailVerificationToken,
		&user.EmailVerificationExpires,
		&user.ResetPasswordToken,
		&user.ResetPasswordExpires,
		&user.IsActive,
		&user.LastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(expertise) > 0 {
		if err := json.Unmarshal(expertise, &user.Expertise); err != nil {
			return nil, fmt.Errorf("decode expertise: %w", err)
		}
	}
	return &user, nil
}

func (s *UsersStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

func (s *UsersStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return scanUser(s.db.QueryRowContext(ctx, query, email))
}

// GetByVerificationToken matches a non-expired verification token; expired or
// consumed tokens yield sql.ErrNoRows.
func (s *UsersStore) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
	WHERE email_verification_token = $1 AND email_verification_expires > now()`
	return scanUser(s.db.QueryRowContext(ctx, query, token))
}

// GetByResetToken matches a non-expired password reset token.
func (s *UsersStore) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
	WHERE reset_password_token = $1 AND reset_password_expires > now()`
	return scanUser(s.db.QueryRowContext(ctx, query, token))
}

func (s *UsersStore) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	expertise, err := json.Marshal(emptyIfNil(user.Expertise))
	if err != nil {
		return fmt.Errorf("encode expertise: %w", err)
	}

	query := `
	INSERT INTO users (id, full_name, email, password_hash, role, bio, expertise,
		is_email_verified, email_verification_token, email_verification_expires,
		is_active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING created_at, updated_at
	`

	return s.db.QueryRowContext(ctx, query,
		user.ID,
		user.FullName,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Bio,
		expertise,
		user.IsEmailVerified,
		user.EmailVerificationToken,
		user.EmailVerificationExpires,
		user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (s *UsersStore) Update(ctx context.Context, user *models.User) error {
	expertise, err := json.Marshal(emptyIfNil(user.Expertise))
	if err != nil {
		return fmt.Errorf("encode expertise: %w", err)
	}

	query := `
	UPDATE users SET
		full_name = $1,
		email = $2,
		password_hash = $3,
		role = $4,
		bio = $5,
		expertise = $6,
		is_email_verified = $7,
		email_verification_token = $8,
		email_verification_expires = $9,
		reset_password_token = $10,
		reset_password_expires = $11,
		is_active = $12,
		last_login = $13,
		updated_at = now()
	WHERE id = $14
	RETURNING updated_at
	`

	return s.db.QueryRowContext(ctx, query,
		user.FullName,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Bio,
		expertise,
		user.IsEmailVerified,
		user.EmailVerificationToken,
		user.EmailVerificationExpires,
		user.ResetPasswordToken,
		user.ResetPasswordExpires,
		user.IsActive,
		user.LastLogin,
		user.ID,
	).Scan(&user.UpdatedAt)
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
