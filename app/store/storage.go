package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/narang24/Journal-Website-Backend/app/models"
)

type Storage struct {
	Users interface {
		GetByID(ctx context.Context, id string) (*models.User, error)
		GetByEmail(ctx context.Context, email string) (*models.User, error)
		GetByVerificationToken(ctx context.Context, token string) (*models.User, error)
		GetByResetToken(ctx context.Context, token string) (*models.User, error)
		Create(ctx context.Context, user *models.User) error
		Update(ctx context.Context, user *models.User) error
	}
}

func NewStorage(db *sql.DB) Storage {
	return Storage{
		Users: &UsersStore{db: db},
	}
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation. Concurrent registrations with the same email are arbitrated by
// the unique index, not by the pre-insert lookup.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
