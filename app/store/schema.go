package store

import (
	"context"
	"database/sql"
)

// Users schema. Email uniqueness is case-insensitive via the lower(email)
// index; both token columns carry partial indexes since most rows hold NULL.
const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	id uuid PRIMARY KEY,
	full_name varchar(50) NOT NULL,
	email varchar(100) NOT NULL,
	password_hash text NOT NULL,
	role varchar(20) NOT NULL DEFAULT 'publisher',
	bio varchar(500) NOT NULL DEFAULT '',
	expertise jsonb NOT NULL DEFAULT '[]',
	is_email_verified boolean NOT NULL DEFAULT false,
	email_verification_token text,
	email_verification_expires timestamptz,
	reset_password_token text,
	reset_password_expires timestamptz,
	is_active boolean NOT NULL DEFAULT true,
	last_login timestamptz,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_key ON users (lower(email));
CREATE INDEX IF NOT EXISTS users_verification_token_idx ON users (email_verification_token)
	WHERE email_verification_token IS NOT NULL;
CREATE INDEX IF NOT EXISTS users_reset_token_idx ON users (reset_password_token)
	WHERE reset_password_token IS NOT NULL;
CREATE INDEX IF NOT EXISTS users_created_at_idx ON users (created_at DESC);
`

// Migrate applies the users schema. Idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, usersSchema)
	return err
}
