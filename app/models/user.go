package models

import (
	"database/sql"
	"strings"
	"time"
)

// Roles a user can hold on the platform.
const (
	RolePublisher = "publisher"
	RoleReviewer  = "reviewer"
	RoleAdmin     = "admin"
)

// ValidRole reports whether role is one of the allowed platform roles.
func ValidRole(role string) bool {
	switch role {
	case RolePublisher, RoleReviewer, RoleAdmin:
		return true
	}
	return false
}

// User is the sole persistent entity. The store always reads the full row;
// sensitive fields (password hash, verification/reset tokens) are stripped by
// Public(), which is applied at every serialization boundary.
type User struct {
	ID                       string
	FullName                 string
	Email                    string
	PasswordHash             string
	Role                     string
	Bio                      string
	Expertise                []string
	IsEmailVerified          bool
	EmailVerificationToken   sql.NullString
	EmailVerificationExpires sql.NullTime
	ResetPasswordToken       sql.NullString
	ResetPasswordExpires     sql.NullTime
	IsActive                 bool
	LastLogin                sql.NullTime
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// PublicUser is the outward representation of a User. Password hash and both
// token pairs never appear here.
type PublicUser struct {
	ID              string   `json:"id"`
	FullName        string   `json:"fullName"`
	Email           string   `json:"email"`
	Role            string   `json:"role"`
	Bio             string   `json:"bio"`
	Expertise       []string `json:"expertise"`
	IsEmailVerified bool     `json:"isEmailVerified"`
	IsActive        bool     `json:"isActive"`
	LastLogin       *string  `json:"lastLogin,omitempty"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

// Public projects the user into its sanitized representation.
func (u *User) Public() PublicUser {
	expertise := u.Expertise
	if expertise == nil {
		expertise = []string{}
	}

	var lastLogin *string
	if u.LastLogin.Valid {
		v := u.LastLogin.Time.UTC().Format(time.RFC3339)
		lastLogin = &v
	}

	return PublicUser{
		ID:              u.ID,
		FullName:        u.FullName,
		Email:           u.Email,
		Role:            u.Role,
		Bio:             u.Bio,
		Expertise:       expertise,
		IsEmailVerified: u.IsEmailVerified,
		IsActive:        u.IsActive,
		LastLogin:       lastLogin,
		CreatedAt:       u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// SetVerificationToken installs a fresh email verification token with expiry.
func (u *User) SetVerificationToken(token string, expires time.Time) {
	u.EmailVerificationToken = sql.NullString{String: token, Valid: true}
	u.EmailVerificationExpires = sql.NullTime{Time: expires, Valid: true}
}

// ClearVerificationToken nulls the verification token pair after consumption.
func (u *User) ClearVerificationToken() {
	u.EmailVerificationToken = sql.NullString{}
	u.EmailVerificationExpires = sql.NullTime{}
}

// SetResetToken installs a fresh password reset token with expiry.
func (u *User) SetResetToken(token string, expires time.Time) {
	u.ResetPasswordToken = sql.NullString{String: token, Valid: true}
	u.ResetPasswordExpires = sql.NullTime{Time: expires, Valid: true}
}

// ClearResetToken nulls the reset token pair after consumption or a failed
// dispatch.
func (u *User) ClearResetToken() {
	u.ResetPasswordToken = sql.NullString{}
	u.ResetPasswordExpires = sql.NullTime{}
}

// ParseExpertise splits a comma-delimited expertise string into a sequence:
// entries are trimmed, empty entries dropped, order preserved, duplicates kept.
func ParseExpertise(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
