package dto

import (
	"encoding/json"
	"strings"

	"github.com/narang24/Journal-Website-Backend/app/models"
)

// ExpertiseInput accepts either a comma-delimited string or a JSON array of
// strings and normalizes both to a sequence: entries trimmed, empty entries
// dropped, order preserved, duplicates kept.
type ExpertiseInput []string

func (e *ExpertiseInput) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*e = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = models.ParseExpertise(s)
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	*e = out
	return nil
}

// RegisterRequest represents the data needed to register a new account.
type RegisterRequest struct {
	FullName        string         `json:"fullName" validate:"required,min=2,max=50,person_name"`
	Email           string         `json:"email" validate:"required,email,max=100"`
	Password        string         `json:"password" validate:"required,min=8,max=128,password_strength"`
	ConfirmPassword string         `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            string         `json:"role" validate:"omitempty,oneof=publisher reviewer admin"`
	Bio             string         `json:"bio" validate:"omitempty,max=500"`
	Expertise       ExpertiseInput `json:"expertise" validate:"omitempty,max=10,dive,max=50"`
}

// LoginRequest represents the data needed to login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// EmailRequest carries a bare email address (resend verification, forgot
// password).
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest sets a new password; the reset token travels in the
// URL path.
type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8,max=128,password_strength"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// UpdateProfileRequest mutates only the fields supplied.
type UpdateProfileRequest struct {
	FullName  *string         `json:"fullName" validate:"omitempty,min=2,max=50,person_name"`
	Bio       *string         `json:"bio" validate:"omitempty,max=500"`
	Expertise *ExpertiseInput `json:"expertise" validate:"omitempty,max=10,dive,max=50"`
}

// SubmitManuscriptRequest is accepted as-is by the placeholder manuscript
// endpoint; no persistence happens behind it.
type SubmitManuscriptRequest struct {
	Title    string   `json:"title"`
	Abstract string   `json:"abstract"`
	Keywords []string `json:"keywords"`
	Category string   `json:"category"`
}
