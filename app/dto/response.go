package dto

import (
	"github.com/narang24/Journal-Website-Backend/app/errors"
	"github.com/narang24/Journal-Website-Backend/app/models"
)

// AccountDetails gives registration callers extra context about the account
// state they collided with or created.
type AccountDetails struct {
	Email         string `json:"email"`
	AccountStatus string `json:"accountStatus"`
	Suggestion    string `json:"suggestion"`
}

// RegisterResponse is returned by the register endpoint on both the created
// and updated-in-place branches.
type RegisterResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Action  string          `json:"action,omitempty"`
	Details *AccountDetails `json:"details,omitempty"`
}

// MessageResponse is the plain success envelope.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoginResponse carries the bearer token and the sanitized user.
type LoginResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    models.PublicUser `json:"user"`
}

// UserResponse wraps a sanitized user record.
type UserResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	User    models.PublicUser `json:"user"`
}

// UserStats is the placeholder aggregate returned by /user/stats.
type UserStats struct {
	TotalManuscripts     int `json:"totalManuscripts"`
	PublishedManuscripts int `json:"publishedManuscripts"`
	UnderReview          int `json:"underReview"`
	TotalReviews         int `json:"totalReviews"`
	CompletedReviews     int `json:"completedReviews"`
	PendingReviews       int `json:"pendingReviews"`
}

// StatsResponse wraps the placeholder stats.
type StatsResponse struct {
	Success bool      `json:"success"`
	Stats   UserStats `json:"stats"`
}

// Manuscript is the placeholder listing item; the endpoint serves fixtures,
// not stored records.
type Manuscript struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Abstract      string   `json:"abstract"`
	Status        string   `json:"status"`
	SubmittedDate string   `json:"submittedDate"`
	Authors       []string `json:"authors"`
	Keywords      []string `json:"keywords"`
	Category      string   `json:"category"`
}

// ManuscriptsResponse wraps the placeholder listing.
type ManuscriptsResponse struct {
	Success     bool         `json:"success"`
	Manuscripts []Manuscript `json:"manuscripts"`
}

// SubmitManuscriptResponse acknowledges a placeholder submission.
type SubmitManuscriptResponse struct {
	Success      bool   `json:"success"`
	ManuscriptID int64  `json:"manuscriptId"`
	Message      string `json:"message"`
}

// ErrorResponse is the standard error envelope: success=false plus message and
// whatever context the taxonomy attaches (action hint, field, full error list).
type ErrorResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Action  string              `json:"action,omitempty"`
	Field   string              `json:"field,omitempty"`
	Email   string              `json:"email,omitempty"`
	Errors  []errors.FieldError `json:"errors,omitempty"`
}
