package middleware

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/narang24/Journal-Website-Backend/app/dto"
	appErrors "github.com/narang24/Journal-Website-Backend/app/errors"
	"github.com/narang24/Journal-Website-Backend/app/models"
	"github.com/narang24/Journal-Website-Backend/app/services"
	"github.com/narang24/Journal-Website-Backend/app/store"
)

type ctxKey string

const ctxUser ctxKey = "user"

// UserFromContext retrieves the authenticated user loaded by RequireAuth or
// OptionalAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ctxUser).(*models.User)
	return u, ok
}

// WithUser returns a context carrying the given user (exported for testing).
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, ctxUser, user)
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", false
	}
	return token, true
}

// resolveUser validates the token and loads the full current account record.
// Authorization decisions are made against current state, never against
// claims baked into the token.
func resolveUser(r *http.Request, storage store.Storage) (*models.User, *appErrors.AppError) {
	token, ok := bearerToken(r)
	if !ok {
		return nil, appErrors.NewUnauthorized("Access denied. No token provided or token format is invalid.").
			WithAction(appErrors.ActionLogin)
	}

	claims, err := services.VerifyAccessToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, appErrors.NewUnauthorized("Your session has expired. Please login again.").
				WithAction(appErrors.ActionLogin)
		}
		return nil, appErrors.NewUnauthorized("Invalid token. Please login again.").
			WithAction(appErrors.ActionLogin)
	}

	user, err := storage.Users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewUnauthorized("The account belonging to this token no longer exists.").
				WithAction(appErrors.ActionLogin)
		}
		return nil, appErrors.NewInternal("Authentication failed. Please try again later.")
	}

	if !user.IsActive {
		return nil, appErrors.NewUnauthorized("Your account has been deactivated. Please contact support.").
			WithAction(appErrors.ActionContact)
	}

	if !user.IsEmailVerified {
		return nil, appErrors.NewUnauthorized("Please verify your email to access this resource.").
			WithAction(appErrors.ActionVerify).
			WithEmail(user.Email)
	}

	return user, nil
}

// RequireAuth rejects requests without a valid bearer token and loads the
// authenticated user into the request context.
func RequireAuth(storage store.Storage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, appErr := resolveUser(r, storage)
			if appErr != nil {
				writeAuthError(w, appErr)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// OptionalAuth loads the user when a valid token is present and silently
// continues anonymously otherwise. It never rejects a request.
func OptionalAuth(storage store.Storage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, appErr := resolveUser(r, storage); appErr == nil {
				r = r.WithContext(WithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoles enforces that the authenticated user's role is in the allowed
// list. Must run after RequireAuth.
func RequireRoles(allowed ...string) func(http.Handler) http.Handler {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeAuthError(w, appErrors.NewUnauthorized("Authentication required.").
					WithAction(appErrors.ActionLogin))
				return
			}
			if _, ok := allowedSet[user.Role]; !ok {
				writeAuthError(w, appErrors.NewForbidden("You do not have permission to perform this action."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireOwnershipOrAdmin allows admins through unconditionally; everyone else
// must match the user identifier found in the named URL parameter, or in the
// request body when the route has no such parameter. A request carrying no
// identifier at all is rejected: ownership cannot be established.
func RequireOwnershipOrAdmin(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeAuthError(w, appErrors.NewUnauthorized("Authentication required.").
					WithAction(appErrors.ActionLogin))
				return
			}

			if user.Role == models.RoleAdmin {
				next.ServeHTTP(w, r)
				return
			}

			target := chi.URLParam(r, param)
			if target == "" {
				target = bodyField(r, param)
			}

			if target != user.ID {
				writeAuthError(w, appErrors.NewForbidden("You can only access your own resources."))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bodyField peeks at a top-level string field in a JSON body, restoring the
// body so the handler can still read it.
func bodyField(r *http.Request, field string) string {
	if r.Body == nil {
		return ""
	}
	raw, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	var value string
	if err := json.Unmarshal(payload[field], &value); err != nil {
		return ""
	}
	return value
}

func writeAuthError(w http.ResponseWriter, appErr *appErrors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{
		Success: false,
		Message: appErr.Message,
		Action:  appErr.Action,
		Field:   appErr.Field,
		Email:   appErr.Email,
		Errors:  appErr.Errors,
	})
}
