package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/narang24/Journal-Website-Backend/app/dto"
	"github.com/narang24/Journal-Website-Backend/app/errors"
	authmw "github.com/narang24/Journal-Website-Backend/app/middleware"
)

// registerHandler handles account registration. Registering over an existing
// unverified account overwrites it; a verified account is a conflict.
func (app *application) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, errors.NewInvalidInput("Invalid request body."))
		return
	}

	req.Email = sanitizeEmail(req.Email, 100)
	req.FullName = sanitizeInput(req.FullName, 50, false)
	req.Bio = sanitizeInput(req.Bio, 500, false)
	// Passwords keep their special characters; only trim and cap length.
	req.Password = sanitizeInput(req.Password, 128, true)
	req.ConfirmPassword = sanitizeInput(req.ConfirmPassword, 128, true)

	if err := validateRequest(&req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	resp, appErr := app.authService.Register(r.Context(), req)
	if appErr != nil {
		writeErrorResponse(w, appErr)
		return
	}

	status := http.StatusOK
	if resp.Details != nil && resp.Details.AccountStatus == "created" {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

// loginHandler authenticates a user and returns a bearer token.
func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, errors.NewInvalidInput("Invalid request body."))
		return
	}

	req.Email = sanitizeEmail(req.Email, 100)
	req.Password = sanitizeInput(req.Password, 128, true)

	if err := validateRequest(&req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	resp, appErr := app.authService.Login(r.Context(), req)
	if appErr != nil {
		writeErrorResponse(w, appErr)
		return
	}

	w.Header().Set("Authorization", "Bearer "+resp.Token)
	writeJSON(w, http.StatusOK, resp)
}

// verifyEmailHandler consumes the verification token from the emailed link.
func (app *application) verifyEmailHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	resp, appErr := app.authService.VerifyEmail(r.Context(), token)
	if appErr != nil {
		writeErrorResponse(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// resendVerificationHandler issues a fresh verification token.
func (app *application) resendVerificationHandler(w http.ResponseWriter, r *http.Request) {
	var req dto.EmailRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, errors.NewInvalidInput("Invalid request body."))
		return
	}

	req.Email = sanitizeEmail(req.Email, 100)

	if err := validateRequest(&req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	resp, appErr := app.authService.ResendVerification(r.Context(), req)
	if appErr != nil {
		writeErrorResponse(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// forgotPasswordHandler starts the reset flow. Apart from malformed input,
// the response is identical whatever the account state, so callers cannot
// probe which addresses are registered.
func (app *application) forgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req dto.EmailRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, errors.NewInvalidInput("Invalid request body."))
		return
	}

	req.Email = sanitizeEmail(req.Email, 100)

	if err := validateRequest(&req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, app.authService.ForgotPassword(r.Context(), req))
}

// resetPasswordHandler consumes the reset token from the emailed link and
// installs the new password.
func (app *application) resetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req dto.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, errors.NewInvalidInput("Invalid request body."))
		return
	}

	req.Password = sanitizeInput(req.Password, 128, true)
	req.ConfirmPassword = sanitizeInput(req.ConfirmPassword, 128, true)

	if err := validateRequest(&req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	resp, appErr := app.authService.ResetPassword(r.Context(), token, req)
	if appErr != nil {
		writeErrorResponse(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// meHandler returns the authenticated user's sanitized record.
func (app *application) meHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := authmw.UserFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, errors.NewUnauthorized("Authentication required.").WithAction(errors.ActionLogin))
		return
	}

	writeJSON(w, http.StatusOK, dto.UserResponse{
		Success: true,
		User:    user.Public(),
	})
}

// logoutHandler acknowledges logout. Bearer tokens are stateless, so the
// client discards the token; nothing is revoked server-side.
func (app *application) logoutHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Logged out successfully.",
	})
}
