package main

import (
	"encoding/json"
	"net/http"

	"github.com/narang24/Journal-Website-Backend/app/dto"
	"github.com/narang24/Journal-Website-Backend/app/errors"
	authmw "github.com/narang24/Journal-Website-Backend/app/middleware"
)

// getProfileHandler returns the authenticated user's profile.
func (app *application) getProfileHandler(w http.ResponseWriter, r *http.Request) {
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

// updateProfileHandler applies a partial profile update. Only the fields
// present in the body are touched.
func (app *application) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := authmw.UserFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, errors.NewUnauthorized("Authentication required.").WithAction(errors.ActionLogin))
		return
	}

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, errors.NewInvalidInput("Invalid request body."))
		return
	}

	if req.FullName != nil {
		v := sanitizeInput(*req.FullName, 50, false)
		req.FullName = &v
	}
	if req.Bio != nil {
		v := sanitizeInput(*req.Bio, 500, false)
		req.Bio = &v
	}

	if err := validateRequest(&req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	updated, appErr := app.userService.UpdateProfile(r.Context(), user, req)
	if appErr != nil {
		writeErrorResponse(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserResponse{
		Success: true,
		Message: "Profile updated successfully.",
		User:    updated.Public(),
	})
}

// statsHandler returns the dashboard aggregate for the authenticated user.
func (app *application) statsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := authmw.UserFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, errors.NewUnauthorized("Authentication required.").WithAction(errors.ActionLogin))
		return
	}

	writeJSON(w, http.StatusOK, dto.StatsResponse{
		Success: true,
		Stats:   app.userService.Stats(r.Context(), user),
	})
}
