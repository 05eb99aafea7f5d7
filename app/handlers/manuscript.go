package main

import (
	"encoding/json"
	"net/http"

	"github.com/narang24/Journal-Website-Backend/app/dto"
	"github.com/narang24/Journal-Website-Backend/app/errors"
	authmw "github.com/narang24/Journal-Website-Backend/app/middleware"
)

// listManuscriptsHandler serves the placeholder manuscript listing, shaped by
// the caller's role.
func (app *application) listManuscriptsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := authmw.UserFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, errors.NewUnauthorized("Authentication required.").WithAction(errors.ActionLogin))
		return
	}

	writeJSON(w, http.StatusOK, dto.ManuscriptsResponse{
		Success:     true,
		Manuscripts: app.manuscriptService.List(user),
	})
}

// submitManuscriptHandler acknowledges a submission. Publishers and admins
// only; nothing is persisted yet.
func (app *application) submitManuscriptHandler(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitManuscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, errors.NewInvalidInput("Invalid request body."))
		return
	}

	writeJSON(w, http.StatusCreated, app.manuscriptService.Submit(req))
}
