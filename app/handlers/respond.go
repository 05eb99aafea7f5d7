package main

import (
	"encoding/json"
	"net/http"

	"github.com/narang24/Journal-Website-Backend/app/dto"
	"github.com/narang24/Journal-Website-Backend/app/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeErrorResponse serializes an AppError into the standard envelope. Every
// error leaves through here so the shape stays uniform.
func writeErrorResponse(w http.ResponseWriter, appErr *errors.AppError) {
	writeJSON(w, appErr.Status, dto.ErrorResponse{
		Success: false,
		Message: appErr.Message,
		Action:  appErr.Action,
		Field:   appErr.Field,
		Email:   appErr.Email,
		Errors:  appErr.Errors,
	})
}
