// Package server provides the HTTP REST API for the matching engine.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/matching"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var ve *ErrValidation
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &ve), matching.IsValidation(err):
		return http.StatusBadRequest
	case matching.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
