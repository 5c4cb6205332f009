package handler

import (
	"net/http"

	"github.com/avolosh/tankarena-go/internal/api/apierr"
)

// WriteError writes an error response using the apierr mapping
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewInvalidDirectionError creates an error for an unrecognized direction
func NewInvalidDirectionError(direction string) error {
	return apierr.NewInvalidDirectionError(direction)
}
