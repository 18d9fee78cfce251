// Package server provides the HTTP REST API for the CV shortlister.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/cv-shortlister/internal/criteria"
	"github.com/jonathan/cv-shortlister/internal/ingestion"
	"github.com/jonathan/cv-shortlister/internal/schemas"
	"github.com/jonathan/cv-shortlister/internal/shortlist"
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
	var validationErr *ErrValidation
	var schemaErr *schemas.ValidationError
	var criteriaErr *criteria.ValidationError
	var fieldErrs validator.ValidationErrors

	switch {
	case errors.Is(err, shortlist.ErrJobNotFound),
		errors.Is(err, shortlist.ErrApplicationNotFound),
		errors.Is(err, shortlist.ErrProfileNotFound),
		errors.Is(err, ingestion.ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.As(err, &validationErr),
		errors.As(err, &schemaErr),
		errors.As(err, &criteriaErr),
		errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.Is(err, ingestion.ErrExtractionFailed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
