package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/auth"
	"github.com/orgdesk/directory-api/internal/domain"
	"github.com/orgdesk/directory-api/internal/service"
	"go.uber.org/zap"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondValidationError sends a standardized validation error response with specific field messages
func respondValidationError(w http.ResponseWriter, err error) {
	fields := make(map[string]string)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[toJSONFieldName(fe.Field())] = formatValidationError(fe)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: "One or more fields failed validation",
		Errors: fields,
	})
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "max":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	case "uuid":
		return "Must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// toJSONFieldName converts a Go struct field name to its JSON equivalent (camelCase)
func toJSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   getErrorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

// respondServiceError maps service sentinel errors to HTTP responses.
// Unexpected errors are logged and hidden behind a generic message.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, action string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, service.ErrConflict):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		respondWithError(w, http.StatusForbidden, "You do not have permission to perform this action")
	case errors.Is(err, service.ErrNoOrganization):
		respondWithError(w, http.StatusBadRequest, "No active organization")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("failed to "+action, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

// getErrorType returns the appropriate error type for an HTTP status code
func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrorTypeBadRequest
	case http.StatusUnauthorized:
		return domain.ErrorTypeUnauthorized
	case http.StatusForbidden:
		return domain.ErrorTypeForbidden
	case http.StatusNotFound:
		return domain.ErrorTypeNotFound
	case http.StatusConflict:
		return domain.ErrorTypeConflict
	default:
		return domain.ErrorTypeInternal
	}
}

// parseID reads the {id} path parameter
func parseID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// requestScope returns the organization resolved by the organization middleware
func requestScope(r *http.Request) *auth.OrganizationScope {
	scope, ok := auth.OrganizationScopeFromContext(r.Context())
	if !ok {
		return &auth.OrganizationScope{}
	}
	return scope
}
