package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"crossquote/internal/domain"
	"crossquote/internal/logger"
	"crossquote/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details []domain.FieldError `json:"details,omitempty"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR", "request validation failed"
	case errors.Is(err, domain.ErrInvalidHSCode):
		return http.StatusBadRequest, "INVALID_HS_CODE", err.Error()
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusBadRequest, "UNSUPPORTED_FORMAT", "unsupported export format; allowed: csv, xlsx"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "lookup catalog is not loaded"
	case errors.Is(err, domain.ErrComputation):
		return http.StatusInternalServerError, "COMPUTATION_ERROR", "quote could not be computed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// buildError maps err into an envelope error, carrying field details for
// validation failures.
func buildError(err error) (int, *APIError) {
	status, code, msg := MapDomainError(err)
	apiErr := &APIError{Code: code, Message: msg}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		apiErr.Details = verr.Fields
	}
	return status, apiErr
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, apiErr := buildError(err)
	logError(c, status, err)
	c.JSON(status, APIResponse{Success: false, Error: apiErr})
}

// respondWithData sends an error envelope that still carries a payload, used
// for the degraded quote returned next to a failure.
func respondWithData(c *gin.Context, err error, data interface{}) {
	status, apiErr := buildError(err)
	logError(c, status, err)
	c.JSON(status, APIResponse{Success: false, Data: data, Error: apiErr})
}

func logError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("internal error",
			zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
	}
}

// bindingError converts a request binding failure into a ValidationError.
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]domain.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, domain.FieldError{Field: fe.Field(), Message: middleware.ValidationMessage(fe)})
		}
		return &domain.ValidationError{Fields: fields}
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		return domain.NewValidationError(typeErr.Field, "has the wrong type")
	case errors.As(err, &syntaxErr):
		return domain.NewValidationError("body", "malformed JSON")
	default:
		return domain.NewValidationError("body", "invalid request body")
	}
}
