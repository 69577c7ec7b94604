package transport

import (
	"errors"
	"net/http"

	"github.com/rhuss/recherche/pkg/api"
)

// HTTPStatusFromError maps an api.Error kind to the HTTP status code.
func HTTPStatusFromError(err *api.Error) int {
	switch err.Kind {
	case api.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponseFor converts any error into the client-facing envelope.
// Errors that are not an *api.Error are treated as orchestration failures.
func ErrorResponseFor(err error) (*api.ErrorResponse, int) {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		apiErr = api.NewOrchestrationError("", err)
	}

	status := HTTPStatusFromError(apiErr)
	resp := &api.ErrorResponse{Error: apiErr.Message}
	if apiErr.Kind != api.KindValidation {
		resp.Details = apiErr.Details()
	}
	return resp, status
}

// WriteError writes the JSON error envelope for err.
func WriteError(w http.ResponseWriter, err error) {
	resp, status := ErrorResponseFor(err)
	WriteJSON(w, status, resp)
}
