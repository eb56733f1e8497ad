package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/listing-copywriter/internal/generation"
	"github.com/jonathan/listing-copywriter/internal/pipeline"
)

// ErrBadRequest indicates a malformed request that never reached the service
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return e.Message
}

// ErrorResponse is the JSON body of every error reply
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		badRequest *ErrBadRequest
		validation *pipeline.ValidationError
	)
	switch {
	case errors.As(err, &badRequest), errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrHistoryDisabled):
		return http.StatusServiceUnavailable
	case generation.IsTerminal(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorBody builds the reply for err. Internal errors are not echoed to the client.
func errorBody(err error) ErrorResponse {
	var validation *pipeline.ValidationError
	if errors.As(err, &validation) {
		return ErrorResponse{Error: "The given data was invalid.", Fields: validation.Fields()}
	}

	switch HTTPStatus(err) {
	case http.StatusInternalServerError:
		return ErrorResponse{Error: "internal server error"}
	case http.StatusBadGateway:
		return ErrorResponse{Error: generation.UserMessage}
	default:
		return ErrorResponse{Error: err.Error()}
	}
}
