package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/listing-copywriter/internal/generation"
	"github.com/jonathan/listing-copywriter/internal/pipeline"
	"github.com/jonathan/listing-copywriter/internal/types"
)

func TestHTTPStatus(t *testing.T) {
	invalid := types.GenerateRequest{}
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", &ErrBadRequest{Message: "x"}, http.StatusBadRequest},
		{"validation", &pipeline.ValidationError{Cause: invalid.Validate()}, http.StatusBadRequest},
		{"not found", pipeline.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", pipeline.ErrNotFound), http.StatusNotFound},
		{"history disabled", pipeline.ErrHistoryDisabled, http.StatusServiceUnavailable},
		{"terminal", &generation.TerminalError{Attempts: 3, Cause: errors.New("x")}, http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorBody(t *testing.T) {
	assert.Equal(t, ErrorResponse{Error: "internal server error"}, errorBody(errors.New("dsn=postgres://secret")))
	assert.Equal(t, ErrorResponse{Error: "description not found"}, errorBody(pipeline.ErrNotFound))
	assert.Equal(t, ErrorResponse{Error: generation.UserMessage},
		errorBody(&generation.TerminalError{Attempts: 1, Cause: errors.New("quota")}))

	invalid := types.GenerateRequest{}
	body := errorBody(&pipeline.ValidationError{Cause: invalid.Validate()})
	assert.Equal(t, "The given data was invalid.", body.Error)
	assert.Equal(t, "The title field is required.", body.Fields["title"])
}
