package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/takeaways/internal/chunking"
	"github.com/jonathan/takeaways/internal/pipeline"
	"github.com/jonathan/takeaways/internal/types"
)

// RequestError indicates a request that could not be decoded.
type RequestError struct {
	Field   string
	Message string
}

func (e *RequestError) Error() string {
	if e.Field != "" {
		return "invalid request: " + e.Field + " " + e.Message
	}
	return "invalid request: " + e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return http.StatusBadRequest
	}

	switch pipeline.KindOf(err) {
	case pipeline.KindMissingInput, pipeline.KindTemplateError, pipeline.KindInvalidConfiguration:
		return http.StatusBadRequest
	case pipeline.KindMissingCredential:
		return http.StatusUnauthorized
	case pipeline.KindContentLoadFailure:
		return http.StatusUnprocessableEntity
	case pipeline.KindGenerationFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorBody renders an error for the client. Causes are logged, not returned.
func errorBody(err error) types.ErrorResponse {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return types.ErrorResponse{Error: "invalid_request", Message: reqErr.Error(), Field: reqErr.Field}
	}

	body := types.ErrorResponse{
		Error:   string(pipeline.KindOf(err)),
		Message: pipeline.UserMessage(err),
	}
	var cfgErr *chunking.ConfigError
	if errors.As(err, &cfgErr) {
		body.Field = cfgErr.Field
	}
	return body
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	} else {
		s.logger.Info("request rejected", zap.Int("status", status), zap.Error(err))
	}
	s.jsonResponse(w, status, errorBody(err))
}
