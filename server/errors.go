package server

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	docreview "github.com/tsawler/docreview"
	"github.com/tsawler/docreview/docx"
	"github.com/tsawler/docreview/format"
)

var errInvalidName = errors.New("invalid document name")

// APIError is the body of every error response.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps an APIError.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// classify maps err to a status code and an error code.
func classify(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, errInvalidName):
		return http.StatusBadRequest, "invalid_name"
	case errors.Is(err, docreview.ErrNoEdits):
		return http.StatusBadRequest, "no_edits"
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "body_too_large"
	case errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, format.ErrUnsupported), errors.Is(err, docx.ErrNotDOCX):
		return http.StatusUnsupportedMediaType, "unsupported_format"
	case errors.Is(err, docx.ErrMissingPart):
		return http.StatusUnprocessableEntity, "malformed_document"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func respondError(c *gin.Context, err error) {
	status, code := classify(err)
	_ = c.Error(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

func respondBadRequest(c *gin.Context, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		status, code = http.StatusBadRequest, "invalid_body"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: err.Error(), Code: code}})
}
