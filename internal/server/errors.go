package server

import (
	"net/http"

	"github.com/evoviz/phylosim/pkg/errors"
)

// statusFor maps error codes to HTTP status codes. Unknown codes fall
// through to 500.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidTaxon,
		errors.ErrCodeInvalidRange,
		errors.ErrCodeInvalidPolicy,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidTree:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound,
		errors.ErrCodeNodeNotFound,
		errors.ErrCodeSimulationNotFound,
		errors.ErrCodeFileNotFound,
		errors.ErrCodePresetNotFound:
		return http.StatusNotFound
	case errors.ErrCodeEmptyStatistics:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]string{
		"code":  string(code),
		"error": errors.UserMessage(err),
	})
}
