package api

import (
	"encoding/json"
	"net/http"

	qecerrors "github.com/hetenyib/qiskit-qec/pkg/errors"
)

// errorResponse is the JSON body of every error reply.
type errorResponse struct {
	Error string         `json:"error"`
	Code  qecerrors.Code `json:"code"`
}

// writeJSON writes v as a JSON response with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

// writeError maps an error's code to an HTTP status and writes the error
// body. The user-facing message never includes wrapped causes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := qecerrors.GetCode(err)
	s.writeJSON(w, statusFor(code), errorResponse{
		Error: qecerrors.UserMessage(err),
		Code:  code,
	})
}

// statusFor maps machine-readable error codes to HTTP statuses.
func statusFor(code qecerrors.Code) int {
	switch code {
	case qecerrors.ErrCodeInvalidInput,
		qecerrors.ErrCodeInvalidDistance,
		qecerrors.ErrCodeInvalidRounds,
		qecerrors.ErrCodeInvalidBasis,
		qecerrors.ErrCodeInvalidLogical,
		qecerrors.ErrCodeMalformedResult:
		return http.StatusBadRequest
	case qecerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case qecerrors.ErrCodeStorage:
		return http.StatusBadGateway
	case qecerrors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
