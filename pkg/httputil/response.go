package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	gerrors "github.com/matzehuels/graphlab/pkg/errors"
)

// MaxBodySize limits request bodies read by DecodeJSON.
const MaxBodySize = 10 << 20

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the code and the user-facing message.
type ErrorDetail struct {
	Code    gerrors.Code `json:"code"`
	Message string       `json:"message"`
}

// WriteJSON encodes v as JSON and writes it with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes err with the status that matches its code.
// Errors without a code are reported as INTERNAL_ERROR.
func WriteError(w http.ResponseWriter, err error) {
	code := gerrors.GetCode(err)
	if code == "" {
		code = gerrors.ErrCodeInternal
	}
	WriteJSON(w, StatusFor(code), ErrorBody{Error: ErrorDetail{
		Code:    code,
		Message: gerrors.UserMessage(err),
	}})
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(code gerrors.Code) int {
	switch code {
	case gerrors.ErrCodeInvalidInput, gerrors.ErrCodeInvalidWeight, gerrors.ErrCodeParse:
		return http.StatusBadRequest
	case gerrors.ErrCodeDuplicateID:
		return http.StatusConflict
	case gerrors.ErrCodeNotFound, gerrors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case gerrors.ErrCodeService, gerrors.ErrCodeNetwork:
		return http.StatusBadGateway
	case gerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON reads r's body into v. An empty body leaves v untouched.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return gerrors.Wrap(gerrors.ErrCodeInvalidInput, err, "request body too large")
		}
		return gerrors.Wrap(gerrors.ErrCodeInvalidInput, err, "invalid JSON body")
	}
	return nil
}
