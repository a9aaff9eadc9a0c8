// Package error encodes API errors in a uniform JSON shape.
package error

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error is the body returned for every non-2xx response. ErrorID carries
// the request ID so a client report can be matched against server logs.
type Error struct {
	Code    ErrorCode `json:"code"`
	Status  int       `json:"-"`
	Message string    `json:"message"`
	ErrorID string    `json:"error_id"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// EncodeError writes the error as JSON with the status mapped from code.
func EncodeError(w http.ResponseWriter, code ErrorCode, message string, requestID string) error {
	apiErr := Error{
		Code:    code,
		Status:  code.StatusCode(),
		Message: message,
		ErrorID: requestID,
	}
	return Encode(w, &apiErr)
}

// EncodeInternalError writes a generic 500 without leaking the cause.
func EncodeInternalError(w http.ResponseWriter, requestID string) error {
	return EncodeError(w, InternalServerError, "internal server error", requestID)
}

// Encode writes a pre-built error, falling back to 500 when the code
// has no status mapping.
func Encode(w http.ResponseWriter, apiErr *Error) error {
	status := apiErr.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(apiErr)
}
