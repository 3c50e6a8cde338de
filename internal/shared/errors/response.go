// Package errors renders failures as pet-store ApiResponse bodies.
package errors

import (
	"fmt"
	"net/http"
)

// Response types observed on the public pet store.
const (
	TypeError   = "error"
	TypeUnknown = "unknown"
)

// ApiResponse is the error envelope returned by the pet store:
// {"code": int, "type": string, "message": string}.
type ApiResponse struct {
	Code    int32  `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	// Status is the HTTP status used when the response is written; it never reaches the wire.
	Status int `json:"-"`
}

// Error implements the error interface.
func (r ApiResponse) Error() string {
	return fmt.Sprintf("%d %s: %s", r.Code, r.Type, r.Message)
}

// WithMessage returns a copy carrying the given message.
func (r ApiResponse) WithMessage(message string) ApiResponse {
	r.Message = message
	return r
}

var (
	// ErrPetNotFound is what GET /pet/{id} answers for an unknown id.
	ErrPetNotFound = ApiResponse{
		Code:    1,
		Type:    TypeError,
		Message: "Pet not found",
		Status:  http.StatusNotFound,
	}

	// ErrBadInput is returned for bodies that cannot be decoded.
	ErrBadInput = ApiResponse{
		Code:    http.StatusBadRequest,
		Type:    TypeUnknown,
		Message: "bad input",
		Status:  http.StatusBadRequest,
	}

	ErrInternal = ApiResponse{
		Code:    http.StatusInternalServerError,
		Type:    TypeUnknown,
		Message: "something bad happened",
		Status:  http.StatusInternalServerError,
	}
)

// NumberFormatMessage reproduces the upstream message for a path id that is not a number.
// The raw value is quoted verbatim, without escaping.
func NumberFormatMessage(raw string) string {
	return `java.lang.NumberFormatException: For input string: "` + raw + `"`
}

// NewNumberFormatResponse builds the 404 answered for non-numeric path ids.
func NewNumberFormatResponse(raw string) ApiResponse {
	return ApiResponse{
		Code:    http.StatusNotFound,
		Type:    TypeUnknown,
		Message: NumberFormatMessage(raw),
		Status:  http.StatusNotFound,
	}
}

// NewDeletedResponse builds the acknowledgement returned after a delete.
func NewDeletedResponse(id int64) ApiResponse {
	return ApiResponse{
		Code:    http.StatusOK,
		Type:    TypeUnknown,
		Message: fmt.Sprintf("%d", id),
		Status:  http.StatusOK,
	}
}
