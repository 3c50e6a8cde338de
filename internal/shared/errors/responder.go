package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Responder writes ApiResponse bodies.
type Responder struct{}

// NewResponder creates a responder.
func NewResponder() *Responder {
	return &Responder{}
}

// DefaultResponder is used by the package level helpers.
var DefaultResponder = NewResponder()

// Respond writes the response with its HTTP status and aborts the handler chain.
func (r *Responder) Respond(c *gin.Context, resp ApiResponse) {
	status := resp.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, resp)
}

// RespondEmpty writes only the status line, with no body.
func (r *Responder) RespondEmpty(c *gin.Context, status int) {
	c.AbortWithStatus(status)
}

// RespondError renders err when it already is an ApiResponse, otherwise a 500.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var resp ApiResponse
	if errors.As(err, &resp) {
		r.Respond(c, resp)
		return
	}
	r.Respond(c, ErrInternal)
}

// Respond is a convenience function using the default responder.
func Respond(c *gin.Context, resp ApiResponse) {
	DefaultResponder.Respond(c, resp)
}

// RespondEmpty is a convenience function using the default responder.
func RespondEmpty(c *gin.Context, status int) {
	DefaultResponder.RespondEmpty(c, status)
}

// RespondError is a convenience function using the default responder.
func RespondError(c *gin.Context, err error) {
	DefaultResponder.RespondError(c, err)
}

// ErrorMapper maps domain/application errors to an ApiResponse.
type ErrorMapper func(err error) (ApiResponse, bool)

// ChainedResponder supports custom error mapping.
type ChainedResponder struct {
	*Responder
	mappers []ErrorMapper
}

// NewChainedResponder creates a responder with custom error mappers.
func NewChainedResponder(mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{
		Responder: NewResponder(),
		mappers:   mappers,
	}
}

// AddMapper adds an error mapper to the chain.
func (r *ChainedResponder) AddMapper(mapper ErrorMapper) {
	r.mappers = append(r.mappers, mapper)
}

// RespondError tries each mapper before falling back to default handling.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if resp, ok := mapper(err); ok {
			r.Respond(c, resp)
			return
		}
	}
	r.Responder.RespondError(c, err)
}

// HTTPStatusFromError extracts HTTP status from an error if possible.
func HTTPStatusFromError(err error) int {
	var resp ApiResponse
	if errors.As(err, &resp) && resp.Status != 0 {
		return resp.Status
	}
	return http.StatusInternalServerError
}
