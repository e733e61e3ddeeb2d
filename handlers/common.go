package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anuragkumar-code/snapengine-v2/services"
)

type Response struct {
	Error string `json:"error"`
}

var OKResponse = Response{}

// statusFromError translates the service failure taxonomy to HTTP. The
// NotFound/NotFoundOrForbidden conflation is preserved: both are 404.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrNotFoundOrForbidden):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrIO):
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, err error) {
	status := statusFromError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// Do not leak internals
		message = "internal error"
	}
	c.JSON(status, Response{message})
}
