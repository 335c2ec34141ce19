package handlers

import (
	"errors"
	"net/http"

	"golang-food-storefront/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// respondError maps service errors to status codes. Unknown errors are 500
// and their text is not echoed back.
func respondError(c *gin.Context, title string, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, services.ErrInvalidArgument), errors.Is(err, services.ErrEmptyCart):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrProductNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrProductUnavailable):
		status, message = http.StatusConflict, err.Error()
	default:
		_ = c.Error(err)
	}

	c.JSON(status, ErrorResponse{
		Error:   title,
		Message: message,
	})
}
