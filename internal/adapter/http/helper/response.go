package helper

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/adapter/http/validation"
	"taskmanager/internal/core/model/response"
)

func SendError(c *gin.Context, statusCode int, message string, errors ...response.ValidationError) {
	c.JSON(statusCode, response.ErrorResponse{
		Message: message,
		Errors:  errors,
	})
}

func SendValidationError(c *gin.Context, err error) {
	validationErrors := validation.FormatValidationErrors(err)

	message := "Validation failed"

	if len(validationErrors) > 0 {
		message = validationErrors[0].Message
	}

	SendError(c, http.StatusBadRequest, message, validationErrors...)
}

func SendBadRequestError(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

func SendNotFoundError(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

func SendInternalError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, message)
}
