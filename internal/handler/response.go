package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/WinsonMARS/hospitalmanagement/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError writes the HTTP mapping of err. Application errors carry
// their own status; anything else is a 500 with a generic message so
// internals never leak to clients.
func RespondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus(), NewErrorResponse(appErr.Message))
		c.Error(err)
		return
	}
	c.JSON(http.StatusInternalServerError, NewErrorResponse("internal server error"))
	c.Error(err)
}
