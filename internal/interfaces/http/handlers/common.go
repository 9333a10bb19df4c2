// Package handlers implements the HTTP API of the retrieval service.
package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ClauseMatch/pkg/errors"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an application error to its HTTP status.  Non-AppError
// failures are masked as a generic internal error.
func respondError(c *gin.Context, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.Internal("internal server error")
	}
	c.JSON(errors.HTTPStatusForCode(appErr.Code), ErrorResponse{
		Code:    appErr.Code.String(),
		Message: appErr.Message,
	})
}

// respondBindError reports a malformed or incomplete request body.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    errors.ErrCodeBadRequest.String(),
		Message: err.Error(),
	})
}

//Personal.AI order the ending
