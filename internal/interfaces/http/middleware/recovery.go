package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseMatch/pkg/errors"
)

// Recovery turns handler panics into 500 responses instead of dropped
// connections, logging the stack for diagnosis.
func Recovery(log logging.Logger) gin.HandlerFunc {
	log = log.Named("http")

	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("handler panicked",
					logging.Any("panic", r),
					logging.String("path", c.Request.URL.Path),
					logging.String("request_id", GetRequestID(c)),
					logging.String("stack", string(debug.Stack())))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    errors.ErrCodeInternal.String(),
					"message": "internal server error",
				})
			}
		}()
		c.Next()
	}
}

//Personal.AI order the ending
