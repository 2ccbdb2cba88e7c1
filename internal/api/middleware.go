package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorHandler recovers from handler panics and answers with a JSON error
// body.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("Panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		message := "An unexpected error occurred"
		if s, ok := recovered.(string); ok {
			message = s
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: CodeInternal, Message: message},
		})
	})
}
