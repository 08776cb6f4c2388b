package middlewares

import (
	"log"
	"time"

	"github.com/lebossseur/masterClinique-sub001/utils"

	"github.com/gin-gonic/gin"
)

// RespondJSON writes a JSON response to the client.
func RespondJSON(c *gin.Context, data interface{}, status int) {
	c.JSON(status, data)
}

// RespondError maps an error to its HTTP status and writes the kind plus a
// human-readable message. Internal detail stays in the log only.
func RespondError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	if status >= 500 {
		log.Printf("HTTP %d - %s %s: %v", status, c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{
		"error": utils.MessageOf(err),
		"kind":  string(utils.KindOf(err)),
	})
}

// LoggingMiddleware logs information about incoming requests.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Printf("Request: %s %s | Status: %d | Duration: %v",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
