package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// operatorIDKey is where the operator id sits on the gin context.
const operatorIDKey = "operatorID"

// OperatorHeader carries the authenticated operator id, set by the auth
// gateway in front of this service.
const OperatorHeader = "X-Operator-ID"

// RequireOperator rejects requests that do not identify the acting
// operator. Billing operations are always attributed to someone.
func RequireOperator() gin.HandlerFunc {
	return func(c *gin.Context) {
		operator := c.GetHeader(OperatorHeader)
		if operator == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing " + OperatorHeader + " header"})
			c.Abort()
			return
		}
		c.Set(operatorIDKey, operator)
		c.Next()
	}
}

// OperatorID returns the operator acting on this request.
func OperatorID(c *gin.Context) string {
	return c.GetString(operatorIDKey)
}
