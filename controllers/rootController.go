package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRootRoute registers the health probe.
func SetupRootRoute(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "clinic billing engine",
			"status":  "ok",
		})
	})
}
