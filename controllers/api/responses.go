// Package api holds the response helpers shared by all resource controllers.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// InvalidParams replies with a 400 carrying field-level validation detail.
func InvalidParams(c *gin.Context, field string, messages ...string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  "invalid parameters",
		"errors": gin.H{field: messages},
	})
}

// Internal replies with a generic 500. The cause is expected to be logged by
// the caller, never surfaced.
func Internal(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
