package middleware

import "github.com/gin-gonic/gin"

// abortWithError stops the chain with the file manager's error envelope
func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{"code": status, "msg": msg},
	})
}
