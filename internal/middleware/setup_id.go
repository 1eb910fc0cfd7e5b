package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ValidSetupID rejects requests whose setup id path parameter is not a UUID
// before they reach the database.
func ValidSetupID(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := uuid.Parse(c.Param(param)); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid setup id"})
			return
		}
		c.Next()
	}
}
