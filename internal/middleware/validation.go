package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

// sourceIDPattern matches news API source ids like "bbc-news".
var sourceIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)

// ValidSourceID reports whether id is a plausible source identifier.
func ValidSourceID(id string) bool {
	return sourceIDPattern.MatchString(id)
}

// WithSourceValidation rejects requests whose :source path parameter or
// sources query list contains malformed identifiers.
func WithSourceValidation() gin.HandlerFunc {
	return func(c *gin.Context) {
		if source := c.Param("source"); source != "" && !ValidSourceID(source) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "invalid source id",
			})
			return
		}

		if list := c.Query("sources"); list != "" {
			for _, id := range strings.Split(list, ",") {
				if !ValidSourceID(strings.TrimSpace(id)) {
					c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
						"error": "invalid source id in sources list",
					})
					return
				}
			}
		}

		c.Next()
	}
}
