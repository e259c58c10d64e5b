package guard

import (
	"net/http"

	"github.com/dmitrijs2005/furnistore/internal/common"
	"github.com/gin-gonic/gin"
)

// Middleware protects gin routes. A loading session answers 503 with
// Retry-After, a failing requirement redirects to the login page.
func Middleware(src Source, req Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch Evaluate(src.Snapshot(), req) {
		case DecisionWait:
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": ErrWaiting.Error()})
		case DecisionRedirect:
			c.Redirect(http.StatusFound, common.LoginPath)
			c.Abort()
		default:
			c.Next()
		}
	}
}
