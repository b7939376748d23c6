package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimit caps request bodies at n bytes.  Reads past the cap fail, which
// the JSON binders report as a bad request.  n ≤ 0 disables the cap.
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n > 0 && c.Request.Body != nil {
			if c.Request.ContentLength > n {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
					"success":    false,
					"error":      gin.H{"code": "COMMON_002", "message": "request body too large"},
					"request_id": GetRequestID(c),
				})
				return
			}
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

//Personal.AI order the ending
