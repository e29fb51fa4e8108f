package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// limitUpload caps the request body of multipart routes at limit bytes and
// parses the form up front, so an oversized upload is refused with 413
// before any handler reads it. Requests that are not multipart pass through
// and are rejected by the handler as missing a file.
func limitUpload(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			tooLarge(c, limit)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		err := c.Request.ParseMultipartForm(limit)
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			tooLarge(c, limit)
			return
		}
		c.Next()
	}
}

func tooLarge(c *gin.Context, limit int64) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
		"error":      "Uploaded file is too large.",
		"limitBytes": limit,
	})
}
