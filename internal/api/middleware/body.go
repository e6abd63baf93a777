package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RawFormKey holds the undecoded urlencoded request body in the gin context
const RawFormKey = "raw_form"

// BodyLimit caps request bodies at limit bytes; limit <= 0 disables the cap.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			if c.Request.ContentLength > limit {
				abortWithError(c, http.StatusRequestEntityTooLarge, "Request Entity Too Large")
				return
			}
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// CaptureForm keeps a copy of urlencoded bodies under RawFormKey so handlers can
// read parameters in the order the client sent them. The body is restored for
// normal form parsing.
func CaptureForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		ct := c.ContentType()
		if c.Request.Body == nil || !strings.EqualFold(ct, gin.MIMEPOSTForm) {
			c.Next()
			return
		}

		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			abortWithError(c, http.StatusRequestEntityTooLarge, "Request Entity Too Large")
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))
		c.Set(RawFormKey, string(raw))
		c.Next()
	}
}

// RawForm returns the body captured by CaptureForm, if any.
func RawForm(c *gin.Context) string {
	return c.GetString(RawFormKey)
}
