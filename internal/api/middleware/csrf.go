package middleware

import (
	"net/http"

	"github.com/GriffinCanCode/stationfiles/internal/infrastructure/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CSRF token transport
const (
	CSRFHeader    = "X-CSRF-Token"
	CSRFFormField = "xsrf"
)

// TokenVerifier checks a CSRF token for a scope and station
type TokenVerifier interface {
	Verify(token, scope, station string) error
}

// CSRF rejects unsafe requests whose token does not verify for scope and the
// :station route parameter. Safe methods pass through.
func CSRF(verifier TokenVerifier, scope string, log *logging.Logger) gin.HandlerFunc {
	if log == nil {
		log = logging.NewNop()
	}
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		token := c.GetHeader(CSRFHeader)
		if token == "" {
			token = c.PostForm(CSRFFormField)
		}

		station := c.Param("station")
		if err := verifier.Verify(token, scope, station); err != nil {
			log.Station(station).Warn("CSRF verification failed",
				zap.String("path", c.FullPath()),
				zap.Error(err))
			abortWithError(c, http.StatusForbidden, "XSRF Failure")
			return
		}
		c.Next()
	}
}
