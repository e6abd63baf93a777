package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GriffinCanCode/stationfiles/internal/infrastructure/logging"
	"github.com/GriffinCanCode/stationfiles/internal/shared/id"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSpanNestsUnderParent(t *testing.T) {
	tracer := New("test", logging.NewNop())
	defer tracer.Close()

	root, ctx := tracer.StartSpan(context.Background(), "root")
	child, childCtx := tracer.StartSpan(ctx, "child")

	assert.Equal(t, root.TraceID, child.TraceID)
	assert.Equal(t, root.SpanID, child.ParentID)
	assert.Equal(t, child.SpanID, GetSpanID(childCtx))

	h := http.Header{}
	InjectHeaders(childCtx, h)
	assert.Equal(t, root.TraceID.String(), h.Get(HeaderTraceID))
	assert.Equal(t, child.SpanID.String(), h.Get(HeaderSpanID))
}

func TestHTTPMiddlewarePropagatesIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer := New("test", logging.NewNop())
	defer tracer.Close()

	var seen id.TraceID
	router := gin.New()
	router.Use(HTTPMiddleware(tracer))
	router.GET("/ping", func(c *gin.Context) {
		seen = GetTraceID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderTraceID, "trace-from-caller")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, id.TraceID("trace-from-caller"), seen)
	assert.Equal(t, "trace-from-caller", w.Header().Get(HeaderTraceID))
	assert.NotEmpty(t, w.Header().Get(HeaderSpanID))
	assert.Len(t, w.Header().Get(HeaderRequestID), 36)
}

func TestSubmitAfterClose(t *testing.T) {
	tracer := New("test", logging.NewNop())
	span, _ := tracer.StartSpan(context.Background(), "late")
	tracer.Close()
	tracer.Close()

	assert.NotPanics(t, func() { tracer.Submit(span) })
}
