package http

import (
	"context"
	"net/http"
	"time"

	"github.com/GriffinCanCode/stationfiles/internal/domain/files"
	"github.com/GriffinCanCode/stationfiles/internal/domain/media"
	"github.com/GriffinCanCode/stationfiles/internal/domain/station"
	"github.com/GriffinCanCode/stationfiles/internal/infrastructure/logging"
	"github.com/GriffinCanCode/stationfiles/internal/infrastructure/monitoring"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Version is reported by the root endpoint
const Version = "1.0.0"

// Store is the metadata backend the handlers need
type Store interface {
	media.EntryStore
	media.PlaylistStore
	Ping(ctx context.Context) error
}

// TokenIssuer issues CSRF tokens for a scope and station
type TokenIssuer interface {
	Issue(scope, station string) string
}

// Options carries per-deployment file manager settings
type Options struct {
	Marker         string
	FlattenInclude string
	UploadMax      int64
	TokenScope     string
}

// Handlers contains all HTTP handlers
type Handlers struct {
	stations station.Resolver
	store    Store
	writer   media.ConfigWriter
	tokens   TokenIssuer
	metrics  *monitoring.Metrics
	track    *HandlerMetrics
	log      *logging.Logger
	opts     Options
}

// NewHandlers creates a new handler set
func NewHandlers(
	stations station.Resolver,
	store Store,
	writer media.ConfigWriter,
	tokens TokenIssuer,
	metrics *monitoring.Metrics,
	log *logging.Logger,
	opts Options,
) *Handlers {
	if log == nil {
		log = logging.NewNop()
	}
	if opts.FlattenInclude == "" {
		opts.FlattenInclude = files.DefaultInclude
	}
	return &Handlers{
		stations: stations,
		store:    store,
		writer:   writer,
		tokens:   tokens,
		metrics:  metrics,
		track:    NewHandlerMetrics(metrics),
		log:      log.Component("files"),
		opts:     opts,
	}
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Station Files",
		"version": Version,
	})
}

// Health reports store reachability and running request totals
func (h *Handlers) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	body := gin.H{"status": "healthy", "store": "ok"}
	status := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		h.log.Error("Health check failed", zap.Error(err))
		body["status"] = "degraded"
		body["store"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(status, body)
}

// target is one request's tenant and its post-guard path
type target struct {
	station *station.Station
	path    string
	log     *logging.Logger
}

const targetKey = "files.target"

// Scope resolves the station and file parameter ahead of the rest of the chain,
// so an unknown or escaping path is reported before token checks run.
func (h *Handlers) Scope(c *gin.Context) {
	if _, err := h.resolve(c); err != nil {
		respondError(c, err)
		return
	}
	c.Next()
}

// resolve runs tenant resolution and then the path guard on the file parameter.
// The result is cached on the context.
func (h *Handlers) resolve(c *gin.Context) (*target, error) {
	if t, ok := c.Get(targetKey); ok {
		return t.(*target), nil
	}

	st, err := h.stations.Resolve(c.Param("station"))
	if err != nil {
		return nil, err
	}
	path, err := st.Guard.Resolve(param(c, "file"))
	if err != nil {
		return nil, err
	}
	t := &target{station: st, path: path, log: h.log.Station(st.ID)}
	c.Set(targetKey, t)
	return t, nil
}

// param reads a request parameter from the body first, then the query string
func param(c *gin.Context, name string) string {
	if v, ok := c.GetPostForm(name); ok {
		return v
	}
	return c.Query(name)
}
