package http

import (
	"strings"

	"github.com/GriffinCanCode/stationfiles/internal/domain/files"
	"github.com/GriffinCanCode/stationfiles/internal/infrastructure/monitoring"
)

const component = "files"

// HandlerMetrics wraps handlers with metrics tracking. A nil metrics value
// disables recording.
type HandlerMetrics struct {
	metrics *monitoring.Metrics
}

// NewHandlerMetrics creates a metrics wrapper
func NewHandlerMetrics(metrics *monitoring.Metrics) *HandlerMetrics {
	return &HandlerMetrics{metrics: metrics}
}

// Track starts timing a file manager operation
func (hm *HandlerMetrics) Track(operation string) *monitoring.Timer {
	return monitoring.NewTimer(hm.metrics, component, operation)
}

// Batch records a batch call; playlist actions share one label
func (hm *HandlerMetrics) Batch(action string, result *files.BatchResult, err error) {
	if hm.metrics == nil {
		return
	}
	label := actionLabel(action)
	if err != nil {
		hm.metrics.RecordBatch(label, monitoring.StatusError, 0, 0)
		return
	}
	hm.metrics.RecordBatch(label, monitoring.StatusSuccess, result.Processed, result.Failed)
}

// Upload records an upload outcome
func (hm *HandlerMetrics) Upload(size int64, err error) {
	if hm.metrics == nil {
		return
	}
	if err != nil {
		hm.metrics.RecordUpload(monitoring.StatusError, 0)
		return
	}
	hm.metrics.RecordUpload(monitoring.StatusSuccess, size)
}

// Download counts a served download
func (hm *HandlerMetrics) Download() {
	if hm.metrics == nil {
		return
	}
	hm.metrics.IncDownloads()
}

func actionLabel(action string) string {
	switch {
	case action == files.ActionDelete, action == files.ActionClear:
		return action
	case strings.HasPrefix(action, "playlist"):
		return "playlist"
	}
	return "other"
}
