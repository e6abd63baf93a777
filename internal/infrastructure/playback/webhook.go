package playback

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/GriffinCanCode/stationfiles/internal/infrastructure/logging"
	"github.com/GriffinCanCode/stationfiles/internal/infrastructure/tracing"
	"github.com/bytedance/sonic"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// Event is posted to the reload webhook after a rewrite
type Event struct {
	Station     string    `json:"station"`
	Manifest    string    `json:"manifest"`
	Playlists   int       `json:"playlists"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NotifierConfig configures webhook delivery
type NotifierConfig struct {
	URL     string
	Retries int
	WaitMin time.Duration
	WaitMax time.Duration
	Timeout time.Duration
}

// Notifier tells the playback backend to reload its configuration
type Notifier struct {
	url    string
	client *retryablehttp.Client
}

// NewNotifier creates a notifier with retrying delivery
func NewNotifier(cfg NotifierConfig, log *logging.Logger) *Notifier {
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.Retries
	client.RetryWaitMin = durationOr(cfg.WaitMin, 500*time.Millisecond)
	client.RetryWaitMax = durationOr(cfg.WaitMax, 5*time.Second)
	client.HTTPClient.Timeout = durationOr(cfg.Timeout, 10*time.Second)
	client.Logger = retryLogger{log.Component("webhook").Sugar()}

	return &Notifier{url: cfg.URL, client: client}
}

// Notify posts ev, retrying transient failures. Non-2xx final responses are errors.
func (n *Notifier) Notify(ctx context.Context, ev Event) error {
	body, err := sonic.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode webhook event: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, n.url, body)
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	tracing.InjectHeaders(ctx, req.Header)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}

// retryLogger adapts zap to retryablehttp.LeveledLogger
type retryLogger struct {
	s *zap.SugaredLogger
}

func (l retryLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l retryLogger) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l retryLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l retryLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
