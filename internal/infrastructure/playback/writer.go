package playback

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/GriffinCanCode/stationfiles/internal/domain/media"
	"github.com/GriffinCanCode/stationfiles/internal/domain/station"
	"github.com/GriffinCanCode/stationfiles/internal/infrastructure/logging"
	"github.com/GriffinCanCode/stationfiles/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/stationfiles/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/stationfiles/internal/infrastructure/tracing"
	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

const (
	playlistPattern = "playlist_*.m3u"
	manifestBase    = "playback"
)

// Config configures where and how playback files are written
type Config struct {
	Dir    string
	Format string
}

// Writer regenerates a station's playlist files and manifest. It implements
// media.ConfigWriter.
type Writer struct {
	cfg       Config
	playlists media.PlaylistStore
	stations  station.Resolver
	breakers  *resilience.Group
	notifier  *Notifier
	metrics   *monitoring.Metrics
	tracer    *tracing.Tracer
	log       *logging.Logger
	now       func() time.Time
}

var _ media.ConfigWriter = (*Writer)(nil)

// Option configures optional Writer collaborators
type Option func(*Writer)

// WithNotifier posts an Event after each successful rewrite
func WithNotifier(n *Notifier) Option {
	return func(w *Writer) { w.notifier = n }
}

// WithMetrics records rewrite outcomes
func WithMetrics(m *monitoring.Metrics) Option {
	return func(w *Writer) { w.metrics = m }
}

// WithTracer records a span per rewrite
func WithTracer(t *tracing.Tracer) Option {
	return func(w *Writer) { w.tracer = t }
}

// WithBreakers replaces the default per-station circuit breakers
func WithBreakers(g *resilience.Group) Option {
	return func(w *Writer) { w.breakers = g }
}

// NewWriter creates a writer
func NewWriter(cfg Config, playlists media.PlaylistStore, stations station.Resolver, log *logging.Logger, opts ...Option) (*Writer, error) {
	if cfg.Format == "" {
		cfg.Format = FormatYAML
	}
	if !ValidFormat(cfg.Format) {
		return nil, fmt.Errorf("unsupported manifest format %q", cfg.Format)
	}
	if cfg.Dir == "" {
		return nil, fmt.Errorf("playback directory is required")
	}

	w := &Writer{
		cfg:       cfg,
		playlists: playlists,
		stations:  stations,
		log:       log.Component("playback"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.breakers == nil {
		w.breakers = resilience.NewGroup(resilience.Settings{
			Timeout: 30 * time.Second,
			OnStateChange: func(name string, from, to resilience.State) {
				w.log.Warn("Playback breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		})
	}
	return w, nil
}

// Write regenerates the station's playback configuration and notifies the
// reload webhook, if any
func (w *Writer) Write(ctx context.Context, stationID string) error {
	if w.tracer != nil {
		var span *tracing.Span
		span, ctx = w.tracer.StartSpan(ctx, "playback.write")
		span.SetTag("station", stationID)
		defer func() {
			span.Finish()
			w.tracer.Submit(span)
		}()
	}

	err := w.breakers.Get("playback:"+stationID).Do(ctx, func(ctx context.Context) error {
		manifest, path, err := w.render(ctx, stationID)
		if err != nil {
			return err
		}
		if w.notifier == nil {
			return nil
		}
		return w.notifier.Notify(ctx, Event{
			Station:     stationID,
			Manifest:    path,
			Playlists:   len(manifest.Playlists),
			GeneratedAt: manifest.GeneratedAt,
		})
	})

	if w.metrics != nil {
		w.metrics.RecordPlaybackRewrite(err)
	}
	if err != nil {
		return fmt.Errorf("write playback config for %s: %w", stationID, err)
	}
	return nil
}

// ManifestPath returns where the manifest for a station is written
func (w *Writer) ManifestPath(stationID string) string {
	return filepath.Join(w.cfg.Dir, stationID, manifestBase+"."+w.cfg.Format)
}

func (w *Writer) render(ctx context.Context, stationID string) (*Manifest, string, error) {
	st, err := w.stations.Resolve(stationID)
	if err != nil {
		return nil, "", err
	}
	playlists, err := w.playlists.ListPlaylists(ctx, stationID)
	if err != nil {
		return nil, "", err
	}

	dir := filepath.Join(w.cfg.Dir, stationID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create playback directory: %w", err)
	}

	manifest := &Manifest{
		Station:     stationID,
		GeneratedAt: w.now().UTC().Truncate(time.Second),
		MediaRoot:   st.Root(),
		Playlists:   make([]ManifestPlaylist, 0, len(playlists)),
	}

	keep := make(map[string]bool, len(playlists))
	for _, p := range playlists {
		paths, err := w.playlists.PlaylistPaths(ctx, stationID, p.ID)
		if err != nil {
			return nil, "", fmt.Errorf("playlist %d: %w", p.ID, err)
		}

		name := fmt.Sprintf("playlist_%d.m3u", p.ID)
		if err := writeFileAtomic(filepath.Join(dir, name), renderM3U(p, st.Root(), paths)); err != nil {
			return nil, "", err
		}
		keep[name] = true
		manifest.Playlists = append(manifest.Playlists, ManifestPlaylist{
			ID:      p.ID,
			Name:    p.Name,
			File:    name,
			Entries: len(paths),
		})
	}

	w.removeStale(dir, keep)

	data, err := Encode(w.cfg.Format, manifest)
	if err != nil {
		return nil, "", fmt.Errorf("encode manifest: %w", err)
	}
	path := w.ManifestPath(stationID)
	if err := writeFileAtomic(path, data); err != nil {
		return nil, "", err
	}

	w.log.Info("Playback configuration written",
		zap.String("station", stationID),
		zap.Int("playlists", len(manifest.Playlists)))
	return manifest, path, nil
}

// removeStale deletes playlist files for playlists that no longer exist
func (w *Writer) removeStale(dir string, keep map[string]bool) {
	matches, err := doublestar.Glob(os.DirFS(dir), playlistPattern)
	if err != nil {
		return
	}
	for _, name := range matches {
		if keep[name] {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
			w.log.Warn("Remove stale playlist failed", zap.String("file", name), zap.Error(err))
		}
	}
}

func renderM3U(p media.PlaylistRef, root string, paths []string) []byte {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	b.WriteString("#PLAYLIST:" + p.Name + "\n")
	for _, rel := range paths {
		b.WriteString(filepath.Join(root, filepath.FromSlash(rel)))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// writeFileAtomic replaces path so readers never see a partial file
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
