package files

import (
	"context"
	"fmt"
	"strings"

	"github.com/GriffinCanCode/stationfiles/internal/domain/media"
	"github.com/GriffinCanCode/stationfiles/internal/infrastructure/logging"
	"go.uber.org/zap"
)

// Batch actions accepted on the wire. Playlist assignment is "playlist_<id>".
const (
	ActionDelete   = "delete"
	ActionClear    = "clear"
	playlistPrefix = "playlist"

	selectionSeparator = "|"
)

// ErrPlaylistNotFound aborts a playlist batch before any mutation
var ErrPlaylistNotFound = fmt.Errorf("batch: %w", media.ErrPlaylistNotFound)

// BatchRequest describes one batch call. Base is the post-guard absolute directory
// the selection is relative to.
type BatchRequest struct {
	StationID string
	Base      string
	Selection string
	Action    string
}

// BatchResult summarizes a completed batch
type BatchResult struct {
	Success       bool `json:"success"`
	Processed     int  `json:"processed"`
	Failed        int  `json:"failed"`
	ConfigWritten bool `json:"config_written"`
}

// BatchEngine executes delete, clear, and playlist assignment over a selection
type BatchEngine struct {
	guard     *Guard
	flattener *Flattener
	entries   media.EntryStore
	playlists media.PlaylistStore
	writer    media.ConfigWriter
	log       *logging.Logger
}

// NewBatchEngine wires a batch engine for one station root
func NewBatchEngine(guard *Guard, flattener *Flattener, entries media.EntryStore, playlists media.PlaylistStore, writer media.ConfigWriter, log *logging.Logger) *BatchEngine {
	if log == nil {
		log = logging.NewNop()
	}
	return &BatchEngine{
		guard:     guard,
		flattener: flattener,
		entries:   entries,
		playlists: playlists,
		writer:    writer,
		log:       log,
	}
}

// Execute runs req. Per-item failures are counted and logged but never fail the
// batch; only an unknown playlist or a failed flatten returns an error, and both
// happen before anything is mutated. Unknown actions succeed without doing anything.
func (e *BatchEngine) Execute(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	paths := e.Resolve(req.Base, req.Selection)
	log := &logging.Logger{Logger: e.log.Station(req.StationID).With(zap.String("action", req.Action))}

	switch {
	case req.Action == ActionDelete:
		return e.delete(paths, log), nil

	case req.Action == ActionClear:
		files, err := e.flattener.Flatten(ctx, paths)
		if err != nil {
			return nil, err
		}
		return e.mutate(ctx, req.StationID, files, log, func(rec *media.Record) {
			rec.ClearPlaylists()
		}), nil

	case strings.HasPrefix(req.Action, playlistPrefix):
		id := PlaylistID(req.Action)
		playlist, err := e.playlists.FindPlaylist(ctx, req.StationID, id)
		if err != nil {
			return nil, fmt.Errorf("playlist %d: %w", id, err)
		}
		if playlist == nil {
			return nil, fmt.Errorf("playlist %d: %w", id, ErrPlaylistNotFound)
		}

		files, err := e.flattener.Flatten(ctx, paths)
		if err != nil {
			return nil, err
		}
		ref := *playlist
		return e.mutate(ctx, req.StationID, files, log, func(rec *media.Record) {
			rec.AddPlaylist(ref)
		}), nil
	}

	log.Debug("Ignoring unknown batch action")
	return &BatchResult{Success: true}, nil
}

// Resolve splits a pipe-delimited selection and keeps the entries that exist
// inside the root, in selection order.
func (e *BatchEngine) Resolve(base, selection string) []string {
	var paths []string
	for _, entry := range strings.Split(selection, selectionSeparator) {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		path, err := e.guard.Locate(base, entry)
		if err != nil {
			e.log.Debug("Dropping batch entry", zap.String("entry", entry), zap.Error(err))
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

func (e *BatchEngine) delete(paths []string, log *logging.Logger) *BatchResult {
	result := &BatchResult{Success: true}
	for _, p := range paths {
		errs := RemoveTree(p)
		if len(errs) > 0 {
			result.Failed++
			for _, err := range errs {
				log.Warn("Delete failed", zap.String("path", e.guard.Rel(p)), zap.Error(err))
			}
			continue
		}
		result.Processed++
	}

	log.Info("Batch delete complete", zap.Int("processed", result.Processed), zap.Int("failed", result.Failed))
	return result
}

func (e *BatchEngine) mutate(ctx context.Context, stationID string, files []string, log *logging.Logger, apply func(*media.Record)) *BatchResult {
	result := &BatchResult{Success: true}
	for _, f := range files {
		rel := media.NormalizePath(e.guard.Rel(f))

		rec, err := e.entries.GetOrCreate(ctx, stationID, rel)
		if err != nil {
			result.Failed++
			log.Warn("Load media record failed", zap.String("path", rel), zap.Error(err))
			continue
		}

		apply(rec)
		if err := e.entries.Save(ctx, rec); err != nil {
			result.Failed++
			log.Warn("Save media record failed", zap.String("path", rel), zap.Error(err))
			continue
		}
		result.Processed++
	}

	if err := e.writer.Write(ctx, stationID); err != nil {
		log.Error("Playback configuration rewrite failed", zap.Error(err))
	} else {
		result.ConfigWritten = true
	}

	log.Info("Batch playlist update complete",
		zap.Int("processed", result.Processed),
		zap.Int("failed", result.Failed),
		zap.Bool("config_written", result.ConfigWritten))
	return result
}

// PlaylistID extracts the id from a "playlist_<id>" action using the leading
// digits after the first underscore. Anything else yields 0, which no playlist uses.
func PlaylistID(action string) int64 {
	parts := strings.Split(action, "_")
	if len(parts) < 2 {
		return 0
	}
	return leadingInt(parts[1])
}
