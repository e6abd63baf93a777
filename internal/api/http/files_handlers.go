package http

import (
	"errors"
	"net/http"
	"os"

	"github.com/GriffinCanCode/stationfiles/internal/api/middleware"
	"github.com/GriffinCanCode/stationfiles/internal/domain/files"
	"github.com/GriffinCanCode/stationfiles/internal/domain/media"
	"github.com/GriffinCanCode/stationfiles/internal/domain/query"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Upload form field
const uploadField = "file_data"

// IndexResponse is returned by the index endpoint
type IndexResponse struct {
	Station       string              `json:"station"`
	Playlists     []media.PlaylistRef `json:"playlists"`
	CSRF          string              `json:"csrf"`
	MaxUploadSize int64               `json:"max_upload_size"`
}

// Index returns the station's playlists, a fresh CSRF token, and the upload ceiling
func (h *Handlers) Index(c *gin.Context) {
	timer := h.track.Track("index")

	st, err := h.stations.Resolve(c.Param("station"))
	if err != nil {
		timer.StopErr(err)
		respondError(c, err)
		return
	}

	playlists, err := h.store.ListPlaylists(c.Request.Context(), st.ID)
	timer.StopErr(err)
	if err != nil {
		h.log.Station(st.ID).Error("List playlists failed", zap.Error(err))
		respondError(c, err)
		return
	}
	if playlists == nil {
		playlists = []media.PlaylistRef{}
	}

	c.JSON(http.StatusOK, IndexResponse{
		Station:       st.ID,
		Playlists:     playlists,
		CSRF:          h.tokens.Issue(h.opts.TokenScope, st.ID),
		MaxUploadSize: h.opts.UploadMax,
	})
}

// List returns one page of the directory named by the file parameter
func (h *Handlers) List(c *gin.Context) {
	timer := h.track.Track("list")

	t, err := h.resolve(c)
	if err != nil {
		timer.StopErr(err)
		respondError(c, err)
		return
	}

	lister := files.NewLister(t.station.Guard, h.store, h.opts.Marker)
	rows, err := lister.List(c.Request.Context(), t.station.ID, t.path)
	timer.StopErr(err)
	if err != nil {
		t.log.Debug("Listing failed", zap.String("path", t.station.Guard.Rel(t.path)), zap.Error(err))
		respondError(c, err)
		return
	}

	if err := c.Request.ParseForm(); err != nil {
		respondError(c, err)
		return
	}
	q := query.FromValues(c.Request.Form, c.Request.URL.RawQuery, middleware.RawForm(c))
	c.JSON(http.StatusOK, query.Apply(rows, q))
}

// Batch runs delete, clear, or playlist assignment over the files selection
func (h *Handlers) Batch(c *gin.Context) {
	timer := h.track.Track("batch")
	action := param(c, "do")

	t, err := h.resolve(c)
	if err != nil {
		timer.StopErr(err)
		h.track.Batch(action, nil, err)
		respondError(c, err)
		return
	}

	flattener, err := files.NewFlattener(t.station.Guard, h.opts.FlattenInclude)
	if err != nil {
		timer.StopErr(err)
		respondError(c, err)
		return
	}

	engine := files.NewBatchEngine(t.station.Guard, flattener, h.store, h.store, h.writer, h.log)
	result, err := engine.Execute(c.Request.Context(), files.BatchRequest{
		StationID: t.station.ID,
		Base:      t.path,
		Selection: param(c, "files"),
		Action:    action,
	})
	timer.StopErr(err)
	h.track.Batch(action, result, err)
	if err != nil {
		t.log.Warn("Batch aborted", zap.String("action", action), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Mkdir creates a subdirectory of the resolved path. Only a forbidden name is
// reported; other failures are logged and the call still succeeds.
func (h *Handlers) Mkdir(c *gin.Context) {
	timer := h.track.Track("mkdir")

	t, err := h.resolve(c)
	if err != nil {
		timer.StopErr(err)
		respondError(c, err)
		return
	}

	name := param(c, "name")
	created, err := files.Mkdir(t.path, name)
	timer.StopErr(err)
	switch {
	case errors.Is(err, files.ErrForbidden):
		t.log.Warn("Rejected directory name", zap.String("name", name))
		respondError(c, err)
		return
	case err != nil:
		t.log.Warn("Mkdir failed", zap.String("name", name), zap.Error(err))
	default:
		t.log.Info("Directory created", zap.String("path", t.station.Guard.Rel(created)))
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Upload stores the file_data part in the resolved directory and registers it
func (h *Handlers) Upload(c *gin.Context) {
	timer := h.track.Track("upload")

	var size int64
	path, err := h.upload(c, &size)
	timer.StopErr(err)
	h.track.Upload(size, err)
	if err != nil {
		h.log.Station(c.Param("station")).Warn("Upload failed", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "path": path})
}

func (h *Handlers) upload(c *gin.Context, size *int64) (string, error) {
	t, err := h.resolve(c)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(t.path)
	if err != nil || !info.IsDir() {
		return "", files.ErrNotADirectory
	}

	header, err := c.FormFile(uploadField)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return "", errors.Join(err, files.ErrInvalidName)
	case err != nil:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", err
		}
		return "", errors.Join(err, files.ErrInvalidName)
	}
	if h.opts.UploadMax > 0 && header.Size > h.opts.UploadMax {
		return "", files.ErrTooLarge
	}

	name, err := files.UploadName(header.Filename)
	if err != nil {
		return "", err
	}

	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dest, err := files.SaveUpload(t.path, name, src)
	if err != nil {
		return "", err
	}

	rec, err := files.Register(c.Request.Context(), t.station.Guard, h.store, t.station.ID, dest)
	if err != nil {
		return "", err
	}

	*size = header.Size
	t.log.Info("File uploaded", zap.String("path", rec.Path), zap.Int64("size", header.Size))
	return rec.Path, nil
}

// Download streams the resolved file as an attachment
func (h *Handlers) Download(c *gin.Context) {
	timer := h.track.Track("download")

	t, err := h.resolve(c)
	if err != nil {
		timer.StopErr(err)
		respondError(c, err)
		return
	}

	dl, err := files.PrepareDownload(t.path)
	if err != nil {
		timer.StopErr(err)
		respondError(c, err)
		return
	}

	f, err := os.Open(dl.Path)
	if err != nil {
		timer.StopErr(err)
		respondError(c, errors.Join(err, files.ErrNotFound))
		return
	}
	defer f.Close()

	timer.StopErr(nil)
	h.track.Download()
	c.DataFromReader(http.StatusOK, dl.Size, dl.ContentType, f, map[string]string{
		"Content-Disposition": files.Disposition(dl.Name, c.GetHeader("User-Agent")),
	})
}
