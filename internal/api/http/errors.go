package http

import (
	"errors"
	"net/http"

	"github.com/GriffinCanCode/stationfiles/internal/domain/files"
	"github.com/GriffinCanCode/stationfiles/internal/domain/media"
	"github.com/GriffinCanCode/stationfiles/internal/domain/station"
	"github.com/gin-gonic/gin"
)

// ErrorBody is the wire error object
type ErrorBody struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// ErrorResponse wraps ErrorBody as {"error": {...}}
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// classify maps a domain error onto an HTTP status and client message
func classify(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, files.ErrNotFound),
		errors.Is(err, station.ErrNotFound),
		errors.Is(err, station.ErrInvalidID):
		return http.StatusNotFound, "File or Directory Not Found"
	case errors.Is(err, files.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, files.ErrNotADirectory):
		return http.StatusPreconditionFailed, "Not a Directory"
	case errors.Is(err, media.ErrPlaylistNotFound):
		return http.StatusInternalServerError, "Playlist Not Found"
	case errors.Is(err, files.ErrTooLarge), errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "File Too Large"
	case errors.Is(err, files.ErrInvalidName):
		return http.StatusBadRequest, "Invalid File Name"
	}
	return http.StatusInternalServerError, "Internal Server Error"
}

// respondError writes the wire error for err and attaches it to the context
func respondError(c *gin.Context, err error) {
	status, msg := classify(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{Code: status, Msg: msg}})
}
