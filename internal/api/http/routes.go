package http

import (
	"github.com/GriffinCanCode/stationfiles/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// Register mounts the file manager under /stations/:station/files. csrf guards
// every mutating route except list, which only reads. Path checks run before
// csrf, so a bad path is reported as 404 or 403 ahead of a token failure.
func (h *Handlers) Register(router gin.IRouter, csrf gin.HandlerFunc) {
	group := router.Group("/stations/:station/files")

	group.GET("", h.Index)
	group.GET("/list", h.List)
	group.POST("/list", middleware.CaptureForm(), h.List)
	group.GET("/download", h.Download)

	group.POST("/batch", h.Scope, csrf, h.Batch)
	group.POST("/mkdir", h.Scope, csrf, h.Mkdir)
	group.POST("/upload", h.Scope, csrf, h.Upload)
}
