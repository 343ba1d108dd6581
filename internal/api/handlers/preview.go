package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"incident-worker-go/internal/services/publisher/mjpeg"
	"incident-worker-go/internal/stream"
)

// Previewer serves the latest decoded frames of a stream
type Previewer interface {
	Latest(streamID string) ([]byte, error)
	StreamMJPEGHTTP(w http.ResponseWriter, r *http.Request, streamID string)
}

type PreviewHandler struct {
	manager *stream.Manager
	preview Previewer // nil when PREVIEW_FPS is 0
}

func NewPreviewHandler(manager *stream.Manager, preview Previewer) *PreviewHandler {
	return &PreviewHandler{manager: manager, preview: preview}
}

// StreamPreview serves a live MJPEG preview
// @Summary Live preview
// @Description MJPEG stream of the processing camera, rate limited to PREVIEW_FPS
// @Tags preview
// @Produce multipart/x-mixed-replace
// @Param id path string true "Stream ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /streams/{id}/preview [get]
func (h *PreviewHandler) StreamPreview(c *gin.Context) {
	if !h.check(c) {
		return
	}
	h.preview.StreamMJPEGHTTP(c.Writer, c.Request, c.Param("id"))
}

// Snapshot returns the latest preview frame
// @Summary Latest frame
// @Description Latest JPEG of the processing camera
// @Tags preview
// @Produce image/jpeg
// @Param id path string true "Stream ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /streams/{id}/snapshot [get]
func (h *PreviewHandler) Snapshot(c *gin.Context) {
	if !h.check(c) {
		return
	}
	jpeg, err := h.preview.Latest(c.Param("id"))
	if errors.Is(err, mjpeg.ErrNoFrame) {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "image/jpeg", jpeg)
}

func (h *PreviewHandler) check(c *gin.Context) bool {
	if h.preview == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "preview is disabled"})
		return false
	}
	if _, err := h.manager.Get(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}
