package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"incident-worker-go/internal/buffer"
	"incident-worker-go/internal/logging"
	"incident-worker-go/internal/models"
	"incident-worker-go/internal/stream"
)

type StreamHandler struct {
	manager *stream.Manager
}

func NewStreamHandler(manager *stream.Manager) *StreamHandler {
	return &StreamHandler{
		manager: manager,
	}
}

// ListStreamsResponse wraps the streams run by this worker
type ListStreamsResponse struct {
	Streams []models.StreamResponse `json:"streams"`
	Count   int                     `json:"count"`
}

// ListStreams lists all streams
// @Summary List all streams
// @Description Get capture, buffer and incident statistics of every stream
// @Tags streams
// @Produce json
// @Success 200 {object} ListStreamsResponse
// @Router /streams [get]
func (h *StreamHandler) ListStreams(c *gin.Context) {
	streams := h.manager.List()
	resp := ListStreamsResponse{
		Streams: make([]models.StreamResponse, 0, len(streams)),
		Count:   len(streams),
	}
	for _, s := range streams {
		resp.Streams = append(resp.Streams, s.Stats())
	}
	c.JSON(http.StatusOK, resp)
}

// GetStream gets stream details
// @Summary Get stream details
// @Description Get capture, buffer and incident statistics of a stream
// @Tags streams
// @Produce json
// @Param id path string true "Stream ID"
// @Success 200 {object} models.StreamResponse
// @Failure 404 {object} ErrorResponse
// @Router /streams/{id} [get]
func (h *StreamHandler) GetStream(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Stats())
}

// StopStream stops a stream
// @Summary Stop a stream
// @Description Stop both captures of a stream and flush its pending incidents
// @Tags streams
// @Produce json
// @Param id path string true "Stream ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /streams/{id} [delete]
func (h *StreamHandler) StopStream(c *gin.Context) {
	if err := h.manager.Remove(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	logging.Info(c).Msg("Stream stopped")
	c.JSON(http.StatusOK, SuccessResponse{Message: "Stream stopped successfully"})
}

// TriggerIncident schedules an incident clip
// @Summary Trigger an incident
// @Description Schedule a clip around the current moment. The incident is published once the post-trigger frames were captured.
// @Tags incidents
// @Accept json
// @Produce json
// @Param id path string true "Stream ID"
// @Param request body models.TriggerRequest true "Trigger reason and metadata"
// @Success 202 {object} models.TriggerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /streams/{id}/incidents [post]
func (h *StreamHandler) TriggerIncident(c *gin.Context) {
	var req models.TriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logging.Warn(c).Err(err).Msg("Invalid trigger request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	s, ok := h.lookup(c)
	if !ok {
		return
	}

	id, err := s.Trigger(req.Reason, req.Metadata)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusAccepted, models.TriggerResponse{
		IncidentID: id,
		StreamID:   s.ID(),
		Message:    "Incident scheduled",
	})
}

// ResizeBuffer changes the incident window
// @Summary Resize the incident buffer
// @Description Change how many seconds are kept before and after a trigger. Pending incidents are retargeted.
// @Tags streams
// @Accept json
// @Produce json
// @Param id path string true "Stream ID"
// @Param request body models.ResizeBufferRequest true "Window length in seconds"
// @Success 200 {object} models.StreamResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /streams/{id}/buffer [put]
func (h *StreamHandler) ResizeBuffer(c *gin.Context) {
	var req models.ResizeBufferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	s, ok := h.lookup(c)
	if !ok {
		return
	}
	if err := s.ResizeBuffer(req.Seconds); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Stats())
}

// ResetBuffer restores the default incident window
// @Summary Reset the incident buffer
// @Description Restore the default window of 5 seconds
// @Tags streams
// @Produce json
// @Param id path string true "Stream ID"
// @Success 200 {object} models.StreamResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /streams/{id}/buffer/reset [post]
func (h *StreamHandler) ResetBuffer(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	if err := s.ResetBuffer(); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Stats())
}

func (h *StreamHandler) lookup(c *gin.Context) (*stream.Stream, bool) {
	s, err := h.manager.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return s, true
}

func (h *StreamHandler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.Error(c).Err(err).Msg("Stream request failed")
	} else {
		logging.Debug(c).Err(err).Int("status", status).Msg("Stream request rejected")
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, stream.ErrStreamNotFound):
		return http.StatusNotFound
	case errors.Is(err, buffer.ErrInvalidWindow):
		return http.StatusBadRequest
	case errors.Is(err, stream.ErrNoContextBuffer), errors.Is(err, stream.ErrStreamStopped):
		return http.StatusConflict
	case errors.Is(err, stream.ErrBufferNotReady):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
