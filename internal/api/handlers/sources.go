package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"incident-worker-go/internal/logging"
	"incident-worker-go/internal/models"
)

// SourceChecker opens a video source once and reports what it delivers
type SourceChecker interface {
	CheckSource(source string) *models.SourceCheckResponse
}

type SourceHandler struct {
	checker SourceChecker
}

func NewSourceHandler(checker SourceChecker) *SourceHandler {
	return &SourceHandler{checker: checker}
}

// CheckSource validates a video source
// @Summary Check a video source
// @Description Open an RTSP URL, file or device index, grab one frame and return its size, frame rate and a thumbnail
// @Tags sources
// @Accept json
// @Produce json
// @Param request body models.SourceCheckRequest true "Source to check"
// @Success 200 {object} models.SourceCheckResponse
// @Failure 400 {object} ErrorResponse
// @Router /sources/check [post]
func (h *SourceHandler) CheckSource(c *gin.Context) {
	var req models.SourceCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result := h.checker.CheckSource(req.URL)
	logging.Info(c).
		Bool("valid", result.Valid).
		Str("message", result.Message).
		Msg("Source checked")

	c.JSON(http.StatusOK, result)
}
