package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"incident-worker-go/internal/stream"
)

// SystemHandler handles system-related endpoints
type SystemHandler struct {
	WorkerID  string
	startedAt time.Time
	manager   *stream.Manager
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(workerID string, manager *stream.Manager) *SystemHandler {
	return &SystemHandler{
		WorkerID:  workerID,
		startedAt: time.Now(),
		manager:   manager,
	}
}

// @Summary Get system stats
// @Description Get runtime statistics and aggregated stream counters
// @Tags system
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /system/stats [get]
func (h *SystemHandler) GetStats(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var decoded, incidents, discarded, reconnects uint64
	streams := h.manager.List()
	for _, s := range streams {
		st := s.Stats()
		decoded += st.FramesDecoded
		incidents += st.Incidents
		discarded += st.Primary.Discarded
		reconnects += st.Primary.Reconnects
		if st.Context != nil {
			discarded += st.Context.Discarded
			reconnects += st.Context.Reconnects
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"worker_id":      h.WorkerID,
			"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
			"memory_mb":      m.Alloc / 1024 / 1024,
			"cpu_cores":      runtime.NumCPU(),
			"goroutines":     runtime.NumGoroutine(),
			"go_version":     runtime.Version(),
			"streams":        len(streams),
			"frames_decoded": decoded,
			"incidents":      incidents,
			"discarded":      discarded,
			"reconnects":     reconnects,
		},
		"timestamp": time.Now().Unix(),
	})
}
