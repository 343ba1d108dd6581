package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ConnectionChecker reports whether the incident transport is connected
type ConnectionChecker interface {
	IsConnected() bool
}

type HealthHandler struct {
	WorkerID  string
	Version   string
	messaging ConnectionChecker // nil when NATS is disabled
}

func NewHealthHandler(workerID, version string, messaging ConnectionChecker) *HealthHandler {
	return &HealthHandler{WorkerID: workerID, Version: version, messaging: messaging}
}

type HealthResponse struct {
	Status   string `json:"status" example:"healthy"`
	WorkerID string `json:"worker_id" example:"worker-1"`
	NATS     string `json:"nats" example:"connected"`
}

type WorkerInfoResponse struct {
	WorkerID     string   `json:"worker_id" example:"worker-1"`
	Status       string   `json:"status" example:"running"`
	Version      string   `json:"version" example:"1.0.0"`
	Capabilities []string `json:"capabilities"`
}

// @Summary Health check
// @Description Check if the worker is healthy and responsive. A lost NATS connection reports degraded.
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:   "healthy",
		WorkerID: h.WorkerID,
		NATS:     "disabled",
	}
	if h.messaging != nil {
		resp.NATS = "connected"
		if !h.messaging.IsConnected() {
			resp.NATS = "disconnected"
			resp.Status = "degraded"
		}
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Worker information
// @Description Get basic worker information and capabilities
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} WorkerInfoResponse
// @Router / [get]
func (h *HealthHandler) WorkerInfo(c *gin.Context) {
	c.JSON(http.StatusOK, WorkerInfoResponse{
		WorkerID: h.WorkerID,
		Status:   "running",
		Version:  h.Version,
		Capabilities: []string{
			"realtime_capture",
			"incident_clips",
			"source_check",
		},
	})
}
