package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hifi/services"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	library *services.Library
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(library *services.Library) *HealthHandler {
	return &HealthHandler{library: library}
}

// HealthCheck returns the health status of the service
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "hifi",
		"version":   "1.0.0",
		"timestamp": time.Now().Unix(),
	})
}

// APIStatus returns the library root and the state of the current
// snapshot
func (h *HealthHandler) APIStatus(c *gin.Context) {
	snap := h.library.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"message": "hifi API is running",
		"root":    h.library.Root(),
		"tracks":  snap.Catalog.Len(),
		"builtAt": snap.BuiltAt,
	})
}
