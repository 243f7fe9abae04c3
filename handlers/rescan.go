package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"hifi/services"
	"hifi/websocket"
)

// RescanHandler manages library rescans and their progress feed
type RescanHandler struct {
	library *services.Library
	hub     websocket.Hub
}

// NewRescanHandler creates a new rescan handler
func NewRescanHandler(library *services.Library, hub websocket.Hub) *RescanHandler {
	return &RescanHandler{library: library, hub: hub}
}

// StartRescan kicks off a background rebuild of the catalog and index.
// The new pair is published atomically when the scan finishes; requests
// in flight keep the snapshot they started with. Only one rescan runs
// at a time — a request while one is in flight is rejected with 409.
func (h *RescanHandler) StartRescan(c *gin.Context) {
	job, started := h.library.Rescan()
	if !started {
		c.JSON(http.StatusConflict, gin.H{
			"error": "rescan already in progress",
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "rescan started",
		"job":     job,
	})
}

// GetRescan returns the current or most recent rescan job
func (h *RescanHandler) GetRescan(c *gin.Context) {
	job := h.library.LastJob()
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "no rescan has been run",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job": job,
	})
}

// HandleWebSocketConnection upgrades to a WebSocket that receives scan
// progress messages
func (h *RescanHandler) HandleWebSocketConnection(c *gin.Context) {
	upgrader := websocket.GetUpgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn)
	h.hub.RegisterClient(client)
	client.StartPumps()
}
