package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hifi/services"
	"hifi/types"
)

// DetailsHandler answers single-track metadata lookups
type DetailsHandler struct {
	library *services.Library
}

// NewDetailsHandler creates a new details handler
func NewDetailsHandler(library *services.Library) *DetailsHandler {
	return &DetailsHandler{library: library}
}

// Details returns the title/artist/album for one track id, for the
// "Now Playing" display. Year 0 and empty tag fields pass through
// untouched; rendering "N/A" is the client's job.
func (h *DetailsHandler) Details(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "query parameter 'id' is required",
		})
		return
	}

	snap := h.library.Snapshot()
	track, ok := snap.Catalog.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "track not found",
		})
		return
	}

	c.JSON(http.StatusOK, types.TrackDetails{
		Title:  track.Title,
		Artist: track.Artist,
		Album:  track.Album,
	})
}
