package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hifi/services"
)

// SearchHandler handles the search endpoint
type SearchHandler struct {
	library *services.Library
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(library *services.Library) *SearchHandler {
	return &SearchHandler{library: library}
}

// Search answers a keyword/filter query with one page of results. With
// no parameters it is the browse-all first page. All filters plus the
// `after` cursor travel in the query string, so every page request is
// self-contained and repeatable.
func (h *SearchHandler) Search(c *gin.Context) {
	snap := h.library.Snapshot()

	page := snap.Query.Search(services.SearchParams{
		Term:   c.Query("term"),
		Artist: c.Query("artist"),
		Album:  c.Query("album"),
		After:  c.Query("after"),
	})

	c.JSON(http.StatusOK, page)
}
