package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"hifi/services"
	"hifi/types"
)

// StreamHandler serves track audio with HTTP range support
type StreamHandler struct {
	library *services.Library
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(library *services.Library) *StreamHandler {
	return &StreamHandler{library: library}
}

var (
	errMalformedRange     = errors.New("malformed range")
	errUnsatisfiableRange = errors.New("unsatisfiable range")
)

// Listen streams the audio bytes for a track id. The id "whatsnew"
// resolves to the most recently added track of the current snapshot.
// Range requests get exactly the requested span with 206; a range past
// the end of the file gets 416. Each response reads from its own file
// handle, so concurrent seeks on the same track don't interfere.
func (h *StreamHandler) Listen(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "query parameter 'id' is required",
		})
		return
	}

	snap := h.library.Snapshot()

	var track types.Track
	var ok bool
	if id == services.WhatsNewID {
		track, ok = snap.Catalog.Newest()
	} else {
		track, ok = snap.Catalog.Get(id)
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "track not found",
		})
		return
	}

	file, err := os.Open(track.Path)
	if err != nil {
		// The file was indexed but is gone or unreadable now. Don't
		// leak the path.
		log.Printf("Error opening track %s: %v", track.ID, err)
		c.JSON(http.StatusNotFound, gin.H{
			"error": "track not found",
		})
		return
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "file access error",
		})
		return
	}
	fileSize := fileInfo.Size()

	c.Header("Content-Type", services.ContentType(track.Path))
	c.Header("Accept-Ranges", "bytes")
	c.Header("Cache-Control", "public, max-age=3600")

	rangeHeader := c.GetHeader("Range")
	if rangeHeader != "" {
		h.serveRange(c, file, fileSize, rangeHeader)
		return
	}

	// Stream the entire file
	c.Header("Content-Length", strconv.FormatInt(fileSize, 10))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, file); err != nil {
		log.Printf("Error streaming track %s: %v", track.ID, err)
	}
}

// serveRange answers a byte-range request with 206 and the exact span,
// or 416 with "Content-Range: bytes */<size>" when the range can't be
// satisfied.
func (h *StreamHandler) serveRange(c *gin.Context, file *os.File, fileSize int64, rangeHeader string) {
	start, end, err := parseByteRange(rangeHeader, fileSize)
	if err != nil {
		c.Header("Content-Range", fmt.Sprintf("bytes */%d", fileSize))
		c.Status(http.StatusRequestedRangeNotSatisfiable)
		return
	}

	if _, err := file.Seek(start, io.SeekStart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to seek file",
		})
		return
	}

	contentLength := end - start + 1
	c.Header("Content-Length", strconv.FormatInt(contentLength, 10))
	c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, fileSize))
	c.Status(http.StatusPartialContent)

	if _, err := io.CopyN(c.Writer, file, contentLength); err != nil {
		log.Printf("Error streaming range %d-%d: %v", start, end, err)
	}
}

// parseByteRange parses a "bytes=start-end" header against a file of
// the given size. Supported forms: "bytes=a-b", "bytes=a-" (to EOF) and
// "bytes=-n" (last n bytes). Only the first range of a multi-range
// request is honored.
func parseByteRange(header string, size int64) (start, end int64, err error) {
	if !strings.HasPrefix(header, "bytes=") {
		return 0, 0, errMalformedRange
	}

	spec := strings.TrimPrefix(header, "bytes=")
	if i := strings.Index(spec, ","); i >= 0 {
		spec = spec[:i]
	}

	dash := strings.Index(spec, "-")
	if dash < 0 {
		return 0, 0, errMalformedRange
	}
	startStr, endStr := spec[:dash], spec[dash+1:]

	if startStr == "" {
		// Suffix form: last n bytes.
		n, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || n <= 0 {
			return 0, 0, errUnsatisfiableRange
		}
		if n > size {
			n = size
		}
		if n == 0 {
			return 0, 0, errUnsatisfiableRange
		}
		return size - n, size - 1, nil
	}

	start, err = strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return 0, 0, errMalformedRange
	}
	if start >= size {
		return 0, 0, errUnsatisfiableRange
	}

	if endStr == "" {
		return start, size - 1, nil
	}

	end, err = strconv.ParseInt(endStr, 10, 64)
	if err != nil || end < start {
		return 0, 0, errMalformedRange
	}
	if end >= size {
		end = size - 1
	}
	return start, end, nil
}
