package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hifi/services"
	"hifi/types"
)

func waitForCompletion(t *testing.T, library *services.Library) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		if job := library.LastJob(); job != nil && job.Status != types.ScanStatusRunning {
			return
		}
		select {
		case <-deadline:
			t.Fatal("rescan did not finish")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestStartRescan(t *testing.T) {
	r, library, _ := newTestRouter(t, trackFile{name: "a.mp3"})

	w := doRequest(r, http.MethodPost, "/api/rescan", nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	var body struct {
		Message string        `json:"message"`
		Job     types.ScanJob `json:"job"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "rescan started", body.Message)
	assert.NotEmpty(t, body.Job.ID)
	assert.Equal(t, types.ScanStatusRunning, body.Job.Status)

	waitForCompletion(t, library)
}

func TestRescanPicksUpNewFiles(t *testing.T) {
	r, library, id := newTestRouter(t, trackFile{name: "a.mp3"})

	require.NoError(t, os.WriteFile(filepath.Join(library.Root(), "b.mp3"), []byte("x"), 0644))

	w := doRequest(r, http.MethodPost, "/api/rescan", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	waitForCompletion(t, library)

	sw := get(r, "/search")
	var resp types.SearchResponse
	require.NoError(t, json.Unmarshal(sw.Body.Bytes(), &resp))
	assert.Len(t, resp.Results, 2)

	// the newcomer is now what whatsnew streams
	lw := get(r, "/listen?id=whatsnew")
	require.Equal(t, http.StatusOK, lw.Code)
	dw := get(r, "/details?id="+id("b.mp3"))
	assert.Equal(t, http.StatusOK, dw.Code)
}

func TestGetRescanBeforeAnyRun(t *testing.T) {
	r, _, _ := newTestRouter(t, trackFile{name: "a.mp3"})

	w := get(r, "/api/rescan")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRescanAfterRun(t *testing.T) {
	r, library, _ := newTestRouter(t, trackFile{name: "a.mp3"}, trackFile{name: "b.mp3"})

	w := doRequest(r, http.MethodPost, "/api/rescan", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	waitForCompletion(t, library)

	w = get(r, "/api/rescan")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Job types.ScanJob `json:"job"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, types.ScanStatusCompleted, body.Job.Status)
	assert.Equal(t, 2, body.Job.Scanned)
	assert.NotNil(t, body.Job.CompletedAt)
}

// readTagsFunc adapts a function to the TagReader interface.
type readTagsFunc func(path string) (*services.Tags, error)

func (f readTagsFunc) ReadTags(path string) (*services.Tags, error) { return f(path) }

func TestConcurrentRescanRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.mp3"), []byte("x"), 0644))

	// the reader parks inside the scan until released, holding the
	// first rescan open while the second request arrives
	entered := make(chan struct{}, 4)
	release := make(chan struct{})
	library := services.NewLibrary(dir, readTagsFunc(func(path string) (*services.Tags, error) {
		entered <- struct{}{}
		<-release
		return &services.Tags{}, nil
	}))

	handler := NewRescanHandler(library, nil)
	r := gin.New()
	r.POST("/api/rescan", handler.StartRescan)

	w := doRequest(r, http.MethodPost, "/api/rescan", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	<-entered

	w = doRequest(r, http.MethodPost, "/api/rescan", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "rescan already in progress")

	close(release)
	waitForCompletion(t, library)
}
