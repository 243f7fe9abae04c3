package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"hifi/services"
	"hifi/websocket"
)

// fakeReader serves canned tags keyed by file basename.
type fakeReader struct {
	tags map[string]*services.Tags
}

func (f *fakeReader) ReadTags(path string) (*services.Tags, error) {
	if t, ok := f.tags[filepath.Base(path)]; ok {
		copied := *t
		return &copied, nil
	}
	return &services.Tags{}, nil
}

// trackFile describes one audio file to place in the test library.
type trackFile struct {
	name    string
	content []byte
	tags    *services.Tags
}

// newTestRouter builds a library over a temp dir of trackFiles, scans
// it, and wires the full route table. The returned id func resolves a
// basename to its track id.
func newTestRouter(t *testing.T, files ...trackFile) (*gin.Engine, *services.Library, func(name string) string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	reader := &fakeReader{tags: make(map[string]*services.Tags)}
	for _, f := range files {
		content := f.content
		if content == nil {
			content = []byte("x")
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, f.name), content, 0644))
		if f.tags != nil {
			reader.tags[f.name] = f.tags
		}
	}

	library := services.NewLibrary(dir, reader)
	_, err := library.Scan(nil)
	require.NoError(t, err)

	hub := websocket.NewHub()
	go hub.Run()
	library.SetNotifier(hub)

	searchHandler := NewSearchHandler(library)
	streamHandler := NewStreamHandler(library)
	detailsHandler := NewDetailsHandler(library)
	rescanHandler := NewRescanHandler(library, hub)
	healthHandler := NewHealthHandler(library)

	r := gin.New()
	r.GET("/search", searchHandler.Search)
	r.GET("/listen", streamHandler.Listen)
	r.GET("/details", detailsHandler.Details)
	r.GET("/health", healthHandler.HealthCheck)
	r.GET("/api/status", healthHandler.APIStatus)
	r.POST("/api/rescan", rescanHandler.StartRescan)
	r.GET("/api/rescan", rescanHandler.GetRescan)

	id := func(name string) string {
		return services.TrackID(filepath.Join(dir, name))
	}
	return r, library, id
}

func doRequest(r *gin.Engine, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	return doRequest(r, http.MethodGet, target, nil)
}
