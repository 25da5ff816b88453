package server

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// MediaHandler serves the built media directory under /media/, matching the
// paths recorded in the data file.
type MediaHandler struct {
	dir http.Dir
}

// NewMediaHandler creates a handler serving files from the given media directory.
func NewMediaHandler(dir string) *MediaHandler {
	return &MediaHandler{dir: http.Dir(dir)}
}

// Routes returns the HTTP routes this handler serves.
func (h *MediaHandler) Routes() []string {
	return []string{"/media/"}
}

// ServeHTTP serves a media file, stripping the /media/ prefix.
func (h *MediaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	http.StripPrefix("/media/", http.FileServer(h.dir)).ServeHTTP(w, r)
}

// DataHandler serves the music data JSON file.
type DataHandler struct {
	path string
}

// NewDataHandler creates a handler serving the data file at path.
func NewDataHandler(path string) *DataHandler {
	return &DataHandler{path: path}
}

// Routes returns the HTTP routes this handler serves.
func (h *DataHandler) Routes() []string {
	return []string{"/data/music-data.json"}
}

// ServeHTTP serves the data file, reading it fresh on every request so a
// rebuild shows up without restarting the server.
func (h *DataHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, err := os.ReadFile(h.path)
	if err != nil {
		http.Error(w, "music data not built", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(raw)
}

// HealthHandler reports whether the data file and media directory exist.
type HealthHandler struct {
	dataPath string
	mediaDir string
}

// NewHealthHandler creates the health endpoint for the preview server.
func NewHealthHandler(dataPath, mediaDir string) *HealthHandler {
	return &HealthHandler{dataPath: dataPath, mediaDir: mediaDir}
}

// Routes returns the HTTP routes this handler serves.
func (h *HealthHandler) Routes() []string {
	return []string{"/health"}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := `{"status": "ok"}`
	if _, err := os.Stat(h.dataPath); err != nil {
		status = http.StatusServiceUnavailable
		body = `{"status": "no data file"}`
	} else if _, err := os.Stat(filepath.Clean(h.mediaDir)); err != nil {
		status = http.StatusServiceUnavailable
		body = `{"status": "no media directory"}`
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// RequestLogger returns middleware logging each request's method, path,
// and duration.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		})
	}
}

// NewPreviewRouter assembles the preview server's routes.
func NewPreviewRouter(dataPath, mediaDir string, logger *log.Logger) *BasicRouter {
	router := NewBasicRouter()
	if logger != nil {
		router.Use(RequestLogger(logger))
	}
	router.Handler(NewMediaHandler(mediaDir))
	router.Handler(NewDataHandler(dataPath))
	router.Handler(NewHealthHandler(dataPath, mediaDir))
	return router
}
