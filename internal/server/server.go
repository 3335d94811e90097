package server

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/livetemplate/tourguide"
	"github.com/livetemplate/tourguide/internal/assets"
	"github.com/livetemplate/tourguide/internal/config"
)

// Server is the tourguide server. It serves one landing page and runs a
// tour session for every websocket connection.
type Server struct {
	rootDir string
	config  *config.Config

	mu   sync.RWMutex
	page *tourguide.Page

	sessions map[*Session]bool
	connMu   sync.RWMutex
	watcher  *Watcher
}

// New creates a new server for the given root directory.
func New(rootDir string, cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		rootDir:  rootDir,
		config:   cfg,
		sessions: make(map[*Session]bool),
	}
}

// Load parses the landing page and applies the configured tour overrides.
func (s *Server) Load() error {
	page, err := tourguide.ParseFile(s.config.PagePath(s.rootDir))
	if err != nil {
		return err
	}
	s.config.Tour.ApplyTour(&page.Tour)

	if page.Title == "" {
		page.Title = s.config.Title
	}

	s.mu.Lock()
	s.page = page
	s.mu.Unlock()
	return nil
}

// Page returns the currently loaded page, or nil before Load.
func (s *Server) Page() *tourguide.Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

// Handler returns the server wrapped in its HTTP middleware.
func (s *Server) Handler() http.Handler {
	return WithCompression(SecurityHeadersMiddleware()(s))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/ws":
		s.serveWebSocket(w, r)
	case r.URL.Path == "/healthz":
		s.serveHealth(w, r)
	case strings.HasPrefix(r.URL.Path, "/assets/"):
		s.serveAsset(w, r)
	case r.URL.Path == "/":
		s.servePage(w, r)
	default:
		http.NotFound(w, r)
	}
}

// assetTypes lists the embedded client files that may be served.
var assetTypes = map[string]string{
	assets.ClientJS:  "application/javascript",
	assets.ClientCSS: "text/css",
}

// serveAsset serves embedded client assets.
func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/assets/")

	contentType, ok := assetTypes[name]
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", contentType)
	http.ServeFileFS(w, r, assets.ClientFS(), name)
}

func (s *Server) serveHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":   "ok",
		"sessions": s.SessionCount(),
	}
	if page := s.Page(); page != nil {
		status["page"] = page.ID
		status["steps"] = len(page.Steps)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		log.Printf("[Server] Failed to encode health status: %v", err)
	}
}

// servePage serves the landing page with the tour client attached.
func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	page := s.Page()
	if page == nil {
		http.Error(w, "No page loaded", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderPage(w, page); err != nil {
		log.Printf("[Server] Failed to render page %s: %v", page.ID, err)
	}
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <link rel="stylesheet" href="/assets/tour.css">
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            line-height: 1.7;
            max-width: 900px;
            margin: 0 auto;
            padding: 2rem 1.5rem;
            color: #333;
        }
        .tour-launch {
            position: fixed;
            right: 1.5rem;
            top: 1.5rem;
            padding: 0.5rem 1rem;
            border: none;
            border-radius: 6px;
            background: #4f46e5;
            color: #fff;
            cursor: pointer;
        }
        [data-tour-active="true"] ~ .tour-launch { display: none; }
    </style>
</head>
<body>
<main class="page-content">
{{.Body}}
</main>
<div id="tour-root" data-ws-path="/ws" data-highlight-class="{{.HighlightClass}}" data-tour-active="false"></div>
{{- if .HasTour}}
<button type="button" class="tour-launch" data-tour-action="start">Take the tour</button>
{{- end}}
<script src="/assets/tour.js"></script>
</body>
</html>
`))

type pageData struct {
	Title          string
	Body           template.HTML
	HighlightClass string
	HasTour        bool
}

// renderPage renders a page to HTML.
func (s *Server) renderPage(w http.ResponseWriter, page *tourguide.Page) error {
	data := pageData{
		Title:          page.Title,
		Body:           template.HTML(page.StaticHTML),
		HighlightClass: page.Tour.HighlightClass,
		HasTour:        len(page.Steps) > 0,
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute page template: %w", err)
	}
	return nil
}

// RegisterSession adds a session to the tracked sessions.
func (s *Server) RegisterSession(sess *Session) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	s.sessions[sess] = true
	if s.config.Server.Debug {
		log.Printf("[Server] Session %s registered: %d active sessions", sess.ID(), len(s.sessions))
	}
}

// UnregisterSession removes a session from the tracked sessions.
func (s *Server) UnregisterSession(sess *Session) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	delete(s.sessions, sess)
	if s.config.Server.Debug {
		log.Printf("[Server] Session %s unregistered: %d active sessions", sess.ID(), len(s.sessions))
	}
}

// SessionCount returns the number of open tour sessions.
func (s *Server) SessionCount() int {
	s.connMu.RLock()
	defer s.connMu.RUnlock()
	return len(s.sessions)
}

// BroadcastReload tells every connected client to reload the page.
func (s *Server) BroadcastReload(filePath string) {
	s.connMu.RLock()
	defer s.connMu.RUnlock()

	if len(s.sessions) == 0 {
		return
	}

	data, err := json.Marshal(ReloadMessage{Action: "reload", FilePath: filePath})
	if err != nil {
		log.Printf("[Server] Failed to marshal reload message: %v", err)
		return
	}

	log.Printf("[Server] Broadcasting reload for %s to %d sessions", filePath, len(s.sessions))

	for sess := range s.sessions {
		sess.enqueue(data)
	}
}

// EnableWatch enables file watching for live reload.
func (s *Server) EnableWatch() error {
	watcher, err := NewWatcher(s.rootDir, func(filePath string) error {
		log.Printf("[Watch] File changed: %s", filePath)

		if err := s.Load(); err != nil {
			return fmt.Errorf("failed to reload page: %w", err)
		}

		s.BroadcastReload(filePath)
		return nil
	}, s.config.Server.Debug)

	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	s.watcher = watcher
	s.watcher.Start()

	log.Printf("[Watch] File watcher started for %s", s.rootDir)
	return nil
}

// StopWatch stops the file watcher if it's running.
func (s *Server) StopWatch() error {
	if s.watcher != nil {
		return s.watcher.Stop()
	}
	return nil
}
