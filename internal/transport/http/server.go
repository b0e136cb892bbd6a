package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/reshetovitsme/feedview/internal/modules/feed/controller"
	"github.com/reshetovitsme/feedview/internal/modules/feed/domain"
	"github.com/reshetovitsme/feedview/internal/modules/feed/render"
	feedService "github.com/reshetovitsme/feedview/internal/modules/feed/service"
	"github.com/reshetovitsme/feedview/internal/shared/config"
	sloghttp "github.com/samber/slog-http"
)

// Server serves the feed page and its controls. There is one Region per
// process: every visitor sees the same content, and a load started by one
// visitor replaces what all of them see.
type Server struct {
	cfg         *config.Config
	feedService *feedService.Service
	controller  *controller.Controller
	region      *render.Region
	logger      *slog.Logger

	mu     sync.Mutex
	server *http.Server
}

// New creates a new HTTP server
func New(cfg *config.Config, feedService *feedService.Service, controller *controller.Controller, region *render.Region) *Server {
	return &Server{
		cfg:         cfg,
		feedService: feedService,
		controller:  controller,
		region:      region,
		logger:      slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Handler returns the routed handler wrapped in logging and recovery middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST /load", s.handleLoad)
	mux.HandleFunc("GET /content", s.handleContent)
	mux.HandleFunc("GET /rss", s.handleRSS)
	mux.HandleFunc("GET /atom", s.handleAtom)
	mux.HandleFunc("GET /health", s.handleHealth)

	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)
	return handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("Feed server starting", "addr", addr)

	s.mu.Lock()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	server := s.server
	s.mu.Unlock()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server if it was started
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>RSS Reader</title>
    {{- if .Pending}}
    <meta http-equiv="refresh" content="1">
    {{- end}}
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        article { border-bottom: 1px solid #e8e8e8; padding: 10px 0; }
        .notice { background: #f5f5f5; padding: 15px; border-radius: 5px; }
        code { background: #e8e8e8; padding: 2px 6px; border-radius: 3px; }
    </style>
</head>
<body>
    <h1>RSS Reader</h1>
    <form method="post" action="/load">
        <input type="text" id="rss-input" name="rss_url" placeholder="{{.DefaultFeed}}">
        <button type="submit" id="add-feed">Load feed</button>
    </form>
    {{- if .Source}}
    <p>Showing <code>{{.Source}}</code></p>
    {{- end}}
    <section id="content" data-state="{{.State}}">{{.Content}}</section>
    <p><a href="/rss">RSS</a> | <a href="/atom">Atom</a> | <a href="/health">Health Check</a></p>
</body>
</html>`))

type page struct {
	DefaultFeed string
	Source      string
	State       string
	Pending     bool
	Content     template.HTML
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	view := s.region.Snapshot()

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, page{
		DefaultFeed: s.feedService.DefaultFeed().String(),
		Source:      view.Source.String(),
		State:       view.State.String(),
		Pending:     view.State == domain.RenderStatePending,
		Content:     view.HTML(),
	})
	if err != nil {
		s.logger.Error("Error rendering page", "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	if err := s.controller.Activate(r.PostFormValue("rss_url")); err != nil {
		s.logger.Error("Error activating feed control", "error", err)
		http.Error(w, "Feed loader is not running", http.StatusServiceUnavailable)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	view := s.region.Snapshot()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Render-State", view.State.String())
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(view.HTML()))
}

func (s *Server) handleRSS(w http.ResponseWriter, r *http.Request) {
	feed := s.feedService.GenerateFeed(s.region.Snapshot(), baseURL(r))

	rss, err := feed.ToRss()
	if err != nil {
		s.logger.Error("Error converting feed to RSS", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rss))
}

func (s *Server) handleAtom(w http.ResponseWriter, r *http.Request) {
	feed := s.feedService.GenerateFeed(s.region.Snapshot(), baseURL(r))

	atom, err := feed.ToAtom()
	if err != nil {
		s.logger.Error("Error converting feed to Atom", "error", err)
		http.Error(w, "Failed to generate Atom", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(atom))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func baseURL(r *http.Request) string {
	return fmt.Sprintf("%s://%s", getScheme(r), r.Host)
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
