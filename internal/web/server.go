package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"StartupPredictor/internal/infrastructure/export"
	"StartupPredictor/internal/usecase"
)

//go:embed templates/*.html static/*
var embeddedFiles embed.FS

const defaultMaxUpload = 10 << 20

// Options tunes request handling.
type Options struct {
	MaxUploadBytes int64
	HistoryLimit   int
}

// Server renders the prediction pages and forwards submissions to the service.
type Server struct {
	router    *chi.Mux
	service   *usecase.Service
	exporters *export.Registry
	templates *template.Template
	logger    *slog.Logger
	opts      Options
}

// NewServer parses templates, verifies the DOM contract and mounts routes.
func NewServer(service *usecase.Service, exporters *export.Registry, logger *slog.Logger, opts Options) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("web: service is required")
	}
	if exporters == nil {
		exporters = export.DefaultRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUpload
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 20
	}

	templates, err := template.New("").ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		router:    chi.NewRouter(),
		service:   service,
		exporters: exporters,
		templates: templates,
		logger:    logger,
		opts:      opts,
	}

	if err := s.verifyContract(); err != nil {
		return nil, err
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(sessions)

	staticFS, _ := fs.Sub(embeddedFiles, "static")
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/manual", s.handleManualForm)
	s.router.Post("/manual", s.handleManualSubmit)
	s.router.Get("/upload", s.handleUploadForm)
	s.router.Post("/upload", s.handleUploadSubmit)
	s.router.Get("/download/{id}/{format}", s.handleDownload)
	s.router.Get("/history", s.handleHistory)
	s.router.Get("/healthz", s.handleHealth)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("render template", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
