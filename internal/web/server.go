// Package web serves a read-only status view over the output directory: the
// latest process report, per-table row counts and a health check. It never
// writes; the pipeline owns the files.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/uidai-ingest/internal/store"
)

// Server exposes the status API for one output directory.
type Server struct {
	outputDir  string
	log        *zap.Logger
	httpServer *http.Server
	router     *mux.Router
}

// NewServer creates a status server listening on addr.
func NewServer(addr, outputDir string, log *zap.Logger) *Server {
	s := &Server{outputDir: outputDir, log: log}
	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/report", s.handleReport).Methods("GET")
	api.HandleFunc("/tables", s.handleTables).Methods("GET")
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("status server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		s.log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReport serves the latest process report verbatim.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(s.outputDir, "process_report.txt")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		http.Error(w, "no report yet", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("reading report", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(data)
}

// TableInfo is one output table in the /api/tables listing.
type TableInfo struct {
	Path string `json:"path"`
	Rows int    `json:"rows"`
}

// handleTables lists every table file with its header-excluded row count.
func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	var tables []TableInfo
	err := filepath.WalkDir(s.outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".csv") {
			return nil
		}
		n, err := store.CountRows(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.outputDir, path)
		if err != nil {
			rel = path
		}
		tables = append(tables, TableInfo{Path: rel, Rows: n})
		return nil
	})
	if err != nil {
		s.log.Error("listing tables", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if tables == nil {
		tables = []TableInfo{}
	}
	writeJSON(w, http.StatusOK, tables)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
