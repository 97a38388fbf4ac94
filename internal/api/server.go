// Package api exposes the assistant over HTTP: generation, document
// extraction, the committed task list, health and metrics.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/planassist/internal/extract"
	"github.com/example/planassist/internal/generate"
	"github.com/example/planassist/internal/metrics"
	"github.com/example/planassist/internal/models"
	"github.com/example/planassist/internal/store"
)

// Generator produces responses for generation requests.
type Generator interface {
	Generate(ctx context.Context, req generate.Request) (models.GenerateResponse, error)
}

// Server wires the pipeline components to HTTP routes.
type Server struct {
	Generator Generator
	Extractor *extract.Pipeline
	Tasks     *store.Memory
	Metrics   *metrics.Recorder
	Logger    *slog.Logger
}

// RegisterRoutes attaches all handlers to mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if s.Metrics != nil {
		mux.Handle("/metrics", s.Metrics.Handler())
	}
	mux.HandleFunc("/api/generate-tasks", s.instrument("/api/generate-tasks", s.handleGenerateTasks))
	mux.HandleFunc("/api/ocr", s.instrument("/api/ocr", s.handleOCR))
	mux.HandleFunc("/api/tasks", s.instrument("/api/tasks", s.handleTasks))
	mux.HandleFunc("/api/tasks/complete/", s.instrument("/api/tasks/complete/", s.handleCompleteTask))
}

// handleGenerateTasks runs one generation request through the invocation
// chain. Upstream failure never maps to an error status: degraded results
// come back as 200 with mockResponse set. Only a structurally invalid
// request is a 400.
func (s *Server) handleGenerateTasks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Mode == "" {
		req.Mode = models.ModePlanning
	}

	start := time.Now()
	if s.Metrics != nil {
		s.Metrics.AIRequest(string(req.Mode))
	}
	resp, err := s.Generator.Generate(r.Context(), generate.Request{
		Prompt:     req.Prompt,
		Credential: req.APIKey,
		Mode:       req.Mode,
	})
	if s.Metrics != nil {
		s.Metrics.AIResponse(string(req.Mode), time.Since(start))
	}
	if err != nil {
		if errors.Is(err, generate.ErrEmptyPrompt) {
			writeError(w, http.StatusBadRequest, "Prompt is required")
			return
		}
		s.logger().Error("generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate response")
		return
	}
	respondJSON(w, resp)
}

// handleOCR accepts one multipart file and returns its extracted text.
func (s *Server) handleOCR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	// a little headroom over the file ceiling for multipart framing
	r.Body = http.MaxBytesReader(w, r.Body, extract.MaxFileSize+1<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	start := time.Now()
	if s.Metrics != nil {
		s.Metrics.AIRequest(string(models.ModeDocument))
	}
	text, err := s.Extractor.ExtractText(r.Context(), header.Filename, data)
	if s.Metrics != nil {
		s.Metrics.AIResponse(string(models.ModeDocument), time.Since(start))
	}
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupportedFileType),
			errors.Is(err, extract.ErrEmptyFile),
			errors.Is(err, extract.ErrFileTooLarge),
			errors.Is(err, extract.ErrNoFile):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger().Error("extraction failed", "file", header.Filename, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to process file")
		}
		return
	}
	respondJSON(w, models.ExtractResponse{Text: text})
}

// handleTasks serves the committed task list and accepts explicit commits.
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondJSON(w, s.Tasks.List())
	case http.MethodPost:
		var req struct {
			Tasks []models.Task `json:"tasks"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Tasks) == 0 {
			writeError(w, http.StatusBadRequest, "tasks is required")
			return
		}
		s.Tasks.Add(req.Tasks)
		respondJSON(w, map[string]int{"added": len(req.Tasks)})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleCompleteTask marks one committed task done.
// path: /api/tasks/complete/{id}
func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/tasks/complete/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "task id is required")
		return
	}
	if !s.Tasks.Complete(id) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// instrument wraps a handler with per-route request accounting.
func (s *Server) instrument(path string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)
		if s.Metrics != nil {
			s.Metrics.HTTPRequest(r.Method, path, sw.status, time.Since(start))
		}
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
