package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/docqa-engine/backend/internal/engine"
	"github.com/docqa-engine/backend/internal/search"
)

type Server struct {
	Engine *engine.Engine
	Logger *logrus.Entry
	Router *http.ServeMux
}

func NewServer(eng *engine.Engine, logger *logrus.Entry) *Server {
	s := &Server{
		Engine: eng,
		Logger: logger,
		Router: http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.HandleFunc("/api/v1/reload", s.handleReload)
	s.Router.HandleFunc("/api/v1/search", s.handleSearch)
	s.Router.HandleFunc("/api/v1/ask", s.handleAsk)
	s.Router.HandleFunc("/api/v1/status", s.handleStatus)
}

func (s *Server) Start(addr string) error {
	s.Logger.Infof("Starting API Server on %s", addr)
	return http.ListenAndServe(addr, s.Router)
}

// Responses
type ErrorResponse struct {
	Error string `json:"error"`
}

type SearchResponse struct {
	Query   string          `json:"query"`
	Results []search.Result `json:"results"`
}

type AskResponse struct {
	Question string          `json:"question"`
	Answer   string          `json:"answer"`
	Sources  []search.Result `json:"sources"`
}

type ReloadResponse struct {
	Status string       `json:"status"`
	Stats  engine.Stats `json:"stats"`
}

// Handlers

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.Engine.Reload(r.Context()); err != nil {
		s.Logger.WithError(err).Error("Reload failed")
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	jsonResponse(w, http.StatusOK, ReloadResponse{
		Status: "reloaded",
		Stats:  s.Engine.Status(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Query 'q' is required"})
		return
	}

	results, err := s.Engine.Retrieve(query)
	if err != nil {
		if errors.Is(err, search.ErrNoIndex) {
			jsonResponse(w, http.StatusOK, SearchResponse{Query: query, Results: []search.Result{}})
			return
		}
		if errors.Is(err, search.ErrInvalidConfig) {
			jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	if results == nil {
		results = []search.Result{}
	}
	jsonResponse(w, http.StatusOK, SearchResponse{Query: query, Results: results})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
		return
	}
	if req.Question == "" {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Question is required"})
		return
	}

	answer, sources, err := s.Engine.Answer(r.Context(), req.Question)
	if err != nil {
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	if sources == nil {
		sources = []search.Result{}
	}
	jsonResponse(w, http.StatusOK, AskResponse{
		Question: req.Question,
		Answer:   answer,
		Sources:  sources,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jsonResponse(w, http.StatusOK, s.Engine.Status())
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
