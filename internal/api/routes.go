package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/hub-provision/hps/internal/auth"
	"github.com/hub-provision/hps/internal/signup"
)

// RegisterRoutes registers all v1 endpoints.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	apiV1 := "/api/v1"

	// Health endpoint (no auth required)
	mux.HandleFunc(apiV1+"/health", s.handleHealth)

	if s.authMiddleware == nil {
		mux.HandleFunc(apiV1+"/orgs", s.handleProvision)
		mux.HandleFunc(apiV1+"/hubs", s.handleHubs)
		mux.HandleFunc(apiV1+"/hubs/select", s.handleSelectHub)
		mux.HandleFunc(apiV1+"/events", s.handleEvents)
		return
	}

	requireAuth := s.authMiddleware.RequireAuth
	mux.HandleFunc(apiV1+"/orgs", requireAuth(s.authMiddleware.RequireScope(auth.ScopeProvision)(s.handleProvision)))
	mux.HandleFunc(apiV1+"/hubs", requireAuth(s.authMiddleware.RequireScope(auth.ScopeRead)(s.handleHubs)))
	mux.HandleFunc(apiV1+"/hubs/select", requireAuth(s.authMiddleware.RequireScope(auth.ScopeProvision)(s.handleSelectHub)))
	mux.HandleFunc(apiV1+"/events", requireAuth(s.authMiddleware.RequireScope(auth.ScopeRead)(s.handleEvents)))
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET method is allowed", nil)
		return
	}

	WriteSuccess(w, map[string]any{
		"status":        "ok",
		"uptimeSeconds": int64(time.Since(s.startTime).Seconds()),
	})
}

// handleProvision handles POST /orgs
func (s *Server) handleProvision(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST method is allowed", nil)
		return
	}

	var req signup.ScratchOrgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Malformed request body", nil)
		return
	}

	org := s.hubs.GetActiveOrg()
	if org == nil {
		WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "No hub org is configured", nil)
		return
	}

	success, err := s.provisioner.Create(r.Context(), org.Conn(), &req, s.generator)
	if err != nil {
		statusCode, body := ToAPIError(err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(statusCode)
		w.Write(body)
		return
	}

	s.hubs.MarkUsed(org.Alias)
	WriteSuccess(w, map[string]any{
		"success":        success,
		"hub":            org.Alias,
		"signupUsername": req.SignupUsername,
	})
}

// handleHubs handles GET /hubs
func (s *Server) handleHubs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET method is allowed", nil)
		return
	}

	WriteSuccess(w, s.hubs.ListOrgs())
}

// handleSelectHub handles POST /hubs/select
func (s *Server) handleSelectHub(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST method is allowed", nil)
		return
	}

	var body struct {
		Alias string `json:"alias"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Alias == "" {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Missing or malformed alias", nil)
		return
	}

	if err := s.hubs.SetActive(body.Alias); err != nil {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("Hub org %s not found", body.Alias), nil)
		return
	}

	WriteSuccess(w, map[string]any{"activeAlias": body.Alias})
}

// handleEvents handles GET /events as an SSE stream. Last-Event-ID resumes
// from the buffered history.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET method is allowed", nil)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "Streaming not supported", nil)
		return
	}

	var lastID int64
	if header := r.Header.Get("Last-Event-ID"); header != "" {
		if parsed, err := strconv.ParseInt(header, 10, 64); err == nil {
			lastID = parsed
		}
	}

	ch, cancel := s.eventStream.Subscribe(lastID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case evt, open := <-ch:
			if !open {
				return
			}
			fmt.Fprint(w, evt.SSE())
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
