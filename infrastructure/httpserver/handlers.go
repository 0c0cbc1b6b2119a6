package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type sendRequest struct {
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
}

type postRequest struct {
	Thread  string `json:"thread"`
	Content string `json:"content"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	token, err := s.authService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.log.Info("User registered", "username", req.Username)
	writeJSON(w, http.StatusCreated, tokenResponse{Token: string(token)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	token, err := s.authService.Login(req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: string(token)})
}

// handleSend is the direct-send path: recipient by ID, thread resolution,
// notification enqueue.
func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	message, err := s.messageService.SendDirect(r.Context(), callerID(r), req.Recipient, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resolver := newUserResolver(s.users)
	writeJSON(w, http.StatusCreated, resolver.message(message))
}

// handlePostMessage appends to an existing thread; no notification here.
func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	threadID, err := uuid.Parse(req.Thread)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid thread id")
		return
	}
	message, err := s.messageService.PostToThread(r.Context(), callerID(r), threadID, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resolver := newUserResolver(s.users)
	writeJSON(w, http.StatusCreated, resolver.message(message))
}

// handleListMessages serves the caller's messages across all their threads,
// through the read-through cache.
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.messageService.GetMessagesForUser(callerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resolver := newUserResolver(s.users)
	writeJSON(w, http.StatusOK, resolver.messages(messages))
}

func (s *Server) handleListThreads(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r)
	threads, err := s.messageService.ListThreadsForUser(userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resolver := newUserResolver(s.users)
	payload := make([]threadJSON, 0, len(threads))
	for _, thread := range threads {
		messages, err := s.messages.GetMessagesByThread(thread.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		payload = append(payload, resolver.thread(thread, messages))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	var threadID *uuid.UUID
	if raw := r.URL.Query().Get("thread_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid thread id")
			return
		}
		threadID = &id
	}

	messages, err := s.searchService.Search(callerID(r), query, threadID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resolver := newUserResolver(s.users)
	writeJSON(w, http.StatusOK, resolver.messages(messages))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.monitor.Snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "stats unavailable")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
