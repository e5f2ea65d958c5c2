// Package server is the HTTP surface of the tutor: turn submission,
// document content, and the per-conversation annotation collection.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rauleduardorivassanz/ai-tutor/annotation"
	"github.com/rauleduardorivassanz/ai-tutor/document"
	"github.com/rauleduardorivassanz/ai-tutor/tutor"
)

// anonymousUser is who callers become when no api_tokens are configured.
const anonymousUser = "local"

const chatTimeout = 60 * time.Second

type Server struct {
	agent  *tutor.Agent
	docs   *document.Library
	tokens map[string]string // bearer token -> user
	logger *log.Logger
}

func New(agent *tutor.Agent, docs *document.Library, tokens map[string]string, logger *log.Logger) (*Server, error) {
	if agent == nil {
		return nil, errors.New("tutor agent required")
	}
	if docs == nil {
		return nil, errors.New("document library required")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{agent: agent, docs: docs, tokens: tokens, logger: logger}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/documents", s.handleDocuments)
	mux.HandleFunc("/api/documents/", s.handleDocumentByID)
	mux.HandleFunc("/api/conversations/", s.handleConversationByID)
	return s.logMiddleware(mux)
}

// --- Handlers ---

type chatReq struct {
	DocumentID     string `json:"document_id"`
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type chatResp struct {
	TurnID         string                  `json:"turn_id"`
	ConversationID string                  `json:"conversation_id"`
	Content        string                  `json:"content"`
	ContentHTML    string                  `json:"content_html,omitempty"`
	PageNumber     *int                    `json:"page_number"`
	Annotations    []annotation.Annotation `json:"annotations"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	user, ok := s.authUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req chatReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.DocumentID == "" || strings.TrimSpace(req.Message) == "" {
		http.Error(w, "document_id and message are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), chatTimeout)
	defer cancel()
	reply, err := s.agent.Respond(ctx, tutor.Request{
		DocumentID:     req.DocumentID,
		User:           user,
		Message:        req.Message,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		s.writeDocError(w, err)
		return
	}

	resp := chatResp{
		TurnID:         reply.TurnID,
		ConversationID: reply.ConversationID,
		Content:        reply.Content,
		Annotations:    reply.Annotations,
	}
	if reply.Page > 0 {
		page := reply.Page
		resp.PageNumber = &page
	}
	if html, err := markdownToHTML(reply.Content); err == nil {
		resp.ContentHTML = html
	} else {
		s.logger.Printf("[http] markdown render failed: %v", err)
	}
	writeJSON(w, resp)
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	user, ok := s.authUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, map[string]any{"documents": s.docs.List(user)})
}

func (s *Server) handleDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	user, ok := s.authUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/documents/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	switch sub {
	case "":
		doc, err := s.docs.Get(id, user)
		if err != nil {
			s.writeDocError(w, err)
			return
		}
		writeJSON(w, doc)
	case "content":
		content, err := s.docs.Content(id, user)
		if err != nil {
			s.writeDocError(w, err)
			return
		}
		writeJSON(w, content)
	default:
		http.NotFound(w, r)
	}
}

// handleConversationByID serves /api/conversations/{id}/annotations:
// GET lists annotations (filtered with ?page=N), DELETE removes one
// annotation (?id=...) or clears a page (?page=N).
func (s *Server) handleConversationByID(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/conversations/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" || sub != "annotations" {
		http.NotFound(w, r)
		return
	}
	conv, ok := s.agent.Conversations().Get(id, user)
	if !ok {
		http.Error(w, "conversation not found", http.StatusNotFound)
		return
	}
	store := conv.Annotations()

	switch r.Method {
	case http.MethodGet:
		if page, ok := pageParam(r); ok {
			writeJSON(w, map[string]any{"annotations": store.FilterForPage(page)})
			return
		}
		writeJSON(w, map[string]any{"annotations": store.All()})
	case http.MethodDelete:
		if annID := r.URL.Query().Get("id"); annID != "" {
			if !store.Remove(annID) {
				http.Error(w, "annotation not found", http.StatusNotFound)
				return
			}
			writeJSON(w, map[string]any{"removed": annID})
			return
		}
		if page, ok := pageParam(r); ok {
			store.ClearPage(page)
			writeJSON(w, map[string]any{"cleared_page": page})
			return
		}
		http.Error(w, "id or page query parameter required", http.StatusBadRequest)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// --- Helpers ---

// authUser resolves the caller from the bearer token. With no tokens
// configured the service is open and every caller is the local user.
func (s *Server) authUser(r *http.Request) (string, bool) {
	if len(s.tokens) == 0 {
		return anonymousUser, true
	}
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return "", false
	}
	user, ok := s.tokens[token]
	return user, ok
}

// writeDocError maps the document error taxonomy onto status codes.
// Unauthenticated callers never reach it, so ErrUnauthorized here means a
// known document owned by someone else.
func (s *Server) writeDocError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, document.ErrNotFound):
		http.Error(w, "document not found", http.StatusNotFound)
	case errors.Is(err, document.ErrUnauthorized):
		http.Error(w, "document access denied", http.StatusForbidden)
	default:
		http.Error(w, err.Error(), http.StatusBadGateway)
	}
}

func pageParam(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 0, false
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page <= 0 {
		return 0, false
	}
	return page, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Printf("[http] %s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
