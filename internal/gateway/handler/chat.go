package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"smartsite/internal/gateway/repository/ideastore"
	"smartsite/internal/gateway/service/conversation"
)

// ChatHandler serves the conversational intake flow.
type ChatHandler struct {
	svc *conversation.Service
}

func NewChatHandler(svc *conversation.Service) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type chatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
	Lang      string `json:"lang"`
}

type chatResponse struct {
	SessionID  string          `json:"sessionId"`
	Reply      string          `json:"reply,omitempty"`
	Submission *ideastore.Idea `json:"submission,omitempty"`
}

// HandleMessage accepts one user message and returns the assistant's reply,
// or the completed submission once the intake finishes.
func (h *ChatHandler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	lang := req.Lang
	if lang == "" {
		lang = r.Header.Get("Accept-Language")
	}

	res, err := h.svc.HandleMessage(r.Context(), sessionID, req.Message, lang)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{
		SessionID:  sessionID,
		Reply:      res.Reply,
		Submission: res.Submitted,
	})
}

// HandleClose discards a session's conversation turns.
func (h *ChatHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}
	h.svc.CloseSession(req.SessionID)
	writeJSON(w, http.StatusOK, map[string]bool{"closed": true})
}
