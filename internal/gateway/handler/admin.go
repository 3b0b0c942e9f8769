package handler

import (
	"errors"
	"net/http"
	"strings"

	"smartsite/internal/gateway/repository/ideastore"
	"smartsite/internal/gateway/service/review"
	"smartsite/internal/i18n"
)

// AdminHandler serves the review surface. Everything except HandleLogin is
// expected to sit behind the admin gate middleware.
type AdminHandler struct {
	svc *review.Service
}

func NewAdminHandler(svc *review.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

type loginRequest struct {
	Password string `json:"password"`
	Lang     string `json:"lang"`
}

// HandleLogin checks the operator credential. Deny carries a localized
// message and no lockout state.
func (h *AdminHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.Authorize(req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, i18n.Lookup(req.Lang).AccessDenied)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"authorized": true})
}

// HandleList returns all submissions, newest first.
func (h *AdminHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ideas, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ideas": ideas})
}

// HandleGet returns one submission for the detail view.
func (h *AdminHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	idea, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ideastore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "idea not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, idea)
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleStatus marks a submission Approved or Rejected.
func (h *AdminHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status := ideastore.Status(strings.TrimSpace(req.Status))
	if err := h.svc.SetStatus(r.Context(), r.PathValue("id"), status); err != nil {
		if errors.Is(err, review.ErrInvalidStatus) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// HandleCode returns the generated starter code as plain text for clipboard
// copy. With ?url=1 it resolves a presigned snapshot URL instead, when the
// active snapshot backend supports that.
func (h *AdminHandler) HandleCode(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if r.URL.Query().Get("url") == "1" {
		u, err := h.svc.CodeURL(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"url": u})
		return
	}
	code, err := h.svc.GeneratedCode(r.Context(), id)
	if err != nil {
		if errors.Is(err, ideastore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "idea not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(code))
}
