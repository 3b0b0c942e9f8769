package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"smartsite/internal/gateway/handler"
	"smartsite/internal/gateway/repository/ideastore"
	"smartsite/internal/gateway/service/advisor"
	"smartsite/internal/gateway/service/conversation"
	"smartsite/internal/gateway/service/review"
	"smartsite/internal/llmclient"
)

// scriptedGateway completes the intake on the first turn so handler tests
// can exercise the full submit path without a live model.
type scriptedGateway struct {
	call *advisor.SubmitCall
	text string
}

func (g *scriptedGateway) ChatTurn(_ context.Context, _ []llmclient.Message) (advisor.Reply, error) {
	return advisor.Reply{Text: g.text, Call: g.call}, nil
}

func (g *scriptedGateway) Evaluate(_ context.Context, _ string) (string, error) {
	return "Score: 7/10...", nil
}

func (g *scriptedGateway) GenerateCode(_ context.Context, _ string) (string, error) {
	return "<html>...</html>", nil
}

func newTestHandler(t *testing.T, gw conversation.Gateway) (http.Handler, *ideastore.Store) {
	t.Helper()
	ideas := ideastore.New(filepath.Join(t.TempDir(), "ideas.json"))
	conversationSvc := conversation.New(gw, ideas, nil)
	reviewSvc := review.New("admin", ideas, nil)
	mux := NewMux(
		handler.NewChatHandler(conversationSvc),
		handler.NewAdminHandler(reviewSvc),
		reviewSvc,
	)
	return mux, ideas
}

func postJSON(t *testing.T, h http.Handler, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChatEndpointPlainReply(t *testing.T) {
	h, _ := newTestHandler(t, &scriptedGateway{text: "What's the project called?"})

	rec := postJSON(t, h, "/api/chat", map[string]string{"message": "hi", "lang": "en"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body)
	}
	var res struct {
		SessionID string `json:"sessionId"`
		Reply     string `json:"reply"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.SessionID == "" {
		t.Fatal("server must mint a session id when none is sent")
	}
	if res.Reply != "What's the project called?" {
		t.Fatalf("reply mismatch: %q", res.Reply)
	}
}

func TestChatEndpointSubmission(t *testing.T) {
	h, ideas := newTestHandler(t, &scriptedGateway{
		call: &advisor.SubmitCall{SiteName: "Foo", Email: "a@b.com", Idea: "A recipe-sharing app"},
	})

	rec := postJSON(t, h, "/api/chat", map[string]string{"message": "submit", "lang": "en"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body)
	}
	var res struct {
		Submission *ideastore.Idea `json:"submission"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Submission == nil {
		t.Fatalf("expected a submission: %s", rec.Body)
	}
	if res.Submission.Status != ideastore.StatusReview {
		t.Fatalf("want Review status, got %q", res.Submission.Status)
	}

	stored, err := ideas.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != res.Submission.ID {
		t.Fatalf("store should hold the submitted idea: %+v", stored)
	}
}

func TestChatEndpointRejectsEmptyMessage(t *testing.T) {
	h, _ := newTestHandler(t, &scriptedGateway{})
	rec := postJSON(t, h, "/api/chat", map[string]string{"message": "  "}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestAdminLogin(t *testing.T) {
	h, _ := newTestHandler(t, &scriptedGateway{})

	rec := postJSON(t, h, "/api/admin/login", map[string]string{"password": "wrong", "lang": "en"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: want 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Incorrect password.") {
		t.Fatalf("expected localized deny, got %s", rec.Body)
	}

	rec = postJSON(t, h, "/api/admin/login", map[string]string{"password": "admin"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("correct password: want 200, got %d: %s", rec.Code, rec.Body)
	}
}

func TestAdminEndpointsAreGated(t *testing.T) {
	h, _ := newTestHandler(t, &scriptedGateway{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ideas", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("ungated list: want 401, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/ideas", nil)
	req.Header.Set("X-Admin-Password", "admin")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("gated list: want 200, got %d: %s", rec.Code, rec.Body)
	}
}

func TestAdminStatusFlow(t *testing.T) {
	h, ideas := newTestHandler(t, &scriptedGateway{})
	saved, err := ideas.Save(context.Background(), ideastore.NewIdea{
		SiteName: "Foo", Email: "a@b.com", Idea: "app",
		GeneratedCode: "<html>...</html>",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	auth := map[string]string{"X-Admin-Password": "admin"}

	rec := postJSON(t, h, "/api/admin/ideas/"+saved.ID+"/status", map[string]string{"status": "Pending"}, auth)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid status: want 400, got %d", rec.Code)
	}

	rec = postJSON(t, h, "/api/admin/ideas/"+saved.ID+"/status", map[string]string{"status": "Approved"}, auth)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve: want 200, got %d: %s", rec.Code, rec.Body)
	}

	got, err := ideas.Get(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != ideastore.StatusApproved {
		t.Fatalf("want Approved, got %q", got.Status)
	}

	// Code endpoint serves the raw markup for clipboard copy.
	req := httptest.NewRequest(http.MethodGet, "/api/admin/ideas/"+saved.ID+"/code", nil)
	req.Header.Set("X-Admin-Password", "admin")
	codeRec := httptest.NewRecorder()
	h.ServeHTTP(codeRec, req)
	if codeRec.Code != http.StatusOK {
		t.Fatalf("code: want 200, got %d", codeRec.Code)
	}
	if codeRec.Body.String() != "<html>...</html>" {
		t.Fatalf("code body mismatch: %q", codeRec.Body.String())
	}
}

func TestAdminGetUnknownIdea(t *testing.T) {
	h, _ := newTestHandler(t, &scriptedGateway{})
	req := httptest.NewRequest(http.MethodGet, "/api/admin/ideas/nope", nil)
	req.Header.Set("X-Admin-Password", "admin")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestHandler(t, &scriptedGateway{})
	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow-origin mismatch: %q", got)
	}
	if !strings.Contains(rec.Header().Get("Access-Control-Allow-Headers"), "X-Admin-Password") {
		t.Fatal("admin header must be allowed for preflight")
	}
}
