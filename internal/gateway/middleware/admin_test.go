package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type staticAuth struct{ secret string }

func (a staticAuth) Authorize(password string) error {
	if password != a.secret {
		return errors.New("denied")
	}
	return nil
}

func TestAdminGate(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	gate := AdminGate(staticAuth{secret: "admin"}, next)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ideas", nil)
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: want 401, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/ideas", nil)
	req.Header.Set("X-Admin-Password", "wrong")
	rec = httptest.NewRecorder()
	gate.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong header: want 401, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/ideas", nil)
	req.Header.Set("X-Admin-Password", "admin")
	rec = httptest.NewRecorder()
	gate.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("correct header: want 204, got %d", rec.Code)
	}
}
