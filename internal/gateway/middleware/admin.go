package middleware

import (
	"net/http"
)

// Authorizer checks an operator credential; equal unlocks, anything else
// is denied.
type Authorizer interface {
	Authorize(password string) error
}

// AdminGate rejects requests whose X-Admin-Password header does not match
// the configured secret. No lockout and no session state; the credential
// rides on every request.
func AdminGate(auth Authorizer, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := auth.Authorize(r.Header.Get("X-Admin-Password")); err != nil {
			http.Error(w, "access denied", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
