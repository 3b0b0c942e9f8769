// Package review exposes the password-gated operator view over submitted
// ideas: listing, inspection, and status changes. It never deletes a record
// or edits its content fields.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smartsite/internal/gateway/repository/ideastore"
	"smartsite/internal/gateway/repository/snapshot"
)

var (
	// ErrAccessDenied is returned on a credential mismatch. There is no
	// lockout or backoff; the caller may simply try again.
	ErrAccessDenied = errors.New("review: access denied")

	// ErrInvalidStatus is returned for operator statuses outside
	// Approved/Rejected.
	ErrInvalidStatus = errors.New("review: invalid status")
)

// IdeaStore is the slice of the idea store the review surface needs.
type IdeaStore interface {
	List(ctx context.Context) ([]ideastore.Idea, error)
	Get(ctx context.Context, id string) (ideastore.Idea, error)
	UpdateStatus(ctx context.Context, id string, status ideastore.Status) error
}

type Service struct {
	secret    string
	ideas     IdeaStore
	snapshots snapshot.Store // optional
}

func New(secret string, ideas IdeaStore, snapshots snapshot.Store) *Service {
	return &Service{
		secret:    secret,
		ideas:     ideas,
		snapshots: snapshots,
	}
}

// Authorize compares the entered credential against the fixed secret.
// Equal unlocks; anything else is denied.
func (s *Service) Authorize(password string) error {
	if s.secret == "" || password != s.secret {
		return ErrAccessDenied
	}
	return nil
}

// List returns all submissions, newest first.
func (s *Service) List(ctx context.Context) ([]ideastore.Idea, error) {
	return s.ideas.List(ctx)
}

// Get returns one submission for the detail view.
func (s *Service) Get(ctx context.Context, id string) (ideastore.Idea, error) {
	return s.ideas.Get(ctx, id)
}

// SetStatus marks a submission Approved or Rejected. All other fields are
// left untouched.
func (s *Service) SetStatus(ctx context.Context, id string, status ideastore.Status) error {
	if status != ideastore.StatusApproved && status != ideastore.StatusRejected {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.ideas.UpdateStatus(ctx, id, status)
}

// GeneratedCode returns the starter code text for clipboard copy.
func (s *Service) GeneratedCode(ctx context.Context, id string) (string, error) {
	idea, err := s.ideas.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return idea.GeneratedCode, nil
}

// CodeURL resolves a presigned download URL for the idea's code snapshot,
// or "" when the active snapshot backend cannot produce one.
func (s *Service) CodeURL(ctx context.Context, id string) (string, error) {
	if s.snapshots == nil {
		return "", nil
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ideastore.ErrNotFound
	}
	return s.snapshots.GetURL(ctx, id, snapshotName)
}

// snapshotName mirrors conversation.SnapshotName without importing the
// controller package.
const snapshotName = "starter-code.html"
