package ideastore

import (
	"strings"
	"time"
)

// Status is the review state of a submitted idea.
type Status string

const (
	StatusReview   Status = "Review"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Valid reports whether s is one of the known review states.
func (s Status) Valid() bool {
	switch s {
	case StatusReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Idea is one persisted submission together with its AI-derived artifacts.
type Idea struct {
	ID            string    `json:"id"`
	SiteName      string    `json:"siteName"`
	Email         string    `json:"email"`
	Idea          string    `json:"idea"`
	Evaluation    string    `json:"evaluation"`
	GeneratedCode string    `json:"generatedCode"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewIdea carries the caller-supplied fields of a submission.
// ID, status and timestamp are assigned by the store.
type NewIdea struct {
	SiteName      string
	Email         string
	Idea          string
	Evaluation    string
	GeneratedCode string
}

func normalizeIdea(idea Idea) Idea {
	idea.ID = strings.TrimSpace(idea.ID)
	idea.SiteName = strings.TrimSpace(idea.SiteName)
	idea.Email = strings.TrimSpace(idea.Email)
	if !idea.Status.Valid() {
		idea.Status = StatusReview
	}
	return idea
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdea(row rowScanner) (Idea, error) {
	var idea Idea
	var status string
	err := row.Scan(
		&idea.ID,
		&idea.SiteName,
		&idea.Email,
		&idea.Idea,
		&idea.Evaluation,
		&idea.GeneratedCode,
		&status,
		&idea.CreatedAt,
	)
	if err != nil {
		return Idea{}, err
	}
	idea.Status = Status(status)
	return normalizeIdea(idea), nil
}
