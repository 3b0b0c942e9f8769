package ideastore

import (
	"context"
	"database/sql"
	"errors"
)

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS ideas (
  id TEXT PRIMARY KEY,
  site_name TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  idea TEXT NOT NULL DEFAULT '',
  evaluation TEXT NOT NULL DEFAULT '',
  generated_code TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'Review',
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_ideas_created_at ON ideas (created_at DESC);
`)
	})
	return s.schemaErr
}

func (s *Store) saveDB(ctx context.Context, idea Idea) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO ideas (id, site_name, email, idea, evaluation, generated_code, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		idea.ID, idea.SiteName, idea.Email, idea.Idea,
		idea.Evaluation, idea.GeneratedCode, string(idea.Status), idea.CreatedAt)
	return err
}

func (s *Store) listDB(ctx context.Context) ([]Idea, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, site_name, email, idea, evaluation, generated_code, status, created_at
FROM ideas
ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Idea, 0, 32)
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, idea)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) getDB(ctx context.Context, id string) (Idea, error) {
	if err := s.ensureSchema(); err != nil {
		return Idea{}, err
	}
	row := s.db.QueryRowContext(ctx, `
SELECT id, site_name, email, idea, evaluation, generated_code, status, created_at
FROM ideas WHERE id = $1`, id)
	idea, err := scanIdea(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Idea{}, ErrNotFound
	}
	return idea, err
}

func (s *Store) updateStatusDB(ctx context.Context, id string, status Status) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	// Unknown ids match zero rows, which counts as a no-op.
	_, err := s.db.ExecContext(ctx,
		`UPDATE ideas SET status = $2 WHERE id = $1`, id, string(status))
	return err
}
