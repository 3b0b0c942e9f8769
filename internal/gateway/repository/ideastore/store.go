package ideastore

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	// ErrCorrupt indicates that persisted data exists but cannot be decoded.
	// A missing backing file is not corruption; it reads as an empty store.
	ErrCorrupt = errors.New("ideastore: persisted data is corrupt")

	// ErrNotFound indicates that no idea has the requested id.
	ErrNotFound = errors.New("ideastore: idea not found")
)

const listCacheKey = "all"

// Store persists ideas either in a single JSON file or in Postgres.
// The file backend keeps the whole collection under one path and replaces
// it atomically on every write; the Postgres backend writes per record.
type Store struct {
	path string
	db   *sql.DB

	mu      sync.RWMutex
	loaded  bool
	loadErr error
	ideas   []Idea // newest first

	schemaOnce sync.Once
	schemaErr  error

	listCache *lru.Cache[string, []Idea]

	now   func() time.Time
	newID func() string
}

// New returns a file-backed store rooted at path.
func New(path string) *Store {
	return &Store{
		path:  path,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// NewPostgres returns a Postgres-backed store for dsn.
func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, []Idea](16)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{
		db:        db,
		listCache: cache,
		now:       time.Now,
		newID:     uuid.NewString,
	}, nil
}

// NewFromEnv picks the Postgres backend when IDEA_STORE_PG_DSN is set and
// reachable, and falls back to the file backend at path otherwise.
func NewFromEnv(path string) *Store {
	dsn := strings.TrimSpace(os.Getenv("IDEA_STORE_PG_DSN"))
	if dsn == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(path)
	}
	return s
}

// Close releases the database handle, if any.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save assigns a fresh id, stamps the current time, fixes status to Review
// and prepends the idea to the collection.
func (s *Store) Save(ctx context.Context, in NewIdea) (Idea, error) {
	idea := Idea{
		ID:            s.newID(),
		SiteName:      strings.TrimSpace(in.SiteName),
		Email:         strings.TrimSpace(in.Email),
		Idea:          in.Idea,
		Evaluation:    in.Evaluation,
		GeneratedCode: in.GeneratedCode,
		Status:        StatusReview,
		CreatedAt:     s.now().UTC(),
	}
	if s.db != nil {
		if err := s.saveDB(ctx, idea); err != nil {
			return Idea{}, err
		}
		s.invalidateListCache()
		return idea, nil
	}
	if err := s.saveFile(idea); err != nil {
		return Idea{}, err
	}
	return idea, nil
}

// List returns all ideas, newest first. A missing backing file yields an
// empty slice; undecodable persisted data yields ErrCorrupt.
func (s *Store) List(ctx context.Context) ([]Idea, error) {
	if s.db != nil {
		if s.listCache != nil {
			if cached, ok := s.listCache.Get(listCacheKey); ok {
				return cached, nil
			}
		}
		ideas, err := s.listDB(ctx)
		if err != nil {
			return nil, err
		}
		if s.listCache != nil {
			s.listCache.Add(listCacheKey, ideas)
		}
		return ideas, nil
	}
	return s.listFile()
}

// Get returns the idea with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Idea, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Idea{}, ErrNotFound
	}
	if s.db != nil {
		return s.getDB(ctx, id)
	}
	return s.getFile(id)
}

// UpdateStatus rewrites the matching idea's status. An unknown id is a
// silent no-op; only decode failures are reported.
func (s *Store) UpdateStatus(ctx context.Context, id string, status Status) error {
	id = strings.TrimSpace(id)
	if id == "" || !status.Valid() {
		return nil
	}
	if s.db != nil {
		if err := s.updateStatusDB(ctx, id, status); err != nil {
			return err
		}
		s.invalidateListCache()
		return nil
	}
	return s.updateStatusFile(id, status)
}

func (s *Store) invalidateListCache() {
	if s.listCache != nil {
		s.listCache.Remove(listCacheKey)
	}
}
