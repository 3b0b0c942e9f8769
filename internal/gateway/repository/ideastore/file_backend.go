package ideastore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

func (s *Store) ensureLoadedFile() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLoadedFileLocked()
}

func (s *Store) ensureLoadedFileLocked() error {
	if s.loaded {
		return s.loadErr
	}
	s.loaded = true
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		s.loadErr = err
		return err
	}
	var rows []Idea
	if err := json.Unmarshal(b, &rows); err != nil {
		s.loadErr = fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
		return s.loadErr
	}
	for i := range rows {
		rows[i] = normalizeIdea(rows[i])
	}
	s.ideas = rows
	return nil
}

// writeFileLocked replaces the whole collection on disk. The temp-file and
// rename pair keeps a concurrent reader from ever seeing a partial write.
func (s *Store) writeFileLocked() error {
	b, err := json.MarshalIndent(s.ideas, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *Store) saveFile(idea Idea) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedFileLocked(); err != nil {
		return err
	}
	s.ideas = append([]Idea{idea}, s.ideas...)
	if err := s.writeFileLocked(); err != nil {
		s.ideas = s.ideas[1:]
		return err
	}
	return nil
}

func (s *Store) listFile() ([]Idea, error) {
	s.mu.RLock()
	loaded, loadErr := s.loaded, s.loadErr
	s.mu.RUnlock()
	if !loaded {
		if err := s.ensureLoadedFile(); err != nil {
			return nil, err
		}
	} else if loadErr != nil {
		return nil, loadErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Idea, len(s.ideas))
	copy(out, s.ideas)
	return out, nil
}

func (s *Store) getFile(id string) (Idea, error) {
	if err := s.ensureLoadedFile(); err != nil {
		return Idea{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, idea := range s.ideas {
		if idea.ID == id {
			return idea, nil
		}
	}
	return Idea{}, ErrNotFound
}

func (s *Store) updateStatusFile(id string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedFileLocked(); err != nil {
		return err
	}
	for i := range s.ideas {
		if s.ideas[i].ID == id {
			prev := s.ideas[i].Status
			s.ideas[i].Status = status
			if err := s.writeFileLocked(); err != nil {
				s.ideas[i].Status = prev
				return err
			}
			return nil
		}
	}
	return nil
}
