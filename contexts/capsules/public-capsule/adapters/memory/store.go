package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"timecapsule/contexts/capsules/public-capsule/domain/entities"
	domainerrors "timecapsule/contexts/capsules/public-capsule/domain/errors"
	"timecapsule/contexts/capsules/public-capsule/ports"
)

// Store is an in-memory capsule repository and clock for tests and local runs.
type Store struct {
	mu       sync.RWMutex
	capsules map[string]entities.PublicCapsule
	now      func() time.Time
	reads    int
}

func NewStore() *Store {
	return &Store{
		capsules: make(map[string]entities.PublicCapsule),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Put(capsules ...entities.PublicCapsule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, capsule := range capsules {
		s.capsules[capsule.CapsuleID] = capsule
	}
}

func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = func() time.Time { return now.UTC() }
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now()
}

// Reads counts repository calls, so tests can observe cache hits.
func (s *Store) Reads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reads
}

func (s *Store) ListOpened(_ context.Context, filter ports.OpenedFilter) ([]entities.PublicCapsule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++

	opened := make([]entities.PublicCapsule, 0, len(s.capsules))
	for _, capsule := range s.capsules {
		if capsule.IsOpen(filter.OpenedBy) {
			opened = append(opened, capsule)
		}
	}
	sort.Slice(opened, func(i, j int) bool {
		if opened[i].OpensAt.Equal(opened[j].OpensAt) {
			return opened[i].CapsuleID > opened[j].CapsuleID
		}
		return opened[i].OpensAt.After(opened[j].OpensAt)
	})

	if filter.Offset >= len(opened) {
		return []entities.PublicCapsule{}, nil
	}
	opened = opened[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(opened) {
		opened = opened[:filter.Limit]
	}
	return opened, nil
}

func (s *Store) GetPublicCapsule(_ context.Context, capsuleID string) (entities.PublicCapsule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++

	capsule, ok := s.capsules[capsuleID]
	if !ok {
		return entities.PublicCapsule{}, domainerrors.ErrCapsuleNotFound
	}
	return capsule, nil
}
