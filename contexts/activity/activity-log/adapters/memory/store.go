package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"timecapsule/contexts/activity/activity-log/domain/entities"
	domainerrors "timecapsule/contexts/activity/activity-log/domain/errors"
	"timecapsule/contexts/activity/activity-log/ports"
)

// Store is an in-memory activity log used by tests and the in-memory module.
// It implements Repository, Clock and IDGenerator.
type Store struct {
	mu      sync.RWMutex
	items   []entities.Activity
	ids     map[string]struct{}
	now     func() time.Time
	failure error
}

func NewStore() *Store {
	return &Store{
		ids: make(map[string]struct{}),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// SetNow pins the store clock.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = func() time.Time { return now.UTC() }
}

// FailWith makes every subsequent repository call return err; nil clears it.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure = err
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) AppendActivity(_ context.Context, activity entities.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failure != nil {
		return s.failure
	}
	if _, exists := s.ids[activity.ActivityID]; exists {
		return domainerrors.ErrDuplicateActivity
	}
	s.ids[activity.ActivityID] = struct{}{}
	s.items = append(s.items, activity)
	return nil
}

func (s *Store) ListActivities(_ context.Context, filter ports.ActivityFilter) ([]entities.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failure != nil {
		return nil, s.failure
	}

	matched := make([]entities.Activity, 0, len(s.items))
	for _, item := range s.items {
		if filter.UserID != "" && item.UserID != filter.UserID {
			continue
		}
		if filter.Method != "" && item.Method != filter.Method {
			continue
		}
		matched = append(matched, item)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].OccurredAt.Equal(matched[j].OccurredAt) {
			return matched[i].ActivityID > matched[j].ActivityID
		}
		return matched[i].OccurredAt.After(matched[j].OccurredAt)
	})

	if filter.Offset >= len(matched) {
		return []entities.Activity{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (s *Store) DeleteActivitiesBefore(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failure != nil {
		return 0, s.failure
	}

	kept := s.items[:0]
	deleted := 0
	for _, item := range s.items {
		if item.OccurredAt.Before(cutoff) {
			delete(s.ids, item.ActivityID)
			deleted++
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	return deleted, nil
}

// Len returns the number of stored rows.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
