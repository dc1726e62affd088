// Package memory provides an in-memory implementation of the domain
// repositories and unit of work. It backs unit and end-to-end tests and
// can serve as a throwaway dev backend; data does not survive a restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rahulpatwa/paisavest-backend/internal/domain"
)

type progressKey struct {
	userID   uuid.UUID
	lessonID uuid.UUID
}

// Store holds all records behind one mutex. WithinTx holds the mutex for
// the whole read-modify-write, which serializes transactions and gives
// the same per-record ordering guarantee the SQL backend gets from
// optimistic versioning.
type Store struct {
	mu sync.Mutex

	users        map[uuid.UUID]domain.User
	usersByPhone map[string]uuid.UUID
	investments  map[uuid.UUID]domain.Investment
	entries      []domain.LedgerEntry
	plans        map[string]domain.Plan
	lessons      map[uuid.UUID]domain.Lesson
	progress     map[progressKey]domain.LessonProgress

	failLedgerAppend error
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		users:        make(map[uuid.UUID]domain.User),
		usersByPhone: make(map[string]uuid.UUID),
		investments:  make(map[uuid.UUID]domain.Investment),
		plans:        make(map[string]domain.Plan),
		lessons:      make(map[uuid.UUID]domain.Lesson),
		progress:     make(map[progressKey]domain.LessonProgress),
	}
}

// FailNextLedgerAppend arms a one-shot fault: the next ledger append
// returns err. Used by tests to verify that a failure mid-transaction
// rolls back every write of the operation.
func (s *Store) FailNextLedgerAppend(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failLedgerAppend = err
}

type txMarkerKey struct{}

// WithinTx implements domain.UnitOfWork. It locks the store, snapshots
// all state, runs fn, and restores the snapshot if fn fails, so either
// every write of fn is visible afterwards or none are.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshot()
	err := fn(context.WithValue(ctx, txMarkerKey{}, true))
	if err != nil {
		s.restore(snapshot)
		return err
	}

	return nil
}

// acquire locks the store unless the context already runs inside WithinTx
func (s *Store) acquire(ctx context.Context) func() {
	if ctx.Value(txMarkerKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type storeSnapshot struct {
	users        map[uuid.UUID]domain.User
	usersByPhone map[string]uuid.UUID
	investments  map[uuid.UUID]domain.Investment
	entries      []domain.LedgerEntry
	plans        map[string]domain.Plan
	lessons      map[uuid.UUID]domain.Lesson
	progress     map[progressKey]domain.LessonProgress
}

func (s *Store) snapshot() storeSnapshot {
	snap := storeSnapshot{
		users:        make(map[uuid.UUID]domain.User, len(s.users)),
		usersByPhone: make(map[string]uuid.UUID, len(s.usersByPhone)),
		investments:  make(map[uuid.UUID]domain.Investment, len(s.investments)),
		entries:      make([]domain.LedgerEntry, len(s.entries)),
		plans:        make(map[string]domain.Plan, len(s.plans)),
		lessons:      make(map[uuid.UUID]domain.Lesson, len(s.lessons)),
		progress:     make(map[progressKey]domain.LessonProgress, len(s.progress)),
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	for k, v := range s.usersByPhone {
		snap.usersByPhone[k] = v
	}
	for k, v := range s.investments {
		snap.investments[k] = v
	}
	copy(snap.entries, s.entries)
	for k, v := range s.plans {
		snap.plans[k] = v
	}
	for k, v := range s.lessons {
		snap.lessons[k] = v
	}
	for k, v := range s.progress {
		snap.progress[k] = v
	}
	return snap
}

func (s *Store) restore(snap storeSnapshot) {
	s.users = snap.users
	s.usersByPhone = snap.usersByPhone
	s.investments = snap.investments
	s.entries = snap.entries
	s.plans = snap.plans
	s.lessons = snap.lessons
	s.progress = snap.progress
}

// sortedInvestments returns the given investments newest-opened first
func sortedInvestments(investments []*domain.Investment) []*domain.Investment {
	sort.Slice(investments, func(i, j int) bool {
		return investments[i].OpenedAt.After(investments[j].OpenedAt)
	})
	return investments
}
