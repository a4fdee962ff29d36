package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/okian/archery-handicaps/internal/domain/round"
	"github.com/okian/archery-handicaps/pkg/metrics"
)

// snapshot is an immutable, codename-ordered view published after writes so
// reads never take the lock.
type snapshot struct {
	byCodename map[string]round.Round
	ordered    []round.Round
}

// MemoryStore is an in-memory Store safe for concurrent use.
type MemoryStore struct {
	mu     sync.Mutex
	rounds map[string]round.Round
	checks []func(round.Round) error

	snap atomic.Pointer[snapshot]
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{rounds: make(map[string]round.Round)}
	for _, opt := range opts {
		opt(s)
	}
	s.publish()
	return s
}

// publish rebuilds the read snapshot. Callers hold mu.
func (s *MemoryStore) publish() {
	snap := &snapshot{
		byCodename: make(map[string]round.Round, len(s.rounds)),
		ordered:    make([]round.Round, 0, len(s.rounds)),
	}
	for k, r := range s.rounds {
		snap.byCodename[k] = r
		snap.ordered = append(snap.ordered, r)
	}
	sort.Slice(snap.ordered, func(i, j int) bool {
		return snap.ordered[i].Codename < snap.ordered[j].Codename
	})
	s.snap.Store(snap)
	metrics.UpdateCatalogueRounds(len(snap.ordered))
}

// Put implements Store.Put.
func (s *MemoryStore) Put(ctx context.Context, r round.Round) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.Codename == "" {
		return fmt.Errorf("%w: %s", ErrMissingCodename, r.Name)
	}
	if err := r.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidRound, r.Codename, err)
	}
	for _, check := range s.checks {
		if err := check(r); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidRound, r.Codename, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds[r.Codename] = r
	s.publish()
	return nil
}

// PutAll stores every round or none of them.
func (s *MemoryStore) PutAll(ctx context.Context, rounds []round.Round) error {
	staged := NewMemoryStore()
	staged.checks = s.checks
	for _, r := range rounds {
		if err := staged.Put(ctx, r); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for k, r := range staged.rounds {
		s.rounds[k] = r
	}
	s.publish()
	return nil
}

// Get implements Store.Get.
func (s *MemoryStore) Get(ctx context.Context, codename string) (round.Round, error) {
	if err := ctx.Err(); err != nil {
		return round.Round{}, err
	}
	r, ok := s.snap.Load().byCodename[codename]
	if !ok {
		return round.Round{}, fmt.Errorf("%w: %q", ErrNotFound, codename)
	}
	return r, nil
}

// List implements Store.List.
func (s *MemoryStore) List(ctx context.Context, f Filter) ([]round.Round, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ordered := s.snap.Load().ordered
	out := make([]round.Round, 0, len(ordered))
	for _, r := range ordered {
		if f.match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	return len(s.snap.Load().ordered)
}
