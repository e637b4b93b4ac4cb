package board

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/drywaters/muadzin/internal/model"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned for unknown display IDs
	ErrNotFound = errors.New("display not found")
	// ErrExists is returned when registering a name twice
	ErrExists = errors.New("display already exists")
)

// Store keeps displays and their next events in memory. Targets that passed more
// than the retention window ago are cleared by a background sweep.
type Store struct {
	mu        sync.RWMutex
	displays  map[uuid.UUID]*model.Display
	retention time.Duration
	done      chan struct{}
	wg        sync.WaitGroup
}

const minSweepInterval = time.Second

// NewStore creates a new display store with the given retention
func NewStore(retention time.Duration) *Store {
	if retention <= 0 {
		retention = 30 * time.Minute
	}
	s := &Store{
		displays:  make(map[uuid.UUID]*model.Display),
		retention: retention,
		done:      make(chan struct{}),
	}
	// Start background sweep goroutine
	s.wg.Add(1)
	go s.cleanup()
	return s
}

// Create registers a display under a name-derived ID
func (s *Store) Create(name string) (model.Display, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Display{}, fmt.Errorf("display name is required")
	}

	id := model.DisplayID(name)
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.displays[id]; exists {
		return model.Display{}, fmt.Errorf("%w: %s", ErrExists, name)
	}

	d := &model.Display{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.displays[id] = d
	return copyDisplay(d), nil
}

// Get returns a display by ID
func (s *Store) Get(id uuid.UUID) (model.Display, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, exists := s.displays[id]
	if !exists {
		return model.Display{}, ErrNotFound
	}
	return copyDisplay(d), nil
}

// List returns all displays sorted by name
func (s *Store) List() []model.Display {
	s.mu.RLock()
	out := make([]model.Display, 0, len(s.displays))
	for _, d := range s.displays {
		out = append(out, copyDisplay(d))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// SetNext replaces the next event of a display
func (s *Store) SetNext(id uuid.UUID, ev model.NextEvent) (model.Display, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, exists := s.displays[id]
	if !exists {
		return model.Display{}, ErrNotFound
	}
	d.Next = &ev
	d.UpdatedAt = time.Now()
	return copyDisplay(d), nil
}

// ClearNext removes the next event of a display
func (s *Store) ClearNext(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, exists := s.displays[id]
	if !exists {
		return ErrNotFound
	}
	d.Next = nil
	d.UpdatedAt = time.Now()
	return nil
}

// Delete removes a display
func (s *Store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.displays[id]; !exists {
		return ErrNotFound
	}
	delete(s.displays, id)
	return nil
}

// cleanup periodically clears targets past their retention
func (s *Store) cleanup() {
	defer s.wg.Done()
	ticker := time.NewTicker(sweepInterval(s.retention))
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

// sweepInterval is half the retention, kept within [minSweepInterval, 1m].
func sweepInterval(retention time.Duration) time.Duration {
	return min(max(retention/2, minSweepInterval), time.Minute)
}

// sweep clears every next event that passed before now minus retention.
// It returns the number of cleared targets.
func (s *Store) sweep(now time.Time) int {
	cutoff := now.Add(-s.retention)
	cleared := 0

	s.mu.Lock()
	for _, d := range s.displays {
		if d.Next != nil && d.Next.At.Before(cutoff) {
			d.Next = nil
			d.UpdatedAt = now
			cleared++
		}
	}
	s.mu.Unlock()

	return cleared
}

// Close signals the cleanup goroutine to stop and waits for it to finish
func (s *Store) Close() {
	close(s.done)
	s.wg.Wait()
}

func copyDisplay(d *model.Display) model.Display {
	out := *d
	if d.Next != nil {
		next := *d.Next
		out.Next = &next
	}
	return out
}
