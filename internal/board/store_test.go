package board

import (
	"errors"
	"testing"
	"time"

	"github.com/drywaters/muadzin/internal/model"
	"github.com/google/uuid"
)

func newTestStore(t *testing.T, retention time.Duration) *Store {
	t.Helper()
	store := NewStore(retention)
	t.Cleanup(store.Close)
	return store
}

func TestStoreLifecycle(t *testing.T) {
	store := newTestStore(t, time.Hour)

	created, err := store.Create("Main Hall")
	if err != nil {
		t.Fatalf("create display: %v", err)
	}
	if created.ID != model.DisplayID("main hall") {
		t.Fatalf("expected name-derived id, got %s", created.ID)
	}

	at := time.Date(2025, 3, 1, 15, 42, 0, 0, time.UTC)
	updated, err := store.SetNext(created.ID, model.NextEvent{At: at, Label: "Asr"})
	if err != nil {
		t.Fatalf("set next: %v", err)
	}
	if updated.Next == nil || !updated.Next.At.Equal(at) || updated.Next.Label != "Asr" {
		t.Fatalf("unexpected next event: %+v", updated.Next)
	}

	got, err := store.Get(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Next == nil || got.Next.Label != "Asr" {
		t.Fatalf("expected stored next event, got %+v", got.Next)
	}

	if err := store.ClearNext(created.ID); err != nil {
		t.Fatalf("clear next: %v", err)
	}
	got, _ = store.Get(created.ID)
	if got.Next != nil {
		t.Fatalf("expected next event to be cleared")
	}

	if err := store.Delete(created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete error = %v, want %v", err, ErrNotFound)
	}
}

func TestStoreCreateDuplicate(t *testing.T) {
	store := newTestStore(t, time.Hour)

	if _, err := store.Create("Main"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Create("  main "); !errors.Is(err, ErrExists) {
		t.Fatalf("duplicate create error = %v, want %v", err, ErrExists)
	}
	if _, err := store.Create("   "); err == nil {
		t.Fatalf("expected error for blank name")
	}
}

func TestStoreUnknownDisplay(t *testing.T) {
	store := newTestStore(t, time.Hour)
	id := uuid.New()

	if _, err := store.SetNext(id, model.NextEvent{At: time.Now()}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("set next error = %v, want %v", err, ErrNotFound)
	}
	if err := store.ClearNext(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("clear next error = %v, want %v", err, ErrNotFound)
	}
	if err := store.Delete(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete error = %v, want %v", err, ErrNotFound)
	}
}

func TestStoreListSorted(t *testing.T) {
	store := newTestStore(t, time.Hour)

	for _, name := range []string{"Women's Hall", "courtyard", "Main"} {
		if _, err := store.Create(name); err != nil {
			t.Fatalf("create %q: %v", name, err)
		}
	}

	list := store.List()
	want := []string{"courtyard", "Main", "Women's Hall"}
	if len(list) != len(want) {
		t.Fatalf("list length = %d, want %d", len(list), len(want))
	}
	for i, d := range list {
		if d.Name != want[i] {
			t.Errorf("list[%d] = %q, want %q", i, d.Name, want[i])
		}
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	store := newTestStore(t, time.Hour)

	d, _ := store.Create("Main")
	at := time.Date(2025, 3, 1, 5, 10, 0, 0, time.UTC)
	if _, err := store.SetNext(d.ID, model.NextEvent{At: at, Label: "Fajr"}); err != nil {
		t.Fatalf("set next: %v", err)
	}

	got, _ := store.Get(d.ID)
	got.Next.Label = "mutated"

	again, _ := store.Get(d.ID)
	if again.Next.Label != "Fajr" {
		t.Fatalf("store leaked internal state, label = %q", again.Next.Label)
	}
}

func TestStoreSweepClearsPassedTargets(t *testing.T) {
	store := newTestStore(t, 30*time.Minute)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	old, _ := store.Create("Old")
	recent, _ := store.Create("Recent")
	upcoming, _ := store.Create("Upcoming")

	store.SetNext(old.ID, model.NextEvent{At: now.Add(-31 * time.Minute)})
	store.SetNext(recent.ID, model.NextEvent{At: now.Add(-10 * time.Minute)})
	store.SetNext(upcoming.ID, model.NextEvent{At: now.Add(time.Hour)})

	if cleared := store.sweep(now); cleared != 1 {
		t.Fatalf("cleared = %d, want 1", cleared)
	}

	if d, _ := store.Get(old.ID); d.Next != nil {
		t.Fatalf("expected old target to be cleared")
	}
	if d, _ := store.Get(recent.ID); d.Next == nil {
		t.Fatalf("expected recent target to be kept")
	}
	if d, _ := store.Get(upcoming.ID); d.Next == nil {
		t.Fatalf("expected upcoming target to be kept")
	}
}

func TestStoreBackgroundSweep(t *testing.T) {
	store := newTestStore(t, 40*time.Millisecond)

	d, _ := store.Create("Main")
	store.SetNext(d.ID, model.NextEvent{At: time.Now().Add(-time.Second)})

	deadline := time.Now().Add(3 * time.Second)
	for {
		got, _ := store.Get(d.ID)
		if got.Next == nil {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected background sweep to clear target")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSweepInterval(t *testing.T) {
	tests := []struct {
		retention time.Duration
		want      time.Duration
	}{
		{retention: time.Nanosecond, want: time.Second},
		{retention: 40 * time.Millisecond, want: time.Second},
		{retention: 10 * time.Second, want: 5 * time.Second},
		{retention: 30 * time.Minute, want: time.Minute},
	}

	for _, tt := range tests {
		if got := sweepInterval(tt.retention); got != tt.want {
			t.Errorf("sweepInterval(%v) = %v, want %v", tt.retention, got, tt.want)
		}
	}
}

func TestStoreTinyRetention(t *testing.T) {
	store := newTestStore(t, time.Nanosecond)

	d, _ := store.Create("Main")
	store.SetNext(d.ID, model.NextEvent{At: time.Now().Add(-time.Second)})

	deadline := time.Now().Add(3 * time.Second)
	for {
		got, _ := store.Get(d.ID)
		if got.Next == nil {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected background sweep to clear target")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
