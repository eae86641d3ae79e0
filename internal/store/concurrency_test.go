package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sandeepkv93/studytime/internal/model"
)

// slowPersister holds its first Save long enough for a second commit to
// overtake it.
type slowPersister struct {
	memoryPersister
	delay time.Duration

	mu    sync.Mutex
	calls int
}

func (p *slowPersister) Save(tasks []model.Task) error {
	p.mu.Lock()
	p.calls++
	first := p.calls == 1
	p.mu.Unlock()
	if first {
		time.Sleep(p.delay)
	}
	return p.memoryPersister.Save(tasks)
}

func lockedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := fixedClock(start)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return next()
	}
}

func lockedIDs() func() string {
	var mu sync.Mutex
	next := sequentialIDs()
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		return next()
	}
}

func assertUniqueIDs(t *testing.T, tasks []model.Task) {
	t.Helper()
	seen := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		if seen[task.ID] {
			t.Fatalf("duplicate id %s in %#v", task.ID, tasks)
		}
		seen[task.ID] = true
	}
}

func sameIDs(a, b []model.Task) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

func TestSlowSaveIsNotOverwrittenByOlderSnapshot(t *testing.T) {
	p := &slowPersister{delay: 50 * time.Millisecond}
	s := New(Options{
		Persister: p,
		Now:       lockedClock(time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)),
		NewID:     lockedIDs(),
	})
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := s.Add(ctx, model.NewTaskInput{Title: "a"}); err != nil {
			t.Errorf("add a: %v", err)
		}
	}()
	time.Sleep(10 * time.Millisecond)
	if _, err := s.Add(ctx, model.NewTaskInput{Title: "b"}); err != nil {
		t.Fatalf("add b: %v", err)
	}
	wg.Wait()

	persisted, _ := p.Load()
	memory := s.Tasks()
	if len(memory) != 2 || len(persisted) != 2 {
		t.Fatalf("expected two tasks everywhere, memory=%d persisted=%d", len(memory), len(persisted))
	}
	if !sameIDs(memory, persisted) || persisted[0].Title != "b" {
		t.Fatalf("persisted snapshot is behind memory: memory=%#v persisted=%#v", memory, persisted)
	}
}

func TestConcurrentLocalAddsPersistFinalState(t *testing.T) {
	p := &memoryPersister{}
	s := New(Options{
		Persister: p,
		Now:       lockedClock(time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)),
		NewID:     lockedIDs(),
	})
	ctx := context.Background()

	const workers = 24
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task, err := s.Add(ctx, model.NewTaskInput{Title: fmt.Sprintf("task %d", i)})
			if err != nil {
				t.Errorf("add %d: %v", i, err)
				return
			}
			if _, err := s.Toggle(ctx, task.ID); err != nil {
				t.Errorf("toggle %d: %v", i, err)
			}
		}()
	}
	wg.Wait()

	memory := s.Tasks()
	persisted, _ := p.Load()
	if len(memory) != workers {
		t.Fatalf("expected %d tasks, got %d", workers, len(memory))
	}
	assertUniqueIDs(t, memory)
	if !sameIDs(memory, persisted) {
		t.Fatalf("persisted collection diverged from memory")
	}
	for _, task := range persisted {
		if !task.Completed {
			t.Fatalf("toggle missing from persisted task %s", task.ID)
		}
	}
}

func TestLocalLoadRacingAddsKeepsMemoryAndDiskInStep(t *testing.T) {
	p := &memoryPersister{}
	s := New(Options{
		Persister: p,
		Now:       lockedClock(time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)),
		NewID:     lockedIDs(),
	})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := s.Add(ctx, model.NewTaskInput{Title: fmt.Sprintf("task %d", i)}); err != nil {
				t.Errorf("add %d: %v", i, err)
			}
		}()
		go func() {
			defer wg.Done()
			if err := s.Load(ctx); err != nil {
				t.Errorf("load: %v", err)
			}
		}()
	}
	wg.Wait()

	memory := s.Tasks()
	persisted, _ := p.Load()
	assertUniqueIDs(t, memory)
	if len(memory) != 16 || !sameIDs(memory, persisted) {
		t.Fatalf("memory and disk diverged: memory=%d persisted=%d", len(memory), len(persisted))
	}
}

// listingRemote confirms a create and then lets a reload run before the
// create's result reaches the store, the way a refresh can overtake a
// pending add.
type listingRemote struct {
	*fakeRemote
	store *Store
	err   error
}

func (r *listingRemote) Create(ctx context.Context, in model.NewTaskInput) (model.Task, error) {
	created, err := r.fakeRemote.Create(ctx, in)
	if err != nil {
		return created, err
	}
	r.err = r.store.Load(ctx)
	return created, nil
}

func TestReloadDuringRemoteAddKeepsIDsUnique(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	remote := &listingRemote{fakeRemote: newFakeRemote(now)}
	s := New(Options{Remote: remote, Now: fixedClock(now)})
	remote.store = s

	_, err := s.Add(context.Background(), model.NewTaskInput{Title: "overtaken"})
	if !errors.Is(err, ErrStale) {
		t.Fatalf("expected the add to resolve stale after a reload, got %v", err)
	}
	if remote.err != nil {
		t.Fatalf("reload: %v", remote.err)
	}
	tasks := s.Tasks()
	if len(tasks) != 1 || tasks[0].ID != "srv-1" {
		t.Fatalf("expected the reloaded task exactly once, got %#v", tasks)
	}
}

func TestOvertakenLoadReportsStale(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	remote := newFakeRemote(now)
	s := New(Options{Remote: remote, Now: fixedClock(now)})
	remote.onCall = s.Invalidate

	if err := s.Load(context.Background()); !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
}

func TestSnoozeUsesClockLocation(t *testing.T) {
	eastern := time.FixedZone("UTC-5", -5*60*60)
	late := time.Date(2026, 2, 9, 23, 30, 0, 0, eastern)
	s := New(Options{
		Persister: &memoryPersister{},
		Now:       func() time.Time { return late },
		NewID:     sequentialIDs(),
	})
	ctx := context.Background()
	task, _ := s.Add(ctx, model.NewTaskInput{Title: "late night", Due: "2026-01-01"})

	snoozed, err := s.Snooze(ctx, task.ID)
	if err != nil {
		t.Fatalf("snooze: %v", err)
	}
	if snoozed.Due != "2026-02-09" {
		t.Fatalf("expected the local date, got %q", snoozed.Due)
	}
}
