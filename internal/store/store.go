package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/studytime/internal/model"
)

var (
	ErrNotFound = errors.New("store: task not found")
	ErrStale    = errors.New("store: stale remote result discarded")
)

type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

// Remote is the task service consulted in remote mode.
type Remote interface {
	List(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, in model.NewTaskInput) (model.Task, error)
	Patch(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error)
	Remove(ctx context.Context, id string) error
}

// Persister keeps the collection between runs in local mode.
type Persister interface {
	Load() ([]model.Task, error)
	Save(tasks []model.Task) error
}

type Options struct {
	// Exactly one of Persister or Remote selects the mode. Remote wins
	// when both are set.
	Persister Persister
	Remote    Remote
	Now       func() time.Time
	NewID     func() string
	Logger    *log.Logger
}

// Store owns the task collection. Mutations go through Reduce; in remote
// mode they are committed only after the remote confirms.
type Store struct {
	mu    sync.Mutex
	tasks []model.Task
	rev   uint64
	gen   uint64

	// saveMu orders local commits with their writes so the persisted
	// snapshot always matches the latest in-memory state.
	saveMu sync.Mutex

	mode      Mode
	persister Persister
	remote    Remote
	now       func() time.Time
	newID     func() string
	logger    *log.Logger
}

func New(opts Options) *Store {
	s := &Store{
		tasks:     []model.Task{},
		mode:      ModeLocal,
		persister: opts.Persister,
		remote:    opts.Remote,
		now:       opts.Now,
		newID:     opts.NewID,
		logger:    opts.Logger,
	}
	if s.remote != nil {
		s.mode = ModeRemote
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	return s
}

func (s *Store) Mode() Mode { return s.mode }

// Tasks returns a copy of the current collection.
func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.tasks)
}

// Revision increases on every committed change.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rev
}

func (s *Store) Find(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(id)
}

func (s *Store) findLocked(id string) (model.Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Invalidate makes every in-flight remote call resolve as ErrStale. Call it
// when the owning view goes away.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.gen++
	s.mu.Unlock()
}

// Load hydrates the collection from the persister or the remote list. It
// starts a new generation, so remote calls already in flight resolve as
// ErrStale instead of landing on top of the fresh list. A Load overtaken by
// a later Load or Invalidate returns ErrStale itself.
func (s *Store) Load(ctx context.Context) error {
	if s.mode == ModeRemote {
		gen := s.nextGeneration()
		tasks, err := s.remote.List(ctx)
		if err != nil {
			return fmt.Errorf("list remote tasks: %w", err)
		}
		return s.commitRemote(gen, Replace{Tasks: tasks})
	}
	if s.persister == nil {
		return nil
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	tasks, err := s.persister.Load()
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	s.mu.Lock()
	s.gen++
	s.tasks = clone(tasks)
	s.rev++
	s.mu.Unlock()
	s.logger.Printf("store=load mode=%s tasks=%d", s.mode, len(tasks))
	return nil
}

func (s *Store) Add(ctx context.Context, in model.NewTaskInput) (model.Task, error) {
	if s.mode == ModeRemote {
		gen := s.generation()
		created, err := s.remote.Create(ctx, in.Normalize())
		if err != nil {
			return model.Task{}, fmt.Errorf("create remote task: %w", err)
		}
		if err := s.commitRemote(gen, Add{Task: created}); err != nil {
			return model.Task{}, err
		}
		return created, nil
	}
	task := model.NewTask(in, s.newID(), s.now())
	s.commitLocal(Add{Task: task})
	return task, nil
}

func (s *Store) Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	if _, ok := s.Find(id); !ok {
		return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if s.mode == ModeRemote {
		return s.patchRemote(ctx, id, patch)
	}
	s.commitLocal(Update{ID: id, Patch: patch})
	task, _ := s.Find(id)
	return task, nil
}

func (s *Store) Toggle(ctx context.Context, id string) (model.Task, error) {
	current, ok := s.Find(id)
	if !ok {
		return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if s.mode == ModeRemote {
		return s.patchRemote(ctx, id, model.TaskPatch{Completed: model.Ptr(!current.Completed)})
	}
	s.commitLocal(Toggle{ID: id})
	task, _ := s.Find(id)
	return task, nil
}

// Snooze moves the due date to today in the clock's own location, which is
// the student's local day.
func (s *Store) Snooze(ctx context.Context, id string) (model.Task, error) {
	today := model.FormatDate(s.now())
	return s.Update(ctx, id, model.TaskPatch{Due: &today})
}

// Delete is idempotent: an unknown id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, ok := s.Find(id); !ok {
		return nil
	}
	if s.mode == ModeRemote {
		gen := s.generation()
		if err := s.remote.Remove(ctx, id); err != nil {
			return fmt.Errorf("remove remote task %s: %w", id, err)
		}
		return s.commitRemote(gen, Delete{ID: id})
	}
	s.commitLocal(Delete{ID: id})
	return nil
}

// ClearCompleted removes all completed tasks and reports how many went.
// In remote mode each removal is confirmed first; on a failure the tasks
// already removed remotely are dropped locally and the error is returned.
func (s *Store) ClearCompleted(ctx context.Context) (int, error) {
	done := make([]string, 0)
	for _, t := range s.Tasks() {
		if t.Completed {
			done = append(done, t.ID)
		}
	}
	if len(done) == 0 {
		return 0, nil
	}
	if s.mode == ModeLocal {
		s.commitLocal(ClearCompleted{})
		return len(done), nil
	}

	gen := s.generation()
	removed := make([]string, 0, len(done))
	var removeErr error
	for _, id := range done {
		if err := s.remote.Remove(ctx, id); err != nil {
			removeErr = fmt.Errorf("remove remote task %s: %w", id, err)
			break
		}
		removed = append(removed, id)
	}
	for _, id := range removed {
		if err := s.commitRemote(gen, Delete{ID: id}); err != nil {
			return 0, err
		}
	}
	return len(removed), removeErr
}

// ReplaceAll overwrites the collection. In-flight remote results started
// before the replacement are discarded.
func (s *Store) ReplaceAll(tasks []model.Task) {
	s.nextGeneration()
	s.commitLocal(Replace{Tasks: tasks})
}

func (s *Store) patchRemote(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	gen := s.generation()
	canonical, err := s.remote.Patch(ctx, id, patch)
	if err != nil {
		return model.Task{}, fmt.Errorf("patch remote task %s: %w", id, err)
	}
	if err := s.commitRemote(gen, Reconcile{Task: canonical}); err != nil {
		return model.Task{}, err
	}
	return canonical, nil
}

func (s *Store) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *Store) nextGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

func (s *Store) commitRemote(gen uint64, a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.logger.Printf("store=discard action=%T reason=stale", a)
		return ErrStale
	}
	s.tasks = Reduce(s.tasks, a, s.now())
	s.rev++
	return nil
}

// commitLocal applies a and, in local mode, writes the result through.
// Write failures are logged; the in-memory state stays authoritative.
func (s *Store) commitLocal(a Action) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	s.tasks = Reduce(s.tasks, a, s.now())
	s.rev++
	snapshot := clone(s.tasks)
	s.mu.Unlock()

	if s.mode != ModeLocal || s.persister == nil {
		return
	}
	if err := s.persister.Save(snapshot); err != nil {
		s.logger.Printf("store=save error=%q", err)
	}
}
