package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"taskboard/domain"
)

// Store is the single owner of the board's tasks. The sequence order is the
// column order once filtered by status. Mutators never fail: they report
// whether the task was found and do nothing otherwise.
type Store struct {
	mu      sync.RWMutex
	tasks   []domain.Task
	version uint64

	newID  func() string
	now    func() time.Time
	log    *log.Logger
	broker *broker
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides uuid based identifiers.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithClock overrides the creation timestamp source.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) { s.now = fn }
}

// WithLogger sets the logger used for mutation events.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		newID:  uuid.NewString,
		now:    time.Now,
		log:    log.StandardLogger(),
		broker: newBroker(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Add appends a new todo task built from f and returns it.
func (s *Store) Add(ctx context.Context, f domain.Fields) domain.Task {
	op := s.begin(ctx, "add")
	s.mu.Lock()
	t := domain.Task{Status: domain.StatusTodo, CreatedAt: s.now()}
	// ids must stay unique even with a custom generator
	for {
		t.ID = s.newID()
		if s.indexLocked(t.ID) < 0 {
			break
		}
	}
	f.Apply(&t)
	s.tasks = append(s.tasks, t)
	s.commitLocked()
	s.mu.Unlock()

	op.end(t.ID, true)
	s.broker.notify()
	return t.Clone()
}

// Update replaces the editable fields of the task with id. Identity, status
// and position are kept.
func (s *Store) Update(ctx context.Context, id string, f domain.Fields) bool {
	return s.mutate(ctx, "update", id, func(i int) bool {
		f.Apply(&s.tasks[i])
		return true
	})
}

// Delete removes the task with id.
func (s *Store) Delete(ctx context.Context, id string) bool {
	return s.mutate(ctx, "delete", id, func(i int) bool {
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
		return true
	})
}

// SetStatus moves the task with id to another column. Unknown statuses are
// ignored.
func (s *Store) SetStatus(ctx context.Context, id string, st domain.Status) bool {
	if !st.Valid() {
		s.log.WithFields(log.Fields{"task": id, "status": st}).Warn("ignoring invalid status")
		return false
	}
	return s.mutate(ctx, "set_status", id, func(i int) bool {
		if s.tasks[i].Status == st {
			return false
		}
		s.tasks[i].Status = st
		return true
	})
}

// Move reassigns the task to the column adjacent in direction d. Nothing
// happens at the terminal column.
func (s *Store) Move(ctx context.Context, id string, d domain.Direction) bool {
	return s.mutate(ctx, "move", id, func(i int) bool {
		next, ok := s.tasks[i].Status.Step(d)
		if !ok {
			return false
		}
		s.tasks[i].Status = next
		return true
	})
}

// Reorder moves the task with id to position in the global sequence,
// shifting the tasks in between. position is clamped to the sequence.
func (s *Store) Reorder(ctx context.Context, id string, position int) bool {
	return s.mutate(ctx, "reorder", id, func(from int) bool {
		to := clamp(position, 0, len(s.tasks)-1)
		if from == to {
			return false
		}
		moveItem(s.tasks, from, to)
		return true
	})
}

// mutate runs fn on the index of id under the write lock. fn reports whether
// it changed anything; only changes bump the version and notify subscribers.
func (s *Store) mutate(ctx context.Context, name, id string, fn func(i int) bool) bool {
	op := s.begin(ctx, name)
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		op.missing(id)
		return false
	}
	changed := fn(i)
	if changed {
		s.commitLocked()
	}
	s.mu.Unlock()

	op.end(id, changed)
	if changed {
		s.broker.notify()
	}
	return true
}

func (s *Store) commitLocked() {
	s.version++
}

// Get returns a copy of the task with id.
func (s *Store) Get(_ context.Context, id string) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return domain.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// IndexOf returns the position of id in the global sequence or -1.
func (s *Store) IndexOf(_ context.Context, id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(id)
}

// Tasks returns a snapshot of the global sequence.
func (s *Store) Tasks() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Len returns the number of tasks on the board.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Version increases with every committed mutation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe returns a channel signalled after committed mutations and a
// function releasing it. Signals coalesce while the receiver is busy.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := s.broker.subscribe()
	return ch, func() { s.broker.unsubscribe(ch) }
}

func (s *Store) indexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func moveItem(tasks []domain.Task, from, to int) {
	t := tasks[from]
	if from < to {
		copy(tasks[from:to], tasks[from+1:to+1])
	} else {
		copy(tasks[to+1:from+1], tasks[to:from])
	}
	tasks[to] = t
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
