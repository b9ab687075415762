package todo

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// StorageError reports a failure to read or write the task file.
type StorageError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Store is the in-memory task list mirrored to a JSON file.
type Store struct {
	path    string
	tasks   []Task
	now     func() time.Time
	logger  *log.Logger
	decoder *Decoder
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load and save diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used for created_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDecoder overrides the decoder used by Load.
func WithDecoder(d *Decoder) Option {
	return func(s *Store) {
		if d != nil {
			s.decoder = d
		}
	}
}

// NewStore creates an empty store bound to path without reading it.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		tasks:  []Task{},
		now:    time.Now,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store and loads the task file at path.
func Open(path string, opts ...Option) (*Store, error) {
	s := NewStore(path, opts...)
	if _, err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the task file path.
func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory list with the file contents. A missing or
// malformed file results in an empty list and no error.
func (s *Store) Load() ([]Task, error) {
	data, err := ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("task file not found, starting empty", "path", s.path)
			s.tasks = []Task{}
			return s.List(), nil
		}
		return nil, &StorageError{Op: "load", Path: s.path, Err: err}
	}

	tasks, err := s.decode(data)
	if err != nil {
		s.logger.Warn("task file is malformed, starting empty", "path", s.path, "err", err)
		s.tasks = []Task{}
		return s.List(), nil
	}

	s.tasks = tasks
	s.logger.Debug("loaded tasks", "path", s.path, "count", len(tasks))
	return s.List(), nil
}

func (s *Store) decode(data []byte) ([]Task, error) {
	if s.decoder != nil {
		return s.decoder.Decode(data)
	}
	return Decode(data)
}

// Save writes the full list to the task file.
func (s *Store) Save() error {
	if err := WriteFile(s.path, s.tasks); err != nil {
		return &StorageError{Op: "save", Path: s.path, Err: err}
	}
	s.logger.Debug("saved tasks", "path", s.path, "count", len(s.tasks))
	return nil
}

// Add appends a new pending task and persists the list. If the write
// fails the task is dropped again.
func (s *Store) Add(description, category string) (Task, error) {
	if strings.TrimSpace(description) == "" {
		return Task{}, ErrEmptyDescription
	}
	id, err := nextID(s.tasks)
	if err != nil {
		return Task{}, err
	}

	task := newTask(id, description, category, s.now())
	s.tasks = append(s.tasks, task)
	if err := s.Save(); err != nil {
		s.tasks = s.tasks[:len(s.tasks)-1]
		return Task{}, err
	}
	return task, nil
}

// Complete marks the first task with id as done and persists the list.
// It returns false without writing if no task matches. A failed write
// restores the previous status.
func (s *Store) Complete(id int) (bool, error) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			prev := s.tasks[i].Status
			s.tasks[i].Status = StatusDone
			if err := s.Save(); err != nil {
				s.tasks[i].Status = prev
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Delete removes tasks with id and persists the list.
// It returns false without writing if no task matches. A failed write
// keeps the tasks.
func (s *Store) Delete(id int) (bool, error) {
	kept := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(s.tasks) {
		return false, nil
	}

	prev := s.tasks
	s.tasks = kept
	if err := s.Save(); err != nil {
		s.tasks = prev
		return false, err
	}
	return true, nil
}

// Get returns the first task with id, or false if none exists.
func (s *Store) Get(id int) (Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// List returns a copy of the tasks in insertion order.
func (s *Store) List() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}
