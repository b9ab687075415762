package todo

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func fixedClock() time.Time {
	return time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	s, err := Open(path, WithClock(fixedClock))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s, path
}

func seedStore(t *testing.T, s *Store, descriptions ...string) {
	t.Helper()
	for _, d := range descriptions {
		if _, err := s.Add(d, ""); err != nil {
			t.Fatalf("Add(%q) failed: %v", d, err)
		}
	}
}

func ids(tasks []Task) []int {
	out := make([]int, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func sameIDs(got []Task, want ...int) bool {
	g := ids(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func TestOpenMissingFile(t *testing.T) {
	s, path := newTestStore(t)
	if s.Len() != 0 {
		t.Errorf("Len: got %d, want 0", s.Len())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Open should not create the file, stat err = %v", err)
	}
}

func TestAddAssignsIDs(t *testing.T) {
	s, _ := newTestStore(t)

	first, err := s.Add("buy milk", "Personal")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if first.ID != 1 {
		t.Errorf("ID: got %d, want 1", first.ID)
	}
	if first.Status != StatusPending {
		t.Errorf("Status: got %q, want Pending", first.Status)
	}
	if first.Category != "Personal" {
		t.Errorf("Category: got %q, want Personal", first.Category)
	}
	if first.CreatedAt.String() != "2024-05-06 07:08" {
		t.Errorf("CreatedAt: got %q, want 2024-05-06 07:08", first.CreatedAt)
	}

	second, err := s.Add("walk dog", "")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if second.ID != 2 {
		t.Errorf("ID: got %d, want 2", second.ID)
	}
	if second.Category != DefaultCategory {
		t.Errorf("Category: got %q, want %q", second.Category, DefaultCategory)
	}
}

func TestAddRejectsEmptyDescription(t *testing.T) {
	s, path := newTestStore(t)

	if _, err := s.Add("   ", "Work"); !errors.Is(err, ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len: got %d, want 0", s.Len())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("rejected Add should not write the file")
	}
}

func TestAddAfterDeleteUsesMaxPlusOne(t *testing.T) {
	s, _ := newTestStore(t)
	seedStore(t, s, "a", "b", "c")

	if ok, err := s.Delete(2); err != nil || !ok {
		t.Fatalf("Delete(2) = %v, %v", ok, err)
	}
	task, err := s.Add("d", "")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if task.ID != 4 {
		t.Errorf("ID: got %d, want 4", task.ID)
	}
}

func TestWriteThrough(t *testing.T) {
	s, path := newTestStore(t)
	seedStore(t, s, "buy milk")

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !sameIDs(reopened.List(), 1) {
		t.Fatalf("after Add: got ids %v, want [1]", ids(reopened.List()))
	}

	if _, err := s.Complete(1); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if _, err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := reopened.List()[0].Status; got != StatusDone {
		t.Errorf("after Complete: status %q, want Done", got)
	}

	if _, err := s.Delete(1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if reopened.Len() != 0 {
		t.Errorf("after Delete: Len %d, want 0", reopened.Len())
	}
}

func TestRoundTrip(t *testing.T) {
	s, path := newTestStore(t)
	seedStore(t, s, "first", "second", "third")
	if _, err := s.Complete(2); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	original := s.List()

	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loaded) != len(original) {
		t.Fatalf("Tasks count: got %d, want %d", len(loaded), len(original))
	}
	for i := range original {
		if !loaded[i].Equal(original[i]) {
			t.Errorf("task %d: got %+v, want %+v", i, loaded[i], original[i])
		}
	}
}

func TestDelete(t *testing.T) {
	s, path := newTestStore(t)
	seedStore(t, s, "a", "b", "c")

	ok, err := s.Delete(1)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !ok {
		t.Error("Delete(1) = false, want true")
	}
	if !sameIDs(s.List(), 2, 3) {
		t.Errorf("ids: got %v, want [2 3]", ids(s.List()))
	}

	// Unknown ids must not touch the file.
	sentinel := []byte("sentinel")
	if err := os.WriteFile(path, sentinel, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ok, err = s.Delete(99)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if ok {
		t.Error("Delete(99) = true, want false")
	}
	if !sameIDs(s.List(), 2, 3) {
		t.Errorf("ids: got %v, want [2 3]", ids(s.List()))
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(after, sentinel) {
		t.Errorf("Delete of unknown id rewrote the file: %q", after)
	}
}

func TestComplete(t *testing.T) {
	s, _ := newTestStore(t)
	seedStore(t, s, "a", "b")

	ok, err := s.Complete(2)
	if err != nil || !ok {
		t.Fatalf("Complete(2) = %v, %v", ok, err)
	}
	task, _ := s.Get(2)
	if task.Status != StatusDone {
		t.Errorf("Status: got %q, want Done", task.Status)
	}

	ok, err = s.Complete(2)
	if err != nil || !ok {
		t.Fatalf("second Complete(2) = %v, %v", ok, err)
	}
	task, _ = s.Get(2)
	if task.Status != StatusDone {
		t.Errorf("Status after second Complete: got %q, want Done", task.Status)
	}

	other, _ := s.Get(1)
	if other.Status != StatusPending {
		t.Errorf("task 1 should stay Pending, got %q", other.Status)
	}

	ok, err = s.Complete(42)
	if err != nil {
		t.Fatalf("Complete(42) error: %v", err)
	}
	if ok {
		t.Error("Complete(42) = true, want false")
	}
}

func TestListReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	seedStore(t, s, "a")

	list := s.List()
	list[0].Description = "mutated"

	task, _ := s.Get(1)
	if task.Description != "a" {
		t.Errorf("List should return a copy, store has %q", task.Description)
	}
}

func TestLoadMalformedRecovers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var buf bytes.Buffer
	logger := log.New(&buf)
	s, err := Open(path, WithLogger(logger))
	if err != nil {
		t.Fatalf("Open should not fail on malformed file: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len: got %d, want 0", s.Len())
	}
	if !strings.Contains(buf.String(), "malformed") {
		t.Errorf("expected warning in log output, got %q", buf.String())
	}

	task, err := s.Add("fresh start", "")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if task.ID != 1 {
		t.Errorf("ID: got %d, want 1", task.ID)
	}
}

func TestLoadUnreadableReturnsStorageError(t *testing.T) {
	dir := t.TempDir()
	// A directory at the task path cannot be read as a file.
	path := filepath.Join(dir, "tasks.json")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	_, err := Open(path)
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StorageError, got %v", err)
	}
	if se.Op != "load" {
		t.Errorf("Op: got %q, want load", se.Op)
	}
}

func TestSaveFailurePropagates(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	dir := filepath.Join(t.TempDir(), "ro")
	if err := os.Mkdir(dir, 0o555); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	s := NewStore(filepath.Join(dir, "tasks.json"))
	_, err := s.Add("cannot persist", "")
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StorageError, got %v", err)
	}
	if se.Op != "save" {
		t.Errorf("Op: got %q, want save", se.Op)
	}
	if s.Len() != 0 {
		t.Errorf("failed Add should not stay in memory, Len %d", s.Len())
	}
}

func TestSaveToDirectoryPathFails(t *testing.T) {
	path := t.TempDir()
	s := NewStore(path)

	_, err := s.Add("x", "")
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StorageError, got %v", err)
	}
}

func TestAddIDExhausted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	created, _ := ParseTimestamp("2024-01-01 09:30")
	seed := []Task{
		{ID: math.MaxInt, Description: "a", Category: "General", Status: StatusPending, CreatedAt: created},
		{ID: 1, Description: "b", Category: "General", Status: StatusDone, CreatedAt: created},
	}
	if err := WriteFile(path, seed); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", s.Len())
	}

	if _, err := s.Add("c", ""); !errors.Is(err, ErrIDExhausted) {
		t.Fatalf("expected ErrIDExhausted, got %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("Len after failed Add: got %d, want 2", s.Len())
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("failed Add should not write the file")
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !sameIDs(reopened.List(), math.MaxInt, 1) {
		t.Errorf("ids after reopen: got %v", ids(reopened.List()))
	}
}

func TestFailedSaveRollsBack(t *testing.T) {
	s, path := newTestStore(t)
	seedStore(t, s, "a", "b")
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	failRename(t)

	tests := []struct {
		name string
		op   func() error
	}{
		{"add", func() error { _, err := s.Add("c", ""); return err }},
		{"complete", func() error { _, err := s.Complete(1); return err }},
		{"delete", func() error { _, err := s.Delete(2); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var se *StorageError
			if err := tt.op(); !errors.As(err, &se) {
				t.Fatalf("expected *StorageError, got %v", err)
			}
			if !sameIDs(s.List(), 1, 2) {
				t.Errorf("ids: got %v, want [1 2]", ids(s.List()))
			}
			if task, _ := s.Get(1); task.Status != StatusPending {
				t.Errorf("task 1 status: got %q, want Pending", task.Status)
			}
			after, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if !bytes.Equal(before, after) {
				t.Errorf("file changed after failed %s", tt.name)
			}
		})
	}
}
