package ui

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/tally/internal/todo"
)

func sampleTasks(t *testing.T) []todo.Task {
	t.Helper()
	created, err := todo.ParseTimestamp("2024-01-02 10:30")
	if err != nil {
		t.Fatalf("ParseTimestamp: %v", err)
	}
	return []todo.Task{
		{ID: 1, Description: "buy milk", Category: "Personal", Status: todo.StatusPending, CreatedAt: created},
		{ID: 2, Description: "ship release", Category: "Work", Status: todo.StatusDone, CreatedAt: created},
	}
}

func TestNewRenderer(t *testing.T) {
	styles := NewStyles(new(bytes.Buffer), true)
	for _, format := range []string{"", "table", "json", "plain"} {
		if _, err := NewRenderer(format, styles); err != nil {
			t.Errorf("NewRenderer(%q) error: %v", format, err)
		}
	}
	if _, err := NewRenderer("xml", styles); err == nil {
		t.Error("NewRenderer(xml) should fail")
	}
}

func TestTableRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := &TableRenderer{Styles: NewStyles(&buf, true)}

	if err := r.RenderTasks(&buf, sampleTasks(t)); err != nil {
		t.Fatalf("RenderTasks failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Your To-Do List",
		"ID", "Description", "Category", "Status", "Created",
		"buy milk", "Personal", "Pending",
		"ship release", "Work", "Done ✅",
		"2024-01-02 10:30",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("no-color table should not contain ANSI escapes:\n%q", out)
	}
	if strings.Index(out, "buy milk") > strings.Index(out, "ship release") {
		t.Error("rows should keep insertion order")
	}
}

func TestTableRendererEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := &TableRenderer{Styles: NewStyles(&buf, true)}

	if err := r.RenderTasks(&buf, nil); err != nil {
		t.Fatalf("RenderTasks failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != EmptyListMessage {
		t.Errorf("got %q, want %q", buf.String(), EmptyListMessage)
	}
}

func TestJSONRendererMatchesStorage(t *testing.T) {
	var buf bytes.Buffer
	tasks := sampleTasks(t)

	if err := (JSONRenderer{}).RenderTasks(&buf, tasks); err != nil {
		t.Fatalf("RenderTasks failed: %v", err)
	}
	back, err := todo.Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("JSON output should decode as a task file: %v", err)
	}
	if len(back) != 2 || !back[1].Equal(tasks[1]) {
		t.Errorf("round trip mismatch: %+v", back)
	}
}

func TestPlainRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := (PlainRenderer{}).RenderTasks(&buf, sampleTasks(t)); err != nil {
		t.Fatalf("RenderTasks failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines: got %d, want 2", len(lines))
	}
	if lines[0] != "1\tPending\tPersonal\t2024-01-02 10:30\tbuy milk" {
		t.Errorf("line 0: got %q", lines[0])
	}
}

func TestStatusLabel(t *testing.T) {
	if got := StatusLabel(todo.StatusDone); got != "Done ✅" {
		t.Errorf("StatusLabel(Done) = %q", got)
	}
	if got := StatusLabel(todo.StatusPending); got != "Pending" {
		t.Errorf("StatusLabel(Pending) = %q", got)
	}
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, NewStyles(&buf, true))

	p.Success("Task %d marked as done!", 3)
	p.Failure("Task %d not found.", 9)

	want := "Task 3 marked as done!\nTask 9 not found.\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(new(bytes.Buffer)) {
		t.Error("a buffer is not a TTY")
	}
}

func TestRenderStoreContents(t *testing.T) {
	store, err := todo.Open(filepath.Join(t.TempDir(), "tasks.json"),
		todo.WithClock(func() time.Time { return time.Date(2024, 2, 3, 4, 5, 0, 0, time.Local) }))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.Add("water plants", ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	var buf bytes.Buffer
	if err := (PlainRenderer{}).RenderTasks(&buf, store.List()); err != nil {
		t.Fatalf("RenderTasks failed: %v", err)
	}
	if !strings.Contains(buf.String(), "General") {
		t.Errorf("expected default category in %q", buf.String())
	}
}
