package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/tally/internal/todo"
)

// TaskStore is the part of *todo.Store the TUI drives.
type TaskStore interface {
	Path() string
	Load() ([]todo.Task, error)
	List() []todo.Task
	Complete(id int) (bool, error)
	Delete(id int) (bool, error)
}

// filter selects which tasks the TUI shows.
type filter int

const (
	filterAll filter = iota
	filterPending
	filterDone
)

func (f filter) String() string {
	switch f {
	case filterPending:
		return "pending"
	case filterDone:
		return "done"
	default:
		return "all"
	}
}

// RunTUI starts the interactive task list on stdout.
func RunTUI(ctx context.Context, store TaskStore, styles *Styles) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(store, styles)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(*tuiModel); ok && m.fatalErr != nil {
		return m.fatalErr
	}
	return nil
}

type tuiModel struct {
	store    TaskStore
	styles   *Styles
	tasks    []todo.Task
	visible  []todo.Task
	cursor   int
	filter   filter
	showHelp bool
	status   string
	fatalErr error
}

func newTUIModel(store TaskStore, styles *Styles) *tuiModel {
	if styles == nil {
		styles = NewStyles(os.Stdout, false)
	}
	m := &tuiModel{store: store, styles: styles}
	m.sync()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(len(m.visible)-1, 0)
	case "enter", " ", "c":
		return m, m.complete()
	case "x", "d", "delete":
		return m, m.delete()
	case "r", "f5":
		if _, err := m.store.Load(); err != nil {
			m.fatalErr = err
			return m, tea.Quit
		}
		m.status = "Reloaded " + m.store.Path()
		m.sync()
	case "h", "?":
		m.showHelp = !m.showHelp
	case "1":
		m.setFilter(filterPending)
	case "2":
		m.setFilter(filterDone)
	case "0":
		m.setFilter(filterAll)
	}
	return m, nil
}

func (m *tuiModel) complete() tea.Cmd {
	task, ok := m.selected()
	if !ok {
		return nil
	}
	if _, err := m.store.Complete(task.ID); err != nil {
		m.fatalErr = err
		return tea.Quit
	}
	m.status = fmt.Sprintf("Task %d marked as done!", task.ID)
	m.sync()
	return nil
}

func (m *tuiModel) delete() tea.Cmd {
	task, ok := m.selected()
	if !ok {
		return nil
	}
	if _, err := m.store.Delete(task.ID); err != nil {
		m.fatalErr = err
		return tea.Quit
	}
	m.status = fmt.Sprintf("Task %d deleted.", task.ID)
	m.sync()
	return nil
}

func (m *tuiModel) selected() (todo.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return todo.Task{}, false
	}
	return m.visible[m.cursor], true
}

func (m *tuiModel) setFilter(f filter) {
	m.filter = f
	m.cursor = 0
	m.sync()
}

// sync refreshes the task snapshot and keeps the cursor in range.
func (m *tuiModel) sync() {
	m.tasks = m.store.List()
	m.visible = m.visible[:0]
	for _, t := range m.tasks {
		switch {
		case m.filter == filterPending && t.Status.IsDone():
			continue
		case m.filter == filterDone && !t.Status.IsDone():
			continue
		}
		m.visible = append(m.visible, t)
	}
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	st := m.styles

	b.WriteString(st.Title.Render("Your To-Do List") + "\n\n")

	if m.showHelp {
		writeHelp(&b, st)
		return b.String()
	}

	pending, done := 0, 0
	for _, t := range m.tasks {
		if t.Status.IsDone() {
			done++
		} else {
			pending++
		}
	}
	b.WriteString(fmt.Sprintf("  Pending: %d  Done: %d  Filter: %s\n\n", pending, done, m.filter))

	if len(m.visible) == 0 {
		b.WriteString("  " + st.Warning.Render(EmptyListMessage) + "\n\n")
	}
	for i, t := range m.visible {
		b.WriteString(m.formatRow(t, i == m.cursor))
		b.WriteString("\n")
	}
	if len(m.visible) > 0 {
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("  " + st.Success.Render(m.status) + "\n\n")
	}
	b.WriteString(st.Hint.Render("enter complete | x delete | 1/2/0 filter | h help | q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *tuiModel) formatRow(t todo.Task, selected bool) string {
	st := m.styles
	pointer := "  "
	check := "[ ]"
	statusStyle := st.Pending
	if t.Status.IsDone() {
		check = "[x]"
		statusStyle = st.Done
	}
	if selected {
		pointer = st.Selected.Render("> ")
	}

	line := fmt.Sprintf("%s %3d  %s", statusStyle.Render(check), t.ID, t.Description)
	meta := st.Hint.Render(fmt.Sprintf("  (%s, %s)", t.Category, t.CreatedAt))
	if selected {
		line = st.Selected.Render(line)
	}
	return pointer + line + meta
}

func writeHelp(b *strings.Builder, st *Styles) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, esc, ctrl+c   Quit\n")
	b.WriteString("  up/k, down/j     Move selection\n")
	b.WriteString("  g, G             First / last task\n")
	b.WriteString("  enter, space, c  Mark selected task as done\n")
	b.WriteString("  x, d, delete     Delete selected task\n")
	b.WriteString("  r, F5            Reload task file\n")
	b.WriteString("  1                Show pending only\n")
	b.WriteString("  2                Show done only\n")
	b.WriteString("  0                Show all\n")
	b.WriteString("  h, ?             Toggle this help screen\n\n")
	b.WriteString(st.Hint.Render("Press h to go back"))
	b.WriteString("\n")
}
