// Package ui renders tasks and messages for the terminal.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nibzard/tally/internal/todo"
)

// EmptyListMessage is printed when there is nothing to list.
const EmptyListMessage = "No tasks found. Add one using 'add'!"

// Renderer writes a task listing.
type Renderer interface {
	RenderTasks(w io.Writer, tasks []todo.Task) error
}

// NewRenderer returns the renderer for format (table, json, plain).
func NewRenderer(format string, styles *Styles) (Renderer, error) {
	switch format {
	case "table", "":
		return &TableRenderer{Styles: styles}, nil
	case "json":
		return JSONRenderer{}, nil
	case "plain":
		return PlainRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// StatusLabel decorates a status for display.
func StatusLabel(s todo.Status) string {
	if s.IsDone() {
		return "Done ✅"
	}
	return string(todo.StatusPending)
}

// TableRenderer draws a bordered, colored table.
type TableRenderer struct {
	Styles *Styles
}

// RenderTasks implements Renderer.
func (r *TableRenderer) RenderTasks(w io.Writer, tasks []todo.Task) error {
	st := r.Styles
	if st == nil {
		st = NewStyles(w, false)
	}
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, st.Warning.Render(EmptyListMessage))
		return err
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			strconv.Itoa(t.ID),
			t.Description,
			t.Category,
			StatusLabel(t.Status),
			t.CreatedAt.String(),
		})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(st.Border).
		Headers("ID", "Description", "Category", "Status", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.Header
			}
			switch col {
			case 0:
				return st.ID
			case 1:
				return st.Description
			case 2:
				return st.Category
			case 3:
				if row >= 0 && row < len(tasks) && tasks[row].Status.IsDone() {
					return st.Done.Padding(0, 1)
				}
				return st.Pending.Padding(0, 1)
			default:
				return st.Created
			}
		})

	if _, err := fmt.Fprintln(w, st.Title.Render("Your To-Do List")); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}

// JSONRenderer writes the tasks in the storage format.
type JSONRenderer struct{}

// RenderTasks implements Renderer.
func (JSONRenderer) RenderTasks(w io.Writer, tasks []todo.Task) error {
	data, err := todo.Encode(tasks)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// PlainRenderer writes one tab-separated line per task, no decoration.
type PlainRenderer struct{}

// RenderTasks implements Renderer.
func (PlainRenderer) RenderTasks(w io.Writer, tasks []todo.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, EmptyListMessage)
		return err
	}
	for _, t := range tasks {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			t.ID, t.Status, t.Category, t.CreatedAt, t.Description); err != nil {
			return err
		}
	}
	return nil
}

// Printer writes styled one-line messages.
type Printer struct {
	Out    io.Writer
	Styles *Styles
}

// NewPrinter creates a printer for w.
func NewPrinter(w io.Writer, styles *Styles) *Printer {
	if styles == nil {
		styles = NewStyles(w, false)
	}
	return &Printer{Out: w, Styles: styles}
}

// Success prints a green message.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.Out, p.Styles.Success.Render(fmt.Sprintf(format, args...)))
}

// Failure prints a red message.
func (p *Printer) Failure(format string, args ...any) {
	fmt.Fprintln(p.Out, p.Styles.Error.Render(fmt.Sprintf(format, args...)))
}

// Warn prints a yellow message.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.Out, p.Styles.Warning.Render(fmt.Sprintf(format, args...)))
}

// Plain prints an unstyled message.
func (p *Printer) Plain(format string, args ...any) {
	fmt.Fprintf(p.Out, format+"\n", args...)
}

// JSON writes v as indented JSON.
func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
