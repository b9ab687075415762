package todo

import (
	"errors"
	"fmt"
	"io/fs"
)

// CheckResult contains the outcome of a strict task file check.
type CheckResult struct {
	Path    string
	Exists  bool
	Valid   bool
	Tasks   int
	Errors  []error
	Pending int
	Done    int
}

// Check reads and strictly decodes the task file at path. Unlike
// Store.Load it reports malformed content instead of recovering from it.
// A missing file is valid and empty. A nil decoder selects the embedded
// schema.
func Check(path string, d *Decoder) *CheckResult {
	result := &CheckResult{Path: path, Valid: true}

	data, err := ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result
		}
		result.Exists = true
		result.Valid = false
		result.Errors = append(result.Errors, err)
		return result
	}
	result.Exists = true

	var tasks []Task
	if d != nil {
		tasks, err = d.Decode(data)
	} else {
		tasks, err = Decode(data)
	}
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, unjoin(err)...)
		return result
	}

	result.Tasks = len(tasks)
	for _, t := range tasks {
		if t.Status.IsDone() {
			result.Done++
		} else {
			result.Pending++
		}
	}
	return result
}

// Summary returns a one-line description of the result.
func (r *CheckResult) Summary() string {
	switch {
	case !r.Exists:
		return fmt.Sprintf("%s does not exist (treated as empty)", r.Path)
	case !r.Valid:
		return fmt.Sprintf("%s is invalid: %d problem(s)", r.Path, len(r.Errors))
	default:
		return fmt.Sprintf("%s is valid: %d task(s), %d pending, %d done", r.Path, r.Tasks, r.Pending, r.Done)
	}
}

func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
