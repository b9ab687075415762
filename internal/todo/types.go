package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// DefaultCategory is used when a task is added without a category.
const DefaultCategory = "General"

// TimeLayout is the on-disk format of created_at (minute precision).
const TimeLayout = "2006-01-02 15:04"

// ErrEmptyDescription is returned by Add for a blank description.
var ErrEmptyDescription = errors.New("task description is required")

// ErrIDExhausted is returned by Add when the highest id is already math.MaxInt.
var ErrIDExhausted = errors.New("no task ids left")

// Status represents a task status.
type Status string

const (
	StatusPending Status = "Pending"
	StatusDone    Status = "Done"
)

// legacyDone is the decorated status written by the original Python tool.
const legacyDone = "Done ✅"

// ParseStatus converts a stored status string to a Status.
func ParseStatus(s string) (Status, error) {
	switch s {
	case string(StatusPending):
		return StatusPending, nil
	case string(StatusDone), legacyDone:
		return StatusDone, nil
	default:
		return "", fmt.Errorf("invalid status %q, must be one of: Pending, Done", s)
	}
}

// UnmarshalJSON accepts the canonical values and the legacy "Done ✅".
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// IsDone reports whether the status is Done.
func (s Status) IsDone() bool {
	return s == StatusDone
}

// Timestamp is a wall-clock time serialized with minute precision.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to the minute.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Minute)}
}

// ParseTimestamp parses a TimeLayout string in the local time zone.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.ParseInLocation(TimeLayout, s, time.Local)
	if err != nil {
		return Timestamp{}, err
	}
	return Timestamp{Time: t}, nil
}

// String formats the timestamp using TimeLayout.
func (ts Timestamp) String() string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(TimeLayout)
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return fmt.Errorf("invalid created_at %q: %w", raw, err)
	}
	*ts = parsed
	return nil
}

// Task represents a single task in the todo list.
type Task struct {
	ID          int       `json:"id"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Status      Status    `json:"status"`
	CreatedAt   Timestamp `json:"created_at"`
}

// IsZero returns true if the task is empty (has no ID).
func (t Task) IsZero() bool {
	return t.ID == 0
}

// Equal compares two tasks field by field at minute precision.
func (t Task) Equal(other Task) bool {
	return t.ID == other.ID &&
		t.Description == other.Description &&
		t.Category == other.Category &&
		t.Status == other.Status &&
		t.CreatedAt.String() == other.CreatedAt.String()
}

// newTask builds a pending task, applying the category default.
func newTask(id int, description, category string, now time.Time) Task {
	if strings.TrimSpace(category) == "" {
		category = DefaultCategory
	}
	return Task{
		ID:          id,
		Description: description,
		Category:    category,
		Status:      StatusPending,
		CreatedAt:   NewTimestamp(now),
	}
}

// nextID returns max(existing ids)+1, or 1 for an empty list.
func nextID(tasks []Task) (int, error) {
	maxID := 0
	for _, t := range tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	if maxID == math.MaxInt {
		return 0, ErrIDExhausted
	}
	return maxID + 1, nil
}
