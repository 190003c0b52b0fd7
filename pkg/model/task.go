// Package model holds the records persisted by the progress store.
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// TaskRefPrefix is the human-facing prefix of a task reference, e.g. TSK-12.
const TaskRefPrefix = "TSK"

// ErrInvalidTaskRef is returned when a task reference is not of the form TSK-<digits>.
var ErrInvalidTaskRef = errors.New("invalid task id")

// Task is a single to-do item
type Task struct {
	ID        uint32 `json:"id"`
	Done      bool   `json:"done"`
	Label     string `json:"label"`
	CreatedAt int64  `json:"created_at"`           // Unix seconds, immutable
	CheckedAt *int64 `json:"checked_at,omitempty"` // Unix seconds, set iff Done
}

// Consistent reports whether the completion flag agrees with the checked timestamp.
func (t Task) Consistent() bool {
	return (t.CheckedAt != nil) == t.Done
}

// Ref returns the task reference shown to users.
func (t Task) Ref() string {
	return FormatTaskRef(t.ID)
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	if t.CheckedAt != nil {
		checked := *t.CheckedAt
		t.CheckedAt = &checked
	}
	return t
}

// Metadata is the single store-wide record.
type Metadata struct {
	LastTaskID uint32 `json:"last_task_id"` // next id to assign
}

// Data is the full persisted state: metadata plus tasks in store order.
type Data struct {
	Metadata Metadata `json:"metadata"`
	Tasks    []Task   `json:"tasks"`
}

// Clone returns a deep copy of the data.
func (d *Data) Clone() *Data {
	out := &Data{Metadata: d.Metadata, Tasks: make([]Task, len(d.Tasks))}
	for i, t := range d.Tasks {
		out.Tasks[i] = t.Clone()
	}
	return out
}

// FormatTaskRef renders an id as TSK-<id>.
func FormatTaskRef(id uint32) string {
	return fmt.Sprintf("%s-%d", TaskRefPrefix, id)
}

// ParseTaskRef parses TSK-<digits> (prefix is case-insensitive) into a task id.
func ParseTaskRef(ref string) (uint32, error) {
	prefix, digits, ok := strings.Cut(strings.TrimSpace(ref), "-")
	if !ok || !strings.EqualFold(prefix, TaskRefPrefix) || digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTaskRef, ref)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTaskRef, ref)
		}
	}
	id, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTaskRef, ref)
	}
	return uint32(id), nil
}
