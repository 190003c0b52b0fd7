package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultFileName is the store file name inside the store root
const DefaultFileName = "progress.store"

// Config holds configuration for the record store
type Config struct {
	Path    string             // Path to the store file, used when Backend is nil
	Backend Backend            // Source and sink of the encoded store bytes
	Clock   Clock              // Defaults to SystemClock in the local zone
	Logger  logrus.FieldLogger // Defaults to a discarding logger
	Archive Archiver           // Optional; receives the previous file contents on every save
}

// Backend reads and writes the raw store bytes
type Backend interface {
	// Read returns the stored bytes; found is false when nothing has been persisted yet.
	Read() (data []byte, found bool, err error)
	// Write replaces the stored bytes as a whole.
	Write(data []byte) error
	// Location describes where the bytes live, for messages.
	Location() string
}

// Archiver keeps copies of superseded store contents
type Archiver interface {
	Archive(contents []byte, at time.Time) (string, error)
}

// ErrorKind classifies store errors
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindInvalidTransition
	KindInvalidLabel
	KindCorrupt
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalidTransition:
		return "invalid transition"
	case KindInvalidLabel:
		return "invalid label"
	case KindCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// StoreError represents a recoverable store error. The store is unchanged when one is returned.
type StoreError struct {
	Kind    ErrorKind
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}

// Errors
var (
	ErrTaskNotFound     = &StoreError{KindNotFound, "task does not exist"}
	ErrAlreadyDone      = &StoreError{KindInvalidTransition, "task already done"}
	ErrNotCompleted     = &StoreError{KindInvalidTransition, "task not completed yet"}
	ErrNotRemovable     = &StoreError{KindInvalidTransition, "cannot remove task that wasn't created today"}
	ErrNotUncheckable   = &StoreError{KindInvalidTransition, "cannot uncheck task that wasn't created today"}
	ErrTaskFinished     = &StoreError{KindInvalidTransition, "cannot rename finished task"}
	ErrInvalidLabel     = &StoreError{KindInvalidLabel, "invalid task label"}
	ErrIDSpaceExhausted = &StoreError{KindInvalidTransition, "no task ids left"}
	ErrDuplicateID      = &StoreError{KindCorrupt, "duplicate task id"}
)

// IOError wraps a failure to read or write the persisted store
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s store %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func kindOf(err error) ErrorKind {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Kind
	}
	return 0
}

// IsNotFound reports whether err refers to an unknown task.
func IsNotFound(err error) bool {
	return kindOf(err) == KindNotFound
}

// IsInvalidTransition reports whether err is a rejected state change.
func IsInvalidTransition(err error) bool {
	return kindOf(err) == KindInvalidTransition
}

// IsInvalidLabel reports whether err is a rejected label.
func IsInvalidLabel(err error) bool {
	return kindOf(err) == KindInvalidLabel
}
