package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/ssargent/progress/pkg/codec"
	"github.com/ssargent/progress/pkg/model"
)

// Store owns the task records and enforces the task rules. It is not safe for
// concurrent use and assumes a single process works on a given store file.
type Store struct {
	backend Backend
	codec   *codec.TaskCodec
	clock   Clock
	log     logrus.FieldLogger
	archive Archiver
	data    *model.Data
}

// Open loads the store described by config. A store that was never saved opens empty.
func Open(config Config) (*Store, error) {
	backend := config.Backend
	if backend == nil {
		if config.Path == "" {
			return nil, errors.New("store path is required")
		}
		backend = NewFileBackend(config.Path)
	}

	clock := config.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	logger := config.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	s := &Store{
		backend: backend,
		codec:   codec.NewTaskCodec(),
		clock:   clock,
		log:     logger.WithField("store", backend.Location()),
		archive: config.Archive,
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) load() error {
	raw, found, err := s.backend.Read()
	if err != nil {
		return err
	}

	if !found {
		s.log.Debug("no store file yet, starting empty")
		s.data = &model.Data{Tasks: []model.Task{}}
		return nil
	}

	data, err := s.codec.Decode(raw)
	if err != nil {
		return fmt.Errorf("failed to load store %s: %w", s.backend.Location(), err)
	}

	if err := checkUniqueIDs(data.Tasks); err != nil {
		return fmt.Errorf("failed to load store %s: %w", s.backend.Location(), err)
	}

	s.repairMetadata(data)
	s.data = data

	s.log.WithFields(logrus.Fields{
		"tasks":        len(data.Tasks),
		"last_task_id": data.Metadata.LastTaskID,
	}).Debug("store loaded")

	return nil
}

// repairMetadata moves LastTaskID past the highest known id so it can never be reused.
func (s *Store) repairMetadata(data *model.Data) {
	if len(data.Tasks) == 0 {
		return
	}

	var maxID uint32
	for _, t := range data.Tasks {
		maxID = max(maxID, t.ID)
	}

	if data.Metadata.LastTaskID > maxID || maxID == math.MaxUint32 {
		return
	}

	s.log.WithFields(logrus.Fields{
		"last_task_id": data.Metadata.LastTaskID,
		"max_task_id":  maxID,
	}).Warn("last task id behind existing tasks, repairing")
	data.Metadata.LastTaskID = maxID + 1
}

func checkUniqueIDs(tasks []model.Task) error {
	seen := make(map[uint32]struct{}, len(tasks))
	for _, t := range tasks {
		if _, ok := seen[t.ID]; ok {
			return fmt.Errorf("%s: %w", t.Ref(), ErrDuplicateID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

// Location returns where the store is persisted
func (s *Store) Location() string {
	return s.backend.Location()
}

// Save encodes the whole store and replaces the persisted copy. When an archiver is
// configured the superseded contents are archived first.
func (s *Store) Save() error {
	encoded, err := s.codec.Encode(s.data)
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	if s.archive != nil {
		s.archivePrevious(encoded)
	}

	if err := s.backend.Write(encoded); err != nil {
		return err
	}

	s.log.WithField("bytes", len(encoded)).Debug("store saved")
	return nil
}

func (s *Store) archivePrevious(next []byte) {
	prev, found, err := s.backend.Read()
	if err != nil {
		s.log.WithError(err).Warn("could not read store for history")
		return
	}
	if !found || bytes.Equal(prev, next) {
		return
	}

	id, err := s.archive.Archive(prev, s.clock.Now())
	if err != nil {
		s.log.WithError(err).Warn("could not archive previous store contents")
		return
	}
	s.log.WithField("snapshot", id).Debug("previous store contents archived")
}

// Metadata returns the store metadata
func (s *Store) Metadata() model.Metadata {
	return s.data.Metadata
}

// Tasks returns a copy of all tasks in store order
func (s *Store) Tasks() []model.Task {
	return s.Data().Tasks
}

// Data returns a deep copy of the full store state
func (s *Store) Data() *model.Data {
	return s.data.Clone()
}

// FindTask looks a task up by id
func (s *Store) FindTask(id uint32) (model.Task, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return model.Task{}, false
	}
	return s.data.Tasks[idx].Clone(), true
}

func (s *Store) indexOf(id uint32) int {
	return slices.IndexFunc(s.data.Tasks, func(t model.Task) bool {
		return t.ID == id
	})
}

func taskError(id uint32, err error) error {
	return fmt.Errorf("%s: %w", model.FormatTaskRef(id), err)
}

// normalizeLabel trims the label and checks that it can be stored
func normalizeLabel(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", fmt.Errorf("%w: label is empty", ErrInvalidLabel)
	}
	if err := codec.ValidateLabel(label); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLabel, err)
	}
	return label, nil
}

// AddTask creates a pending task with the next id and persists the store. If the store
// cannot be persisted the task is not added.
func (s *Store) AddTask(label string) (uint32, error) {
	now := s.clock.Now()

	label, err := normalizeLabel(label)
	if err != nil {
		return 0, err
	}

	id := s.data.Metadata.LastTaskID
	if id == math.MaxUint32 || s.indexOf(id) >= 0 {
		return 0, ErrIDSpaceExhausted
	}

	count := len(s.data.Tasks)
	s.data.Tasks = append(s.data.Tasks, model.Task{
		ID:        id,
		Label:     label,
		CreatedAt: now.Unix(),
	})
	s.data.Metadata.LastTaskID = id + 1

	if err := s.Save(); err != nil {
		s.data.Tasks = s.data.Tasks[:count]
		s.data.Metadata.LastTaskID = id
		return 0, err
	}

	s.log.WithField("task", model.FormatTaskRef(id)).Info("task added")
	return id, nil
}

// RemoveTask deletes a task created on the current day. It does not persist.
func (s *Store) RemoveTask(id uint32) error {
	now := s.clock.Now()

	idx := s.indexOf(id)
	if idx < 0 {
		return taskError(id, ErrTaskNotFound)
	}

	if !OnDay(s.data.Tasks[idx].CreatedAt, now) {
		return taskError(id, ErrNotRemovable)
	}

	s.data.Tasks = slices.Delete(s.data.Tasks, idx, idx+1)
	s.log.WithField("task", model.FormatTaskRef(id)).Info("task removed")
	return nil
}

// RelabelTask replaces the label of a task that is not done. It does not persist.
func (s *Store) RelabelTask(id uint32, label string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return taskError(id, ErrTaskNotFound)
	}

	task := &s.data.Tasks[idx]
	if task.Done {
		return taskError(id, ErrTaskFinished)
	}

	label, err := normalizeLabel(label)
	if err != nil {
		return taskError(id, err)
	}

	task.Label = label
	s.log.WithField("task", model.FormatTaskRef(id)).Info("task relabeled")
	return nil
}

// ToggleCheck marks a task done or not done. Checking is always allowed; unchecking is
// only allowed for tasks created on the current day. It does not persist.
func (s *Store) ToggleCheck(id uint32, done bool) error {
	now := s.clock.Now()

	idx := s.indexOf(id)
	if idx < 0 {
		return taskError(id, ErrTaskNotFound)
	}

	task := &s.data.Tasks[idx]
	if task.Done == done {
		if done {
			return taskError(id, ErrAlreadyDone)
		}
		return taskError(id, ErrNotCompleted)
	}

	if done {
		checked := now.Unix()
		task.Done = true
		task.CheckedAt = &checked
		s.log.WithField("task", model.FormatTaskRef(id)).Info("task checked")
		return nil
	}

	if !OnDay(task.CreatedAt, now) {
		return taskError(id, ErrNotUncheckable)
	}

	task.Done = false
	task.CheckedAt = nil
	s.log.WithField("task", model.FormatTaskRef(id)).Info("task unchecked")
	return nil
}

// Replace swaps the whole store state, e.g. with a restored snapshot, and persists it.
// On failure the previous state is kept.
func (s *Store) Replace(data *model.Data) error {
	if err := checkUniqueIDs(data.Tasks); err != nil {
		return err
	}
	for _, t := range data.Tasks {
		if !t.Consistent() {
			return fmt.Errorf("%s: done flag and checked time disagree", t.Ref())
		}
	}

	next := data.Clone()
	// ids issued since the snapshot was taken stay retired
	next.Metadata.LastTaskID = max(next.Metadata.LastTaskID, s.data.Metadata.LastTaskID)
	s.repairMetadata(next)

	prev := s.data
	s.data = next
	if err := s.Save(); err != nil {
		s.data = prev
		return err
	}

	s.log.WithField("tasks", len(next.Tasks)).Info("store replaced")
	return nil
}
