package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ssargent/progress/pkg/model"
)

const (
	tagMetadata = ":metadata"
	tagTask     = ":task"
	tagEnd      = ":end"

	markerDone    = "[x]"
	markerPending = "[]"
	noTimestamp   = "-"
)

var (
	// ErrMalformed is the root of every decode failure.
	ErrMalformed = errors.New("malformed store data")
	// ErrUnencodable is returned by Encode for data the format cannot represent.
	ErrUnencodable = errors.New("data cannot be encoded")
)

// TaskCodec converts store data to and from the block text format
type TaskCodec struct{}

// NewTaskCodec creates a new task codec instance
func NewTaskCodec() *TaskCodec {
	return &TaskCodec{}
}

// ValidateLabel reports whether a label fits on a single field line.
func ValidateLabel(label string) error {
	if strings.ContainsAny(label, "\r\n") {
		return fmt.Errorf("%w: label spans multiple lines", ErrUnencodable)
	}
	switch strings.TrimSpace(label) {
	case tagMetadata, tagTask, tagEnd:
		return fmt.Errorf("%w: label %q collides with a block tag", ErrUnencodable, label)
	}
	return nil
}

// Encode serializes the metadata block followed by one block per task, in order.
func (c *TaskCodec) Encode(data *model.Data) ([]byte, error) {
	var b strings.Builder

	b.WriteString(tagMetadata + "\n")
	b.WriteString(strconv.FormatUint(uint64(data.Metadata.LastTaskID), 10) + "\n")
	b.WriteString(tagEnd + "\n")

	for _, task := range data.Tasks {
		if err := ValidateLabel(task.Label); err != nil {
			return nil, fmt.Errorf("task %d: %w", task.ID, err)
		}
		if !task.Consistent() {
			return nil, fmt.Errorf("task %d: %w: done flag and checked time disagree", task.ID, ErrUnencodable)
		}

		b.WriteString(tagTask + "\n")
		b.WriteString(strconv.FormatUint(uint64(task.ID), 10) + "\n")
		if task.Done {
			b.WriteString(markerDone + "\n")
		} else {
			b.WriteString(markerPending + "\n")
		}
		b.WriteString(task.Label + "\n")
		b.WriteString(strconv.FormatInt(task.CreatedAt, 10) + "\n")
		if task.CheckedAt != nil {
			b.WriteString(strconv.FormatInt(*task.CheckedAt, 10) + "\n")
		} else {
			b.WriteString(noTimestamp + "\n")
		}
		b.WriteString(tagEnd + "\n")
	}

	return []byte(b.String()), nil
}

// Decode parses the block text format. It returns either the complete data or a
// *DecodeError, never a partially filled result.
func (c *TaskCodec) Decode(input []byte) (*model.Data, error) {
	p := &parser{data: &model.Data{Tasks: []model.Task{}}}

	text := strings.TrimSuffix(string(input), "\n")
	if text != "" {
		for i, raw := range strings.Split(text, "\n") {
			if err := p.feed(i+1, strings.TrimSuffix(raw, "\r")); err != nil {
				return nil, err
			}
		}
	}

	if p.state.block != blockNone {
		return nil, &DecodeError{
			Line:   p.state.openedAt,
			Block:  p.state.block.String(),
			Detail: "unterminated block: missing " + tagEnd,
		}
	}

	return p.data, nil
}
