package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ssargent/progress/pkg/model"
)

type blockKind int

const (
	blockNone blockKind = iota
	blockMetadata
	blockTask
)

func (k blockKind) String() string {
	switch k {
	case blockMetadata:
		return "metadata"
	case blockTask:
		return "task"
	default:
		return "none"
	}
}

// fieldNames lists the positional fields of each block kind.
var fieldNames = map[blockKind][]string{
	blockMetadata: {"last_task_id"},
	blockTask:     {"id", "done", "label", "created_at", "checked_at"},
}

// parseState is the whole parser state: which block is open and which field comes next.
type parseState struct {
	block    blockKind
	field    int
	openedAt int
}

type parser struct {
	state parseState
	data  *model.Data
	task  model.Task
}

// feed applies one line to the state machine.
//
//	state  | tag (:metadata/:task) | :end                    | other line
//	idle   | open block            | ignored                 | ignored
//	block  | error: nested block   | close, or error if short | next field; error if full, unless blank
func (p *parser) feed(lineNo int, line string) error {
	tag := strings.TrimSpace(line)

	if p.state.block == blockNone {
		switch tag {
		case tagMetadata:
			p.state = parseState{block: blockMetadata, openedAt: lineNo}
		case tagTask:
			p.state = parseState{block: blockTask, openedAt: lineNo}
			p.task = model.Task{}
		}
		return nil
	}

	fields := fieldNames[p.state.block]

	switch tag {
	case tagMetadata, tagTask:
		return &DecodeError{
			Line:   lineNo,
			Block:  p.state.block.String(),
			Value:  tag,
			Detail: fmt.Sprintf("nested block: block opened at line %d was not closed", p.state.openedAt),
		}
	case tagEnd:
		if p.state.field < len(fields) {
			return &DecodeError{
				Line:   lineNo,
				Block:  p.state.block.String(),
				Field:  fields[p.state.field],
				Detail: fmt.Sprintf("premature end of block: got %d of %d fields", p.state.field, len(fields)),
			}
		}
		if p.state.block == blockTask {
			p.data.Tasks = append(p.data.Tasks, p.task)
		}
		p.state = parseState{}
		return nil
	}

	if p.state.field >= len(fields) {
		if tag == "" {
			return nil
		}
		return &DecodeError{
			Line:   lineNo,
			Block:  p.state.block.String(),
			Value:  line,
			Detail: fmt.Sprintf("unexpected field: block takes %d fields", len(fields)),
		}
	}

	field := fields[p.state.field]
	if err := p.setField(field, line); err != nil {
		return &DecodeError{
			Line:   lineNo,
			Block:  p.state.block.String(),
			Field:  field,
			Value:  line,
			Detail: err.Error(),
		}
	}
	p.state.field++
	return nil
}

func (p *parser) setField(field, line string) error {
	value := strings.TrimSpace(line)

	switch field {
	case "last_task_id":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return numError(err)
		}
		p.data.Metadata.LastTaskID = uint32(n)
	case "id":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return numError(err)
		}
		p.task.ID = uint32(n)
	case "done":
		switch value {
		case markerDone:
			p.task.Done = true
		case markerPending:
			p.task.Done = false
		default:
			return fmt.Errorf("expected %s or %s", markerDone, markerPending)
		}
	case "label":
		p.task.Label = line
	case "created_at":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return numError(err)
		}
		p.task.CreatedAt = n
	case "checked_at":
		if value == noTimestamp {
			p.task.CheckedAt = nil
		} else {
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return numError(err)
			}
			p.task.CheckedAt = &n
		}
		if !p.task.Consistent() {
			if p.task.Done {
				return fmt.Errorf("done task has no checked time")
			}
			return fmt.Errorf("pending task has a checked time")
		}
	}
	return nil
}

// numError strips the strconv prefix; DecodeError already carries the value.
func numError(err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err
	}
	return err
}
