package codec

import (
	"errors"
	"strings"
	"testing"

	"github.com/ssargent/progress/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(v int64) *int64 {
	return &v
}

func TestTaskCodec_EncodeDecodeRoundTrip(t *testing.T) {
	codec := NewTaskCodec()

	testCases := []struct {
		name string
		data *model.Data
	}{
		{
			name: "empty store",
			data: &model.Data{Tasks: []model.Task{}},
		},
		{
			name: "single pending task",
			data: &model.Data{
				Metadata: model.Metadata{LastTaskID: 1},
				Tasks: []model.Task{
					{ID: 0, Label: "buy milk", CreatedAt: 1700000000},
				},
			},
		},
		{
			name: "mixed tasks keep order",
			data: &model.Data{
				Metadata: model.Metadata{LastTaskID: 9},
				Tasks: []model.Task{
					{ID: 4, Done: true, Label: "ship release", CreatedAt: 1700000000, CheckedAt: ts(1700003600)},
					{ID: 2, Label: "write notes", CreatedAt: 1690000000},
					{ID: 8, Done: true, Label: "call mum", CreatedAt: 1700000100, CheckedAt: ts(1700000100)},
				},
			},
		},
		{
			name: "empty label",
			data: &model.Data{
				Metadata: model.Metadata{LastTaskID: 1},
				Tasks:    []model.Task{{ID: 0, Label: "", CreatedAt: 1}},
			},
		},
		{
			name: "label with brackets and colon",
			data: &model.Data{
				Metadata: model.Metadata{LastTaskID: 1},
				Tasks:    []model.Task{{ID: 0, Label: "[x] :todo - 12", CreatedAt: 1}},
			},
		},
		{
			name: "negative timestamps",
			data: &model.Data{
				Metadata: model.Metadata{LastTaskID: 1},
				Tasks:    []model.Task{{ID: 0, Done: true, Label: "old", CreatedAt: -86400, CheckedAt: ts(-3600)}},
			},
		},
		{
			name: "unicode label",
			data: &model.Data{
				Metadata: model.Metadata{LastTaskID: 1},
				Tasks:    []model.Task{{ID: 0, Label: "🎯 réviser le plan", CreatedAt: 1}},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := codec.Encode(tc.data)
			require.NoError(t, err)

			decoded, err := codec.Decode(encoded)
			require.NoError(t, err)

			assert.Equal(t, tc.data.Metadata, decoded.Metadata)
			assert.Equal(t, tc.data.Tasks, decoded.Tasks)
		})
	}
}

func TestTaskCodec_EncodeFormat(t *testing.T) {
	codec := NewTaskCodec()

	data := &model.Data{
		Metadata: model.Metadata{LastTaskID: 2},
		Tasks: []model.Task{
			{ID: 0, Done: true, Label: "buy milk", CreatedAt: 100, CheckedAt: ts(200)},
			{ID: 1, Label: "walk dog", CreatedAt: 300},
		},
	}

	encoded, err := codec.Encode(data)
	require.NoError(t, err)

	want := ":metadata\n2\n:end\n" +
		":task\n0\n[x]\nbuy milk\n100\n200\n:end\n" +
		":task\n1\n[]\nwalk dog\n300\n-\n:end\n"
	assert.Equal(t, want, string(encoded))

	again, err := codec.Encode(data)
	require.NoError(t, err)
	assert.Equal(t, encoded, again)
}

func TestTaskCodec_EncodeRejects(t *testing.T) {
	codec := NewTaskCodec()

	testCases := []struct {
		name string
		task model.Task
	}{
		{name: "newline in label", task: model.Task{Label: "a\nb"}},
		{name: "carriage return in label", task: model.Task{Label: "a\rb"}},
		{name: "label equal to end tag", task: model.Task{Label: ":end"}},
		{name: "label equal to task tag", task: model.Task{Label: " :task "}},
		{name: "done without checked time", task: model.Task{Label: "x", Done: true}},
		{name: "checked time without done", task: model.Task{Label: "x", CheckedAt: ts(1)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := codec.Encode(&model.Data{Tasks: []model.Task{tc.task}})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnencodable)
		})
	}
}

func TestTaskCodec_DecodeLenient(t *testing.T) {
	codec := NewTaskCodec()

	t.Run("blank lines between blocks", func(t *testing.T) {
		input := "\n\n:metadata\n3\n:end\n\n\n:task\n2\n[]\nread\n10\n-\n:end\n\n"
		data, err := codec.Decode([]byte(input))
		require.NoError(t, err)
		assert.Equal(t, uint32(3), data.Metadata.LastTaskID)
		require.Len(t, data.Tasks, 1)
		assert.Equal(t, "read", data.Tasks[0].Label)
	})

	t.Run("stray lines outside blocks are ignored", func(t *testing.T) {
		input := "# progress store\n:metadata\n1\n:end\ngarbage here\n:end\n:unknown\n"
		data, err := codec.Decode([]byte(input))
		require.NoError(t, err)
		assert.Equal(t, uint32(1), data.Metadata.LastTaskID)
		assert.Empty(t, data.Tasks)
	})

	t.Run("crlf line endings", func(t *testing.T) {
		input := ":metadata\r\n1\r\n:end\r\n:task\r\n0\r\n[x]\r\nlabel\r\n5\r\n6\r\n:end\r\n"
		data, err := codec.Decode([]byte(input))
		require.NoError(t, err)
		require.Len(t, data.Tasks, 1)
		assert.Equal(t, "label", data.Tasks[0].Label)
		assert.Equal(t, int64(6), *data.Tasks[0].CheckedAt)
	})

	t.Run("whitespace around numbers", func(t *testing.T) {
		input := ":metadata\n 4 \n:end\n:task\n 3\n [] \nx\n 7 \n - \n:end\n"
		data, err := codec.Decode([]byte(input))
		require.NoError(t, err)
		assert.Equal(t, uint32(4), data.Metadata.LastTaskID)
		assert.Equal(t, uint32(3), data.Tasks[0].ID)
		assert.Nil(t, data.Tasks[0].CheckedAt)
	})

	t.Run("empty input", func(t *testing.T) {
		data, err := codec.Decode(nil)
		require.NoError(t, err)
		assert.Equal(t, uint32(0), data.Metadata.LastTaskID)
		assert.Empty(t, data.Tasks)
	})
}

func TestTaskCodec_DecodeErrors(t *testing.T) {
	codec := NewTaskCodec()

	testCases := []struct {
		name      string
		input     string
		wantLine  int
		wantBlock string
		wantField string
		wantMsg   string
	}{
		{
			name:      "non numeric created_at",
			input:     ":task\n0\n[]\nx\nyesterday\n-\n:end\n",
			wantLine:  5,
			wantBlock: "task",
			wantField: "created_at",
			wantMsg:   "invalid syntax",
		},
		{
			name:      "bad completion marker",
			input:     ":task\n0\n[ ]\nx\n1\n-\n:end\n",
			wantLine:  3,
			wantBlock: "task",
			wantField: "done",
		},
		{
			name:      "negative id",
			input:     ":task\n-1\n[]\nx\n1\n-\n:end\n",
			wantLine:  2,
			wantBlock: "task",
			wantField: "id",
		},
		{
			name:      "metadata out of range",
			input:     ":metadata\n4294967296\n:end\n",
			wantLine:  2,
			wantBlock: "metadata",
			wantField: "last_task_id",
			wantMsg:   "value out of range",
		},
		{
			name:      "premature end of task",
			input:     ":task\n0\n[]\n:end\n",
			wantLine:  4,
			wantBlock: "task",
			wantField: "label",
			wantMsg:   "premature end of block",
		},
		{
			name:      "premature end of metadata",
			input:     ":metadata\n:end\n",
			wantLine:  2,
			wantBlock: "metadata",
			wantField: "last_task_id",
			wantMsg:   "premature end of block",
		},
		{
			name:      "nested block",
			input:     ":task\n0\n[]\n:task\n",
			wantLine:  4,
			wantBlock: "task",
			wantMsg:   "nested block",
		},
		{
			name:      "metadata inside task",
			input:     ":task\n0\n:metadata\n",
			wantLine:  3,
			wantBlock: "task",
			wantMsg:   "nested block",
		},
		{
			name:      "too many fields",
			input:     ":metadata\n1\n2\n:end\n",
			wantLine:  3,
			wantBlock: "metadata",
			wantMsg:   "unexpected field",
		},
		{
			name:      "unterminated block",
			input:     ":metadata\n1\n:end\n:task\n0\n[]\nx\n1\n-\n",
			wantLine:  4,
			wantBlock: "task",
			wantMsg:   "unterminated block",
		},
		{
			name:      "done without checked time",
			input:     ":task\n0\n[x]\nx\n1\n-\n:end\n",
			wantLine:  6,
			wantBlock: "task",
			wantField: "checked_at",
			wantMsg:   "done task has no checked time",
		},
		{
			name:      "pending with checked time",
			input:     ":task\n0\n[]\nx\n1\n2\n:end\n",
			wantLine:  6,
			wantBlock: "task",
			wantField: "checked_at",
			wantMsg:   "pending task has a checked time",
		},
		{
			name:      "blank line at numeric field",
			input:     ":task\n\n[]\nx\n1\n-\n:end\n",
			wantLine:  2,
			wantBlock: "task",
			wantField: "id",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := codec.Decode([]byte(tc.input))
			require.Error(t, err)
			assert.Nil(t, data)
			assert.ErrorIs(t, err, ErrMalformed)

			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, tc.wantLine, decodeErr.Line)
			assert.Equal(t, tc.wantBlock, decodeErr.Block)
			assert.Equal(t, tc.wantField, decodeErr.Field)
			if tc.wantMsg != "" {
				assert.Contains(t, err.Error(), tc.wantMsg)
			}
		})
	}
}

func TestDecodeError_Message(t *testing.T) {
	err := &DecodeError{Line: 5, Block: "task", Field: "created_at", Value: "abc", Detail: "invalid syntax"}
	assert.Equal(t, `line 5: task block, field created_at, value "abc": invalid syntax`, err.Error())

	err = &DecodeError{Line: 1, Block: "task", Detail: "unterminated block: missing :end"}
	assert.Equal(t, "line 1: task block: unterminated block: missing :end", err.Error())
}

func TestValidateLabel(t *testing.T) {
	assert.NoError(t, ValidateLabel("buy milk"))
	assert.NoError(t, ValidateLabel(""))
	assert.NoError(t, ValidateLabel(":endgame"))
	assert.Error(t, ValidateLabel("two\nlines"))
	assert.Error(t, ValidateLabel(":metadata"))
}

func TestTaskCodec_DecodeLargeStore(t *testing.T) {
	codec := NewTaskCodec()

	data := &model.Data{Metadata: model.Metadata{LastTaskID: 500}}
	for i := 0; i < 500; i++ {
		task := model.Task{ID: uint32(i), Label: strings.Repeat("l", i%40), CreatedAt: int64(i * 60)}
		if i%3 == 0 {
			task.Done = true
			task.CheckedAt = ts(int64(i*60 + 30))
		}
		data.Tasks = append(data.Tasks, task)
	}

	encoded, err := codec.Encode(data)
	require.NoError(t, err)

	decoded, err := codec.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, data.Tasks, decoded.Tasks)
}
