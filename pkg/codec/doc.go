// Package codec provides serialization and deserialization of the progress store file.
//
// The store file is line-oriented UTF-8 text made of blocks. Each block starts with a
// tag line, carries a fixed number of positional field lines, and ends with an :end line.
//
// # Store Format
//
// A metadata block holds the next task identifier:
//
//	:metadata
//	<last_task_id>
//	:end
//
// A task block holds five fields, in order:
//
//	:task
//	<id>
//	[x] or []
//	<label>
//	<created_at>
//	<checked_at> or -
//	:end
//
// Fields:
//   - last_task_id, id: unsigned 32-bit decimal
//   - completion marker: [x] when done, [] otherwise
//   - label: raw text, may be empty, never spans lines
//   - created_at: signed decimal Unix seconds
//   - checked_at: signed decimal Unix seconds, or - when the task is not done
//
// Blank lines between blocks are ignored. There is no escaping: a label containing a
// newline, or a label equal to a tag line, cannot be represented and Encode rejects it.
//
// # Usage
//
//	codec := codec.NewTaskCodec()
//
//	encoded, err := codec.Encode(data)
//	if err != nil {
//	    return err
//	}
//
//	decoded, err := codec.Decode(encoded)
//	if err != nil {
//	    return err // *codec.DecodeError names the line, block and field
//	}
//
// # Error Handling
//
// Decode is all-or-nothing. Any malformed field, nested block, premature :end or
// unterminated block returns a *DecodeError and no data. Lines outside of a block that
// are not tags are skipped, so stray trailing content does not fail a load.
//
// # Thread Safety
//
// TaskCodec holds no state and is safe for concurrent use.
package codec
