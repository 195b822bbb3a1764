package unf

import "errors"

var (
	// ErrNotUnformatted reports a file whose record framing is broken:
	// the leading and trailing length markers of a record disagree, or
	// the first record does not fit inside the file.
	ErrNotUnformatted = errors.New("not a sequential unformatted file")

	// ErrShortRead reports a record whose declared length runs past the
	// bytes actually present in the file.
	ErrShortRead = errors.New("record truncated")

	// ErrLengthMismatch reports a field specification whose resolved
	// byte size disagrees with the record's declared length.
	ErrLengthMismatch = errors.New("field spec does not match record length")

	// ErrNoPriorRecord reports a Backspace with no record to rewind
	// over.
	ErrNoPriorRecord = errors.New("no record to backspace over")
)
