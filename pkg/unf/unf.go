// Package unf reads Fortran-style sequential unformatted files: a flat
// sequence of records, each framed by a 4-byte little-endian length
// marker before and after its payload, with no self-describing field
// types. Callers supply a compact per-call format spec describing the
// typed fields inside each record.
package unf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const markerSize = 4

// File is a sequential cursor over an unformatted file. It keeps the
// start offset of the last record read so that exactly one record can
// be backspaced over, which is what count-then-reread decoding patterns
// need. The underlying file is never written to.
type File struct {
	f        *os.File
	size     int64
	off      int64
	prev     int64 // start of the last record read, -1 when none
	intWidth int
}

// Open opens path for sequential record access. The integer width used
// to resolve bare "i" spec fields defaults to 4 bytes; callers that
// probe the file first should fix it with SetIntWidth.
func Open(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := fh.Stat()
	if err != nil {
		_ = fh.Close()
		return nil, err
	}

	f := &File{f: fh, size: st.Size(), prev: -1, intWidth: 4}
	if f.size < 2*markerSize {
		_ = fh.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrNotUnformatted)
	}
	n, err := f.NextRecordSize()
	if err != nil {
		_ = fh.Close()
		return nil, err
	}
	if 2*markerSize+int64(n) > f.size {
		_ = fh.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrNotUnformatted)
	}
	return f, nil
}

// Close releases the underlying file handle.
func (f *File) Close() error {
	return f.f.Close()
}

// SetIntWidth fixes the byte width that bare "i" spec fields decode
// with. Valid widths are 4 and 8.
func (f *File) SetIntWidth(w int) error {
	if w != 4 && w != 8 {
		return fmt.Errorf("unf: integer width must be 4 or 8, got %d", w)
	}
	f.intWidth = w
	return nil
}

// IntWidth reports the active integer width.
func (f *File) IntWidth() int {
	return f.intWidth
}

// NextRecordSize returns the declared payload length of the next record
// without consuming it. It returns io.EOF when the stream is exhausted.
func (f *File) NextRecordSize() (int, error) {
	var b [markerSize]byte
	if _, err := f.f.ReadAt(b[:], f.off); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, io.EOF
		}
		return 0, err
	}
	return int(binary.LittleEndian.Uint32(b[:])), nil
}

// Backspace rewinds the cursor by exactly one record. Only the record
// read most recently can be undone, and only once.
func (f *File) Backspace() error {
	if f.prev < 0 {
		return ErrNoPriorRecord
	}
	f.off = f.prev
	f.prev = -1
	return nil
}

// Read decodes the next record according to spec, writing each field
// into the matching destination argument, and advances past the record.
// It returns the number of fields populated. The record is consumed
// even when the resolved spec does not cover its full declared length;
// that case reports ErrLengthMismatch, which two-phase callers may
// tolerate on a deliberately partial first pass before backspacing.
func (f *File) Read(spec string, args ...any) (int, error) {
	fields, err := parseSpec(spec, f.intWidth)
	if err != nil {
		return 0, err
	}
	payload, err := f.next()
	if err != nil {
		return 0, err
	}

	off, ai, nread := 0, 0, 0
	for _, fd := range fields {
		for r := 0; r < fd.repeat; r++ {
			if ai >= len(args) {
				return nread, fmt.Errorf("unf: spec %q needs more than %d arguments", spec, len(args))
			}
			dst := args[ai]
			ai++

			count := 1
			if fd.array {
				count = fd.count
				if count < 0 {
					if ai >= len(args) {
						return nread, fmt.Errorf("unf: spec %q: missing count argument for field %d", spec, nread+1)
					}
					count, err = boundCount(args[ai])
					ai++
					if err != nil {
						return nread, fmt.Errorf("unf: spec %q field %d: %w", spec, nread+1, err)
					}
				}
			}

			n, err := decodeField(payload[off:], fd, count, dst)
			if err != nil {
				return nread, fmt.Errorf("unf: spec %q field %d: %w", spec, nread+1, err)
			}
			off += n
			nread++
		}
	}
	if ai != len(args) {
		return nread, fmt.Errorf("unf: spec %q consumed %d of %d arguments", spec, ai, len(args))
	}
	if off != len(payload) {
		return nread, fmt.Errorf("%w: spec %q covers %d of %d bytes", ErrLengthMismatch, spec, off, len(payload))
	}
	return nread, nil
}

// next consumes the framing of the next record and returns its payload.
func (f *File) next() ([]byte, error) {
	n, err := f.NextRecordSize()
	if err != nil {
		return nil, err
	}

	payload := make([]byte, n)
	if _, err := f.f.ReadAt(payload, f.off+markerSize); err != nil {
		return nil, fmt.Errorf("%w: record at offset %d declares %d bytes", ErrShortRead, f.off, n)
	}
	var tail [markerSize]byte
	if _, err := f.f.ReadAt(tail[:], f.off+markerSize+int64(n)); err != nil {
		return nil, fmt.Errorf("%w: record at offset %d has no trailing marker", ErrShortRead, f.off)
	}
	if m := binary.LittleEndian.Uint32(tail[:]); m != uint32(n) {
		return nil, fmt.Errorf("%w: record markers disagree (%d vs %d)", ErrNotUnformatted, n, m)
	}

	f.prev = f.off
	f.off += 2*markerSize + int64(n)
	return payload, nil
}
