package unf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// rec builds one framed record around payload.
func rec(payload []byte) []byte {
	var buf bytes.Buffer
	var marker [4]byte
	binary.LittleEndian.PutUint32(marker[:], uint32(len(payload)))
	buf.Write(marker[:])
	buf.Write(payload)
	buf.Write(marker[:])
	return buf.Bytes()
}

func writeFixture(t *testing.T, records ...[]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.unf")
	var buf bytes.Buffer
	for _, r := range records {
		buf.Write(rec(r))
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func i32(vs ...int32) []byte {
	var buf bytes.Buffer
	for _, v := range vs {
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}
	return buf.Bytes()
}

func i64(vs ...int64) []byte {
	var buf bytes.Buffer
	for _, v := range vs {
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}
	return buf.Bytes()
}

func f64(vs ...float64) []byte {
	var buf bytes.Buffer
	for _, v := range vs {
		_ = binary.Write(&buf, binary.LittleEndian, math.Float64bits(v))
	}
	return buf.Bytes()
}

func z128(vs ...complex128) []byte {
	var buf bytes.Buffer
	for _, v := range vs {
		_ = binary.Write(&buf, binary.LittleEndian, math.Float64bits(real(v)))
		_ = binary.Write(&buf, binary.LittleEndian, math.Float64bits(imag(v)))
	}
	return buf.Bytes()
}

func cat(parts ...[]byte) []byte {
	var buf bytes.Buffer
	for _, p := range parts {
		buf.Write(p)
	}
	return buf.Bytes()
}

func TestReadScalars(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, cat(i32(7, -3), f64(1.2345), z128(complex(2, -1))))
	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()

	var (
		a, b int32
		r    float64
		z    complex128
	)
	n, err := f.Read("2i4,r8,z8", &a, &b, &r, &z)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 4 {
		t.Fatalf("field count: got %d want 4", n)
	}
	if a != 7 || b != -3 {
		t.Fatalf("ints: got %d, %d", a, b)
	}
	if r != 1.2345 {
		t.Fatalf("real: got %v", r)
	}
	if z != complex(2, -1) {
		t.Fatalf("complex: got %v", z)
	}
}

func TestReadActiveWidth(t *testing.T) {
	t.Parallel()

	// The same logical content with 4-byte and 8-byte integers must
	// decode to identical values through bare "i" fields.
	path4 := writeFixture(t, cat(i32(42, -7), f64(3.5)))
	path8 := writeFixture(t, cat(i64(42, -7), f64(3.5)))

	for _, tc := range []struct {
		path  string
		width int
	}{
		{path4, 4},
		{path8, 8},
	} {
		f, err := Open(tc.path)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if err := f.SetIntWidth(tc.width); err != nil {
			t.Fatalf("set width: %v", err)
		}
		var a, b int64
		var r float64
		if _, err := f.Read("2i,r8", &a, &b, &r); err != nil {
			t.Fatalf("width %d: read: %v", tc.width, err)
		}
		if a != 42 || b != -7 || r != 3.5 {
			t.Fatalf("width %d: got %d, %d, %v", tc.width, a, b, r)
		}
		_ = f.Close()
	}
}

func TestReadBoundArray(t *testing.T) {
	t.Parallel()

	// The array count is decoded earlier in the same call.
	path := writeFixture(t, cat(i32(3), i32(10, 20, 30)))
	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()

	var n64 int64
	var vs []int64
	n, err := f.Read("i,i[]", &n64, &vs, &n64)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 2 {
		t.Fatalf("field count: got %d want 2", n)
	}
	if len(vs) != 3 || vs[0] != 10 || vs[1] != 20 || vs[2] != 30 {
		t.Fatalf("array: got %v", vs)
	}
}

func TestReadLiteralCountAndCharBlocks(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, cat([]byte("Ag aAu a"), f64(1, 2)))
	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()

	var names []byte
	var es []float64
	if _, err := f.Read("c4[2],r8[2]", &names, &es); err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(names) != "Ag aAu a" {
		t.Fatalf("names: got %q", names)
	}
	if len(es) != 2 || es[0] != 1 || es[1] != 2 {
		t.Fatalf("reals: got %v", es)
	}
}

func TestReadRawByteBlock(t *testing.T) {
	t.Parallel()

	payload := []byte{1, 2, 3, 4, 5}
	path := writeFixture(t, payload)
	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()

	var raw []byte
	if _, err := f.Read("c[]", &raw, len(payload)); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(raw, payload) {
		t.Fatalf("raw block: got %v", raw)
	}
}

func TestBackspaceTwoPhase(t *testing.T) {
	t.Parallel()

	// Read a count, rewind, reread the full record with the count known.
	path := writeFixture(t, cat(i32(2), []byte("A  aA  bA  aA  b")))
	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()

	var count int64
	if _, err := f.Read("i", &count); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("partial read: got %v, want ErrLengthMismatch", err)
	}
	if count != 2 {
		t.Fatalf("count: got %d", count)
	}
	if err := f.Backspace(); err != nil {
		t.Fatalf("backspace: %v", err)
	}
	var names []byte
	n, err := f.Read("i,c4[]", &count, &names, int(2*count))
	if err != nil {
		t.Fatalf("reread: %v", err)
	}
	if n != 2 || string(names) != "A  aA  bA  aA  b" {
		t.Fatalf("reread: n=%d names=%q", n, names)
	}
}

func TestBackspaceMisuse(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, i32(1))
	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()

	if err := f.Backspace(); !errors.Is(err, ErrNoPriorRecord) {
		t.Fatalf("backspace before read: got %v", err)
	}
	var v int32
	if _, err := f.Read("i4", &v); err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := f.Backspace(); err != nil {
		t.Fatalf("first backspace: %v", err)
	}
	if err := f.Backspace(); !errors.Is(err, ErrNoPriorRecord) {
		t.Fatalf("second backspace: got %v", err)
	}
}

func TestNextRecordSizeDoesNotConsume(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, i32(5, 6))
	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()

	for i := 0; i < 3; i++ {
		n, err := f.NextRecordSize()
		if err != nil {
			t.Fatalf("peek %d: %v", i, err)
		}
		if n != 8 {
			t.Fatalf("peek %d: got %d want 8", i, n)
		}
	}
	var a, b int32
	if _, err := f.Read("2i4", &a, &b); err != nil {
		t.Fatalf("read after peeks: %v", err)
	}
	if a != 5 || b != 6 {
		t.Fatalf("values: got %d, %d", a, b)
	}
}

func TestReadOverconsumingSpec(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, i32(1))
	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()

	var a, b int32
	if _, err := f.Read("2i4", &a, &b); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("got %v, want ErrLengthMismatch", err)
	}
}

func TestReadEOF(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, i32(1))
	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()

	var v int32
	if _, err := f.Read("i4", &v); err != nil {
		t.Fatalf("read: %v", err)
	}
	if _, err := f.Read("i4", &v); !errors.Is(err, io.EOF) {
		t.Fatalf("got %v, want io.EOF", err)
	}
	if _, err := f.NextRecordSize(); !errors.Is(err, io.EOF) {
		t.Fatalf("peek at EOF: got %v, want io.EOF", err)
	}
}

func TestTruncatedRecord(t *testing.T) {
	t.Parallel()

	full := cat(rec(i32(9)), rec(i32(1, 2, 3)))
	path := filepath.Join(t.TempDir(), "short.unf")
	if err := os.WriteFile(path, full[:len(full)-5], 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()

	var v int32
	if _, err := f.Read("i4", &v); err != nil {
		t.Fatalf("read first record: %v", err)
	}
	var vs []int32
	if _, err := f.Read("i4[3]", &vs); !errors.Is(err, ErrShortRead) {
		t.Fatalf("got %v, want ErrShortRead", err)
	}
}

func TestMismatchedMarkers(t *testing.T) {
	t.Parallel()

	body := rec(i32(1))
	body[len(body)-1] ^= 0xff
	path := filepath.Join(t.TempDir(), "bad.unf")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()

	var v int32
	if _, err := f.Read("i4", &v); !errors.Is(err, ErrNotUnformatted) {
		t.Fatalf("got %v, want ErrNotUnformatted", err)
	}
}

func TestOpenRejectsTinyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tiny")
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Open(path); !errors.Is(err, ErrNotUnformatted) {
		t.Fatalf("got %v, want ErrNotUnformatted", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("got %v, want os.ErrNotExist", err)
	}
}
