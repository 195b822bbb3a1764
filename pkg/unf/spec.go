package unf

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// A format spec is a comma-separated list of field descriptors, one per
// destination argument:
//
//	i4, i8        scalar integer of an explicit width
//	i             scalar integer of the file's active width
//	r8            8-byte real
//	z8            16-byte complex (two 8-byte components)
//	c14           fixed-length character block of 14 bytes
//
// A leading repeat count expands a descriptor into that many scalar
// fields ("2i4" consumes two destination arguments). A trailing "[]"
// turns the descriptor into an array whose element count is taken from
// the argument following the destination; the count argument may be an
// int supplied by the caller or a pointer to an integer decoded earlier
// in the same call. "[N]" embeds a literal count. A bare "c[]" is a raw
// byte block whose bound count is its length in bytes.
type field struct {
	kind   byte // 'i', 'r', 'z' or 'c'
	width  int  // element width in bytes; for 'c', the block length
	repeat int
	array  bool
	count  int // literal array count, -1 when bound to an argument
}

func (fd field) elemSize() int {
	switch fd.kind {
	case 'z':
		return 2 * fd.width
	case 'c':
		if fd.width == 0 {
			return 1
		}
		return fd.width
	default:
		return fd.width
	}
}

func parseSpec(spec string, intWidth int) ([]field, error) {
	parts := strings.Split(spec, ",")
	fields := make([]field, 0, len(parts))
	for _, part := range parts {
		fd, err := parseField(strings.TrimSpace(part), intWidth)
		if err != nil {
			return nil, fmt.Errorf("unf: spec %q: %w", spec, err)
		}
		fields = append(fields, fd)
	}
	return fields, nil
}

func parseField(tok string, intWidth int) (field, error) {
	fd := field{repeat: 1, count: -1}
	if tok == "" {
		return fd, fmt.Errorf("empty field")
	}

	s := tok
	if i := digitRun(s); i > 0 {
		n, err := strconv.Atoi(s[:i])
		if err != nil || n < 1 {
			return fd, fmt.Errorf("bad repeat count in %q", tok)
		}
		fd.repeat = n
		s = s[i:]
	}

	if s == "" {
		return fd, fmt.Errorf("missing type letter in %q", tok)
	}
	fd.kind = s[0]
	s = s[1:]

	if i := digitRun(s); i > 0 {
		w, err := strconv.Atoi(s[:i])
		if err != nil {
			return fd, fmt.Errorf("bad width in %q", tok)
		}
		fd.width = w
		s = s[i:]
	}

	switch {
	case s == "":
	case s == "[]":
		fd.array = true
	case strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"):
		n, err := strconv.Atoi(s[1 : len(s)-1])
		if err != nil || n < 0 {
			return fd, fmt.Errorf("bad literal count in %q", tok)
		}
		fd.array = true
		fd.count = n
	default:
		return fd, fmt.Errorf("trailing junk in %q", tok)
	}

	switch fd.kind {
	case 'i':
		if fd.width == 0 {
			fd.width = intWidth
		}
		if fd.width != 4 && fd.width != 8 {
			return fd, fmt.Errorf("integer width must be 4 or 8 in %q", tok)
		}
	case 'r', 'z':
		if fd.width == 0 {
			fd.width = 8
		}
		if fd.width != 8 {
			return fd, fmt.Errorf("%c fields are 8-byte only in %q", fd.kind, tok)
		}
	case 'c':
		if fd.width == 0 && !fd.array {
			return fd, fmt.Errorf("character field needs a length in %q", tok)
		}
	default:
		return fd, fmt.Errorf("unknown type letter %q in %q", string(fd.kind), tok)
	}

	if fd.array && fd.repeat != 1 {
		return fd, fmt.Errorf("repeat count on array field in %q", tok)
	}
	return fd, nil
}

func digitRun(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

// boundCount resolves the count argument of a "[]" array field. Pointer
// forms allow the count to come from a value decoded earlier in the
// same call.
func boundCount(arg any) (int, error) {
	var n int
	switch v := arg.(type) {
	case int:
		n = v
	case int32:
		n = int(v)
	case int64:
		n = int(v)
	case *int32:
		n = int(*v)
	case *int64:
		n = int(*v)
	default:
		return 0, fmt.Errorf("count argument has type %T, want int or integer pointer", arg)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return n, nil
}

// decodeField decodes count elements of fd from buf into dst and
// returns the number of bytes consumed.
func decodeField(buf []byte, fd field, count int, dst any) (int, error) {
	need := fd.elemSize() * count
	if need > len(buf) {
		return 0, fmt.Errorf("%w: field needs %d bytes, record has %d left", ErrLengthMismatch, need, len(buf))
	}
	b := buf[:need]

	switch fd.kind {
	case 'i':
		if err := decodeInts(b, fd.width, count, dst); err != nil {
			return 0, err
		}
	case 'r':
		if err := decodeReals(b, count, dst); err != nil {
			return 0, err
		}
	case 'z':
		if err := decodeComplexes(b, count, dst); err != nil {
			return 0, err
		}
	case 'c':
		p, ok := dst.(*[]byte)
		if !ok {
			return 0, fmt.Errorf("character destination has type %T, want *[]byte", dst)
		}
		out := make([]byte, need)
		copy(out, b)
		*p = out
	}
	return need, nil
}

func decodeInts(b []byte, width, count int, dst any) error {
	at := func(i int) int64 {
		if width == 4 {
			return int64(int32(binary.LittleEndian.Uint32(b[i*4:])))
		}
		return int64(binary.LittleEndian.Uint64(b[i*8:]))
	}
	switch p := dst.(type) {
	case *int64:
		*p = at(0)
	case *int32:
		*p = int32(at(0))
	case *[]int64:
		out := make([]int64, count)
		for i := range out {
			out[i] = at(i)
		}
		*p = out
	case *[]int32:
		out := make([]int32, count)
		for i := range out {
			out[i] = int32(at(i))
		}
		*p = out
	default:
		return fmt.Errorf("integer destination has type %T", dst)
	}
	return nil
}

func decodeReals(b []byte, count int, dst any) error {
	at := func(i int) float64 {
		return math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	switch p := dst.(type) {
	case *float64:
		*p = at(0)
	case *[]float64:
		out := make([]float64, count)
		for i := range out {
			out[i] = at(i)
		}
		*p = out
	default:
		return fmt.Errorf("real destination has type %T", dst)
	}
	return nil
}

func decodeComplexes(b []byte, count int, dst any) error {
	at := func(i int) complex128 {
		re := math.Float64frombits(binary.LittleEndian.Uint64(b[i*16:]))
		im := math.Float64frombits(binary.LittleEndian.Uint64(b[i*16+8:]))
		return complex(re, im)
	}
	switch p := dst.(type) {
	case *complex128:
		*p = at(0)
	case *[]complex128:
		out := make([]complex128, count)
		for i := range out {
			out[i] = at(i)
		}
		*p = out
	default:
		return fmt.Errorf("complex destination has type %T", dst)
	}
	return nil
}
