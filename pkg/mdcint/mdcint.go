// Package mdcint decodes two-electron integral files. The file opens
// with a date stamp, the Kramers-pair count and the spinor index table,
// then carries one buffer record per Kramers pair holding the pair's
// nonzero integrals; a (0,0) pair record ends the stream. The decoder
// produces a census of the integral blocks, not the integral tensor
// itself.
package mdcint

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"strings"

	"github.com/qchemtools/diracinspect/pkg/unf"
)

// ErrUnrecognizedFormat reports a leading record whose size fits no
// integer-width candidate.
var ErrUnrecognizedFormat = errors.New("mdcint: first record matches no known layout")

// ErrMissingTerminator reports a file that ended before the (0,0)
// terminator pair.
var ErrMissingTerminator = errors.New("mdcint: file ends before terminator pair")

const timestampSize = 46

// PairBlock is the census of one Kramers-pair buffer record.
type PairBlock struct {
	IKr    int     // bra Kramers-pair index
	JKr    int     // ket Kramers-pair index
	Count  int     // nonzero integrals in the block
	MaxAbs float64 // largest integral magnitude in the block
}

// Data is the decoded census of a two-electron integral file.
type Data struct {
	IntWidth        int
	Timestamp       string
	NumKramersPairs int
	SpinorIndex     []int // 2*NumKramersPairs spinor indices, file order
	Complex         bool  // true when integral values are complex
	Pairs           []PairBlock
	TotalIntegrals  int64
}

// detectIntWidth deduces the producing program's integer width from the
// size of the leading record: timestamp + pair count + 2*nkr indices
// leaves a remainder that is width times an odd element count for
// exactly one width candidate.
func detectIntWidth(size int) (int, error) {
	for _, w := range []int{4, 8} {
		rest := size - timestampSize
		if rest > 0 && rest%w == 0 && (rest/w)%2 == 1 {
			return w, nil
		}
	}
	return 0, fmt.Errorf("%w: leading record of %d bytes", ErrUnrecognizedFormat, size)
}

// Read decodes the census of the file at path.
func Read(path string) (*Data, error) {
	f, err := unf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mdcint: %w", err)
	}
	defer f.Close()

	d := &Data{}
	if err := readPreamble(f, d); err != nil {
		return nil, err
	}
	if err := readPairBlocks(f, d); err != nil {
		return nil, err
	}
	return d, nil
}

// readPreamble decodes the leading record. The index table's size is
// only known once the pair count has been decoded, so the record is
// read twice: timestamp and count alone, then the fully sized spec
// after backspacing.
func readPreamble(f *unf.File, d *Data) error {
	size, err := f.NextRecordSize()
	if err != nil {
		return fmt.Errorf("mdcint: leading record: %w", err)
	}
	width, err := detectIntWidth(size)
	if err != nil {
		return err
	}
	if err := f.SetIntWidth(width); err != nil {
		return err
	}
	d.IntWidth = width

	var (
		stamp []byte
		nkr   int64
	)
	if _, err := f.Read("c[46],i", &stamp, &nkr); err != nil && !errors.Is(err, unf.ErrLengthMismatch) {
		return fmt.Errorf("mdcint: leading record: %w", err)
	}
	if nkr <= 0 {
		return fmt.Errorf("mdcint: leading record: bad Kramers-pair count %d", nkr)
	}
	if int(nkr) != (size-timestampSize-width)/(2*width) {
		return fmt.Errorf("mdcint: leading record: pair count %d disagrees with record size %d", nkr, size)
	}
	if err := f.Backspace(); err != nil {
		return fmt.Errorf("mdcint: leading record: %w", err)
	}

	var index []int64
	if _, err := f.Read("c[46],i,i[]", &stamp, &nkr, &index, 2*int(nkr)); err != nil {
		return fmt.Errorf("mdcint: leading record: %w", err)
	}

	d.Timestamp = strings.TrimRight(string(stamp), " ")
	d.NumKramersPairs = int(nkr)
	d.SpinorIndex = make([]int, len(index))
	for i, v := range index {
		d.SpinorIndex[i] = int(v)
	}
	return nil
}

// readPairBlocks walks the buffer records until the terminator pair.
// Whether the integral values are real or complex is not declared in
// the file; it is inferred from each record's size against its nonzero
// count.
func readPairBlocks(f *unf.File, d *Data) error {
	w := f.IntWidth()
	for {
		size, err := f.NextRecordSize()
		if errors.Is(err, io.EOF) {
			return ErrMissingTerminator
		}
		if err != nil {
			return fmt.Errorf("mdcint: pair record: %w", err)
		}

		var ikr, jkr int64
		if _, err := f.Read("2i", &ikr, &jkr); err != nil && !errors.Is(err, unf.ErrLengthMismatch) {
			return fmt.Errorf("mdcint: pair record: %w", err)
		}
		if ikr == 0 && jkr == 0 {
			return nil
		}
		if err := f.Backspace(); err != nil {
			return fmt.Errorf("mdcint: pair record: %w", err)
		}

		var nonzr int64
		if _, err := f.Read("3i", &ikr, &jkr, &nonzr); err != nil && !errors.Is(err, unf.ErrLengthMismatch) {
			return fmt.Errorf("mdcint: pair record (%d,%d): %w", ikr, jkr, err)
		}
		if nonzr <= 0 {
			return fmt.Errorf("mdcint: pair record (%d,%d): bad nonzero count %d", ikr, jkr, nonzr)
		}
		rest := size - 3*w - 2*w*int(nonzr)
		if rest <= 0 || rest%int(nonzr) != 0 {
			return fmt.Errorf("mdcint: pair record (%d,%d): %d value bytes for %d integrals", ikr, jkr, rest, nonzr)
		}
		if err := f.Backspace(); err != nil {
			return fmt.Errorf("mdcint: pair record (%d,%d): %w", ikr, jkr, err)
		}

		block := PairBlock{IKr: int(ikr), JKr: int(jkr), Count: int(nonzr)}
		var indk, indl []int64
		switch rest / int(nonzr) {
		case 8:
			var vals []float64
			_, err = f.Read("3i,i[],i[],r8[]",
				&ikr, &jkr, &nonzr,
				&indk, nonzr, &indl, nonzr, &vals, nonzr)
			for _, v := range vals {
				block.MaxAbs = math.Max(block.MaxAbs, math.Abs(v))
			}
		case 16:
			d.Complex = true
			var vals []complex128
			_, err = f.Read("3i,i[],i[],z8[]",
				&ikr, &jkr, &nonzr,
				&indk, nonzr, &indl, nonzr, &vals, nonzr)
			for _, v := range vals {
				block.MaxAbs = math.Max(block.MaxAbs, cmplx.Abs(v))
			}
		default:
			return fmt.Errorf("mdcint: pair record (%d,%d): value element size %d", ikr, jkr, rest/int(nonzr))
		}
		if err != nil {
			return fmt.Errorf("mdcint: pair record (%d,%d): %w", ikr, jkr, err)
		}

		d.Pairs = append(d.Pairs, block)
		d.TotalIntegrals += nonzr
	}
}
