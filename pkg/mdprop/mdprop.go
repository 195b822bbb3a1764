// Package mdprop decodes one-electron property files. The file is a
// sequence of operator blocks, each a 32-byte label record followed by
// one record holding the operator matrix over the spinor basis; a
// label reading EOFLABEL ends the stream.
package mdprop

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/qchemtools/diracinspect/pkg/unf"
)

// ErrMissingTerminator reports a file that ended without the EOFLABEL
// sentinel record.
var ErrMissingTerminator = errors.New("mdprop: file ends before terminator label")

const (
	labelRecordSize = 32
	labelSize       = 8
	terminator      = "EOFLABEL"
)

// Operator is one property operator: its label and its matrix in the
// spinor basis, filled row-major from file order.
type Operator struct {
	Name   string
	Matrix *mat.CDense
}

// Read decodes every operator block of the file at path. The matrix
// dimension is not stored in the file itself; numSpinors must come
// from the matching header file.
func Read(path string, numSpinors int) ([]Operator, error) {
	if numSpinors <= 0 {
		return nil, fmt.Errorf("mdprop: bad spinor count %d", numSpinors)
	}
	f, err := unf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mdprop: %w", err)
	}
	defer f.Close()

	var ops []Operator
	for {
		name, err := readLabel(f)
		if err != nil {
			return nil, err
		}
		if name == terminator {
			return ops, nil
		}

		var vals []complex128
		if _, err := f.Read("z8[]", &vals, numSpinors*numSpinors); err != nil {
			return nil, fmt.Errorf("mdprop: matrix record for %q: %w", name, err)
		}
		ops = append(ops, Operator{
			Name:   name,
			Matrix: mat.NewCDense(numSpinors, numSpinors, vals),
		})
	}
}

// readLabel consumes one 32-byte label record. The operator name sits
// in the trailing 8 bytes; the leading 24 carry a date stamp that is
// not interpreted here.
func readLabel(f *unf.File) (string, error) {
	size, err := f.NextRecordSize()
	if errors.Is(err, io.EOF) {
		return "", ErrMissingTerminator
	}
	if err != nil {
		return "", fmt.Errorf("mdprop: label record: %w", err)
	}
	if size != labelRecordSize {
		return "", fmt.Errorf("mdprop: label record: got %d bytes, want %d", size, labelRecordSize)
	}

	var raw []byte
	if _, err := f.Read("c[32]", &raw); err != nil {
		return "", fmt.Errorf("mdprop: label record: %w", err)
	}
	name := string(raw[labelRecordSize-labelSize:])
	return strings.TrimRight(name, " "), nil
}
