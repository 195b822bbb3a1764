package mrconee

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// headerFixture describes the logical content of a synthetic header
// file; build lays it out as six framed records in either integer
// width.
type headerFixture struct {
	width      int
	numSpinors int
	breit      int64
	coreEnergy float64
	invSym     int64
	arith      int64
	spinFree   int64
	norbTotal  int64
	scfEnergy  float64

	fermionOccs []int64  // active-spinor counts per parent-group irrep
	irrepNames  []string // abelian irrep names, 4 characters each
	multTable   []int64  // flat nirr*nirr block, nil for zeros

	parents  []int64 // per spinor, 1-based parent-group irrep
	irreps   []int64 // per spinor, 1-based abelian irrep
	energies []float64
	fock     []complex128 // nil for zeros
}

func (fx headerFixture) build(t *testing.T) string {
	t.Helper()

	ints := func(vals ...int64) []byte {
		var buf bytes.Buffer
		for _, v := range vals {
			if fx.width == 4 {
				_ = binary.Write(&buf, binary.LittleEndian, int32(v))
			} else {
				_ = binary.Write(&buf, binary.LittleEndian, v)
			}
		}
		return buf.Bytes()
	}
	reals := func(vals ...float64) []byte {
		var buf bytes.Buffer
		for _, v := range vals {
			_ = binary.Write(&buf, binary.LittleEndian, math.Float64bits(v))
		}
		return buf.Bytes()
	}

	var file bytes.Buffer
	record := func(parts ...[]byte) {
		var payload bytes.Buffer
		for _, p := range parts {
			payload.Write(p)
		}
		var marker [4]byte
		binary.LittleEndian.PutUint32(marker[:], uint32(payload.Len()))
		file.Write(marker[:])
		file.Write(payload.Bytes())
		file.Write(marker[:])
	}

	// Record 1: header scalars.
	record(
		ints(int64(fx.numSpinors), fx.breit),
		reals(fx.coreEnergy),
		ints(fx.invSym, fx.arith, fx.spinFree, fx.norbTotal),
		reals(fx.scfEnergy),
	)

	// Record 2: parent-group occupations plus alignment-only arrays.
	nsymrp := len(fx.fermionOccs)
	parentNames := make([]byte, 14*nsymrp)
	for i := range parentNames {
		parentNames[i] = ' '
	}
	padding := make([]int64, 5*int(fx.invSym))
	record(
		ints(int64(nsymrp)),
		parentNames,
		ints(fx.fermionOccs...),
		ints(padding...),
	)

	// Record 3: abelian irrep names.
	npairs := len(fx.irrepNames) / 2
	var names bytes.Buffer
	for _, n := range fx.irrepNames {
		names.WriteString(n)
	}
	record(ints(int64(npairs)), names.Bytes())

	// Record 4: multiplication table.
	nirr := len(fx.irrepNames)
	table := fx.multTable
	if table == nil {
		table = make([]int64, nirr*nirr)
	}
	record(ints(table...))

	// Record 5: packed spinor metadata.
	var spinors bytes.Buffer
	for i := 0; i < fx.numSpinors; i++ {
		spinors.Write(ints(fx.parents[i], fx.irreps[i]))
		spinors.Write(reals(fx.energies[i]))
	}
	record(spinors.Bytes())

	// Record 6: Fock matrix.
	fock := fx.fock
	if fock == nil {
		fock = make([]complex128, fx.numSpinors*fx.numSpinors)
	}
	var fockBytes bytes.Buffer
	for _, z := range fock {
		fockBytes.Write(reals(real(z), imag(z)))
	}
	record(fockBytes.Bytes())

	path := filepath.Join(t.TempDir(), "MRCONEE")
	if err := os.WriteFile(path, file.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// c1Fixture is a small, complete file in the C1 nonrelativistic
// signature that most tests start from.
func c1Fixture(width int) headerFixture {
	return headerFixture{
		width:      width,
		numSpinors: 6,
		coreEnergy: 9.25,
		invSym:     1,
		arith:      2,
		norbTotal:  6,
		scfEnergy:  -26.5,

		fermionOccs: []int64{2, 0, 1},
		irrepNames:  []string{"A  a", "A  b"},
		multTable:   []int64{1, 2, 2, 1},

		parents:  []int64{1, 1, 1, 2, 3, 3},
		irreps:   []int64{1, 2, 1, 2, 1, 2},
		energies: []float64{-1.5, -1.25, -0.5, 0.25, 0.75, 1.0},
	}
}
