// Package mrconee decodes the header file of DIRAC transformed
// molecular integrals: energies, symmetry data, spinor metadata and the
// Fock matrix, laid out as six sequential unformatted records.
package mrconee

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/qchemtools/diracinspect/pkg/unf"
)

// ErrUnrecognizedFormat reports a first record whose length matches
// neither the 4-byte nor the 8-byte integer layout of the header
// schema.
var ErrUnrecognizedFormat = errors.New("record layout matches neither 4-byte nor 8-byte integers")

// GroupArith is the arithmetic kind of the double group the integrals
// were transformed in.
type GroupArith int

const (
	ArithReal       GroupArith = 1
	ArithComplex    GroupArith = 2
	ArithQuaternion GroupArith = 4
)

func (a GroupArith) String() string {
	switch a {
	case ArithReal:
		return "real"
	case ArithComplex:
		return "complex"
	case ArithQuaternion:
		return "quaternion"
	default:
		return "unknown"
	}
}

// Data is the decoded content of a header file. It is returned fully
// populated or not at all: any record failure discards partial state.
type Data struct {
	// IntWidth is the native integer width of the producing program,
	// 4 or 8 bytes.
	IntWidth int

	NumSpinors int
	// CoreEnergy is the inactive energy plus the nuclear repulsion.
	CoreEnergy float64
	SCFEnergy  float64
	Arith      GroupArith
	SpinFree   bool
	// InvSym is 2 when the molecule has inversion symmetry, 1 otherwise.
	InvSym int

	NumIrreps  int
	IrrepNames []string
	PointGroup string
	// TotallySymIrrep indexes the totally symmetric irrep in IrrepNames,
	// 0 when the point group was not detected.
	TotallySymIrrep int
	// MultTable gives, for irreps i and j, the irrep identifier of their
	// group product. Entries are kept exactly as stored on disk.
	MultTable [][]int

	// Per-spinor arrays, all of length NumSpinors. SpinorIrreps indexes
	// into IrrepNames.
	SpinorIrreps   []int
	OccNumbers     []int
	SpinorEnergies []float64

	// Fock is the NumSpinors x NumSpinors complex Fock matrix, filled
	// row-major in file order.
	Fock *mat.CDense
}

// The first record always holds this many integers and 8-byte reals,
// which is what makes the integer width detectable from its length.
const (
	headerInts  = 6
	headerReals = 2
)

// DetectIntWidth infers the producing program's native integer width
// from the declared length of the first record.
func DetectIntWidth(f *unf.File) (int, error) {
	size, err := f.NextRecordSize()
	if err != nil {
		return 0, fmt.Errorf("mrconee: probe first record: %w", err)
	}
	switch size {
	case headerInts*4 + headerReals*8:
		return 4, nil
	case headerInts*8 + headerReals*8:
		return 8, nil
	default:
		return 0, fmt.Errorf("mrconee: first record is %d bytes: %w", size, ErrUnrecognizedFormat)
	}
}

// Read decodes the header file at path.
func Read(path string) (*Data, error) {
	f, err := unf.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	width, err := DetectIntWidth(f)
	if err != nil {
		return nil, err
	}
	if err := f.SetIntWidth(width); err != nil {
		return nil, err
	}

	d := &Data{IntWidth: width}
	if err := readHeader(f, d); err != nil {
		return nil, err
	}
	fermionOccs, err := readFermionOccs(f, d)
	if err != nil {
		return nil, err
	}
	if err := readAbelianIrreps(f, d); err != nil {
		return nil, err
	}
	if err := readMultTable(f, d); err != nil {
		return nil, err
	}
	if err := readSpinorInfo(f, d, fermionOccs); err != nil {
		return nil, err
	}
	if err := readFock(f, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Record 1: spinor count, Breit flag, core energy, inversion symmetry,
// group arithmetic, spin-free flag, total orbital count, SCF energy.
// The Breit flag and the orbital count are consumed for alignment only.
func readHeader(f *unf.File, d *Data) error {
	var (
		numSpinors, breit, invSym, nzArith, spinFree, norbTotal int64
		coreEnergy, scfEnergy                                   float64
	)
	n, err := f.Read("2i,r8,4i,r8",
		&numSpinors, &breit, &coreEnergy,
		&invSym, &nzArith, &spinFree, &norbTotal,
		&scfEnergy)
	if err != nil {
		return fmt.Errorf("mrconee: header record: %w", err)
	}
	if n != 8 {
		return fmt.Errorf("mrconee: header record: decoded %d of 8 fields", n)
	}
	if numSpinors <= 0 {
		return fmt.Errorf("mrconee: header record: bad spinor count %d", numSpinors)
	}
	if invSym != 1 && invSym != 2 {
		return fmt.Errorf("mrconee: header record: bad inversion flag %d", invSym)
	}
	_ = breit
	_ = norbTotal

	d.NumSpinors = int(numSpinors)
	d.CoreEnergy = coreEnergy
	d.SCFEnergy = scfEnergy
	d.Arith = GroupArith(nzArith)
	d.SpinFree = spinFree != 0
	d.InvSym = int(invSym)
	return nil
}

// Record 2: electron occupations of the parent-group fermion irreps.
// Only the active-spinor counts survive, as scratch input to the
// occupation fill of record 5; the parent-group irrep names and the
// string/frozen/deleted counts are consumed for alignment.
func readFermionOccs(f *unf.File, d *Data) ([]int64, error) {
	var (
		nsymrp                                             int64
		parentNames                                        []byte
		nactive, nstr, frozenTot, frozenPos, frozenNeg, nd []int64
	)
	n, err := f.Read("i,c14[],i[],i[],i[],i[],i[],i[]",
		&nsymrp,
		&parentNames, &nsymrp,
		&nactive, &nsymrp,
		&nstr, d.InvSym,
		&frozenTot, d.InvSym,
		&frozenPos, d.InvSym,
		&frozenNeg, d.InvSym,
		&nd, d.InvSym)
	if err != nil {
		return nil, fmt.Errorf("mrconee: fermion occupation record: %w", err)
	}
	if n != 8 {
		return nil, fmt.Errorf("mrconee: fermion occupation record: decoded %d of 8 fields", n)
	}
	return nactive, nil
}

// Record 3: irrep names of the abelian subgroup. The name table's size
// is only known once the leading pair count has been decoded, so the
// record is read twice: the count alone, then the fully sized spec
// after backspacing over it.
func readAbelianIrreps(f *unf.File, d *Data) error {
	var npairs int64
	if _, err := f.Read("i", &npairs); err != nil && !errors.Is(err, unf.ErrLengthMismatch) {
		return fmt.Errorf("mrconee: abelian irrep record: %w", err)
	}
	num := int(2 * npairs)
	if num < 2 || num > 64 || num&(num-1) != 0 {
		return fmt.Errorf("mrconee: abelian irrep record: bad irrep count %d", num)
	}
	if err := f.Backspace(); err != nil {
		return fmt.Errorf("mrconee: abelian irrep record: %w", err)
	}

	var raw []byte
	n, err := f.Read("i,c4[]", &npairs, &raw, num)
	if err != nil {
		return fmt.Errorf("mrconee: abelian irrep record: %w", err)
	}
	if n != 2 {
		return fmt.Errorf("mrconee: abelian irrep record: decoded %d of 2 fields", n)
	}

	d.NumIrreps = num
	d.IrrepNames = make([]string, num)
	for i := range d.IrrepNames {
		d.IrrepNames[i] = string(raw[4*i : 4*i+4])
	}
	d.PointGroup, d.TotallySymIrrep, d.IrrepNames = Classify(d.IrrepNames)
	return nil
}

// Record 4: the irrep multiplication table, stored as a flat block in
// transposed linear order. Entries are irrep identifiers taken as-is;
// they carry the producing program's own numbering and get no -1
// normalization here.
func readMultTable(f *unf.File, d *Data) error {
	nirr := d.NumIrreps
	var flat []int64
	n, err := f.Read("i[]", &flat, nirr*nirr)
	if err != nil {
		return fmt.Errorf("mrconee: multiplication table record: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("mrconee: multiplication table record: decoded %d of 1 fields", n)
	}

	d.MultTable = make([][]int, nirr)
	for i := 0; i < nirr; i++ {
		row := make([]int, nirr)
		for j := 0; j < nirr; j++ {
			row[j] = int(flat[j*nirr+i])
		}
		d.MultTable[i] = row
	}
	return nil
}

// Record 5: spinor metadata, a raw block of fixed-size elements whose
// internal field widths depend on the active integer width. The block
// is read opaque and each element reinterpreted at a computed offset.
func readSpinorInfo(f *unf.File, d *Data, fermionOccs []int64) error {
	elem := spinorElementSize(d.IntWidth)
	var raw []byte
	n, err := f.Read("c[]", &raw, d.NumSpinors*elem)
	if err != nil {
		return fmt.Errorf("mrconee: spinor record: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("mrconee: spinor record: decoded %d of 1 fields", n)
	}

	d.SpinorIrreps = make([]int, d.NumSpinors)
	d.OccNumbers = make([]int, d.NumSpinors)
	d.SpinorEnergies = make([]float64, d.NumSpinors)

	remaining := make([]int64, len(fermionOccs))
	copy(remaining, fermionOccs)

	for i := 0; i < d.NumSpinors; i++ {
		parent, irrep, energy := spinorElementAt(raw, i, d.IntWidth)
		if irrep < 1 || irrep > d.NumIrreps {
			return fmt.Errorf("mrconee: spinor record: spinor %d has irrep %d of %d", i+1, irrep, d.NumIrreps)
		}
		if parent < 1 || parent > len(remaining) {
			return fmt.Errorf("mrconee: spinor record: spinor %d has fermion irrep %d of %d", i+1, parent, len(remaining))
		}
		d.SpinorIrreps[i] = irrep - 1
		d.SpinorEnergies[i] = energy

		// Greedy fill in file order: a spinor is occupied while its
		// fermion irrep still has electrons left.
		if remaining[parent-1] > 0 {
			remaining[parent-1]--
			d.OccNumbers[i] = 1
		}
	}
	return nil
}

// Record 6: the Fock matrix, a flat block of NumSpinors^2 complex
// values consumed row-major.
func readFock(f *unf.File, d *Data) error {
	ns := d.NumSpinors
	var vals []complex128
	n, err := f.Read("z8[]", &vals, ns*ns)
	if err != nil {
		return fmt.Errorf("mrconee: Fock matrix record: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("mrconee: Fock matrix record: decoded %d of 1 fields", n)
	}
	d.Fock = mat.NewCDense(ns, ns, vals)
	return nil
}

func spinorElementSize(width int) int {
	return 2*width + 8
}

// spinorElementAt reinterprets element i of the raw spinor block. Each
// element is two integers of the active width (the parent-group fermion
// irrep, then the authoritative abelian irrep) followed by the one-
// electron energy.
func spinorElementAt(buf []byte, i, width int) (parent, irrep int, energy float64) {
	base := i * spinorElementSize(width)
	if width == 4 {
		parent = int(int32(binary.LittleEndian.Uint32(buf[base:])))
		irrep = int(int32(binary.LittleEndian.Uint32(buf[base+4:])))
	} else {
		parent = int(int64(binary.LittleEndian.Uint64(buf[base:])))
		irrep = int(int64(binary.LittleEndian.Uint64(buf[base+8:])))
	}
	energy = math.Float64frombits(binary.LittleEndian.Uint64(buf[base+2*width:]))
	return parent, irrep, energy
}
