// Package report renders decoded integral-file content as fixed-layout
// text or as JSON summaries.
package report

import (
	"fmt"
	"io"
	"math/cmplx"
	"strconv"

	"github.com/qchemtools/diracinspect/pkg/mdcint"
	"github.com/qchemtools/diracinspect/pkg/mdprop"
	"github.com/qchemtools/diracinspect/pkg/mrconee"
)

// Header writes the one-electron header report.
func Header(w io.Writer, d *mrconee.Data) error {
	ew := &errWriter{w: w}
	ew.printf("\n")
	ew.printf(" size of integers in DIRAC                          %d bytes\n", d.IntWidth)
	ew.printf(" number of spinors                                  %d\n", d.NumSpinors)
	ew.printf(" core energy (inactive energy + nuclear repulsion)  %.12f a.u.\n", d.CoreEnergy)
	ew.printf(" total SCF energy                                   %.12f a.u.\n", d.SCFEnergy)
	ew.printf(" double group type                                  %s\n", d.Arith)
	ew.printf(" spin-free                                          %s\n", yesNo(d.SpinFree))
	ew.printf(" Abelian subgroup                                   %s\n", d.PointGroup)
	ew.printf(" totally symmetric irrep                            %s\n", irrepName(d, d.TotallySymIrrep))
	ew.printf(" number of irreps in the Abelian subgroup           %d\n", d.NumIrreps)
	ew.printf("\n")

	ew.printf(" spinors info:\n")
	ew.printf(" -----------------------------------------------------\n")
	ew.printf("   no       irrep     occ      one-electron energy    \n")
	ew.printf(" -----------------------------------------------------\n")
	for i := 0; i < d.NumSpinors; i++ {
		ew.printf(" %4d%12s%8d%25.8f\n",
			i+1, irrepName(d, d.SpinorIrreps[i]), d.OccNumbers[i], d.SpinorEnergies[i])
	}
	ew.printf(" -----------------------------------------------------\n")
	ew.printf("\n")
	return ew.err
}

// Properties writes the one-electron property report.
func Properties(w io.Writer, ops []mdprop.Operator) error {
	ew := &errWriter{w: w}
	ew.printf("\n")
	ew.printf(" number of property operators                       %d\n", len(ops))
	ew.printf("\n")
	ew.printf(" operators:\n")
	ew.printf(" ---------------------------------------------\n")
	ew.printf("   no      name        dim       max |element|\n")
	ew.printf(" ---------------------------------------------\n")
	for i, op := range ops {
		n, _ := op.Matrix.Dims()
		ew.printf(" %4d%10s%11d%20.8f\n", i+1, op.Name, n, maxAbsElement(op))
	}
	ew.printf(" ---------------------------------------------\n")
	ew.printf("\n")
	return ew.err
}

// TwoElectron writes the two-electron census report.
func TwoElectron(w io.Writer, d *mdcint.Data) error {
	ew := &errWriter{w: w}
	ew.printf("\n")
	ew.printf(" date and time of integral generation               %s\n", d.Timestamp)
	ew.printf(" size of integers in DIRAC                          %d bytes\n", d.IntWidth)
	ew.printf(" number of Kramers pairs                            %d\n", d.NumKramersPairs)
	ew.printf(" integral values                                    %s\n", realComplex(d.Complex))
	ew.printf(" total number of nonzero integrals                  %d\n", d.TotalIntegrals)
	ew.printf("\n")

	ew.printf(" integral blocks:\n")
	ew.printf(" ---------------------------------------------\n")
	ew.printf("   ikr     jkr      nonzero       max |value| \n")
	ew.printf(" ---------------------------------------------\n")
	for _, p := range d.Pairs {
		ew.printf(" %5d%8d%13d%18.8f\n", p.IKr, p.JKr, p.Count, p.MaxAbs)
	}
	ew.printf(" ---------------------------------------------\n")
	ew.printf("\n")
	return ew.err
}

// irrepName resolves an irrep index against the decoded name table. The
// totally symmetric index of a spin-separated group can point past the
// file's own irreps; the bare index is printed then.
func irrepName(d *mrconee.Data, idx int) string {
	if idx >= 0 && idx < len(d.IrrepNames) {
		return d.IrrepNames[idx]
	}
	return strconv.Itoa(idx)
}

func maxAbsElement(op mdprop.Operator) float64 {
	n, _ := op.Matrix.Dims()
	var max float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if a := cmplx.Abs(op.Matrix.At(i, j)); a > max {
				max = a
			}
		}
	}
	return max
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func realComplex(b bool) string {
	if b {
		return "complex"
	}
	return "real"
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
