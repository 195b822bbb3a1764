package report

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/qchemtools/diracinspect/pkg/mdcint"
	"github.com/qchemtools/diracinspect/pkg/mdprop"
	"github.com/qchemtools/diracinspect/pkg/mrconee"
)

// HeaderSummary is the JSON shape of a decoded header file. Matrices
// are summarized by dimension only.
type HeaderSummary struct {
	IntWidth        int       `json:"int_width"`
	NumSpinors      int       `json:"num_spinors"`
	CoreEnergy      float64   `json:"core_energy"`
	SCFEnergy       float64   `json:"scf_energy"`
	GroupArithmetic string    `json:"group_arithmetic"`
	SpinFree        bool      `json:"spin_free"`
	PointGroup      string    `json:"point_group"`
	TotallySymIrrep int       `json:"totally_symmetric_irrep"`
	NumIrreps       int       `json:"num_irreps"`
	IrrepNames      []string  `json:"irrep_names"`
	SpinorIrreps    []int     `json:"spinor_irreps"`
	OccNumbers      []int     `json:"occupation_numbers"`
	SpinorEnergies  []float64 `json:"spinor_energies"`
	FockDim         int       `json:"fock_dim"`
}

// PropertySummary is the JSON shape of one property operator.
type PropertySummary struct {
	Name   string  `json:"name"`
	Dim    int     `json:"dim"`
	MaxAbs float64 `json:"max_abs"`
}

// TwoElectronSummary is the JSON shape of a two-electron census.
type TwoElectronSummary struct {
	IntWidth        int         `json:"int_width"`
	Timestamp       string      `json:"timestamp"`
	NumKramersPairs int         `json:"num_kramers_pairs"`
	Complex         bool        `json:"complex"`
	TotalIntegrals  int64       `json:"total_integrals"`
	Blocks          []PairBlock `json:"blocks"`
}

// PairBlock is one integral block in a TwoElectronSummary.
type PairBlock struct {
	IKr    int     `json:"ikr"`
	JKr    int     `json:"jkr"`
	Count  int     `json:"count"`
	MaxAbs float64 `json:"max_abs"`
}

// NewHeaderSummary builds the JSON-facing view of a decoded header.
func NewHeaderSummary(d *mrconee.Data) HeaderSummary {
	n, _ := d.Fock.Dims()
	return HeaderSummary{
		IntWidth:        d.IntWidth,
		NumSpinors:      d.NumSpinors,
		CoreEnergy:      d.CoreEnergy,
		SCFEnergy:       d.SCFEnergy,
		GroupArithmetic: d.Arith.String(),
		SpinFree:        d.SpinFree,
		PointGroup:      d.PointGroup,
		TotallySymIrrep: d.TotallySymIrrep,
		NumIrreps:       d.NumIrreps,
		IrrepNames:      d.IrrepNames,
		SpinorIrreps:    d.SpinorIrreps,
		OccNumbers:      d.OccNumbers,
		SpinorEnergies:  d.SpinorEnergies,
		FockDim:         n,
	}
}

// NewPropertySummaries builds the JSON-facing view of the operator list.
func NewPropertySummaries(ops []mdprop.Operator) []PropertySummary {
	out := make([]PropertySummary, len(ops))
	for i, op := range ops {
		n, _ := op.Matrix.Dims()
		out[i] = PropertySummary{Name: op.Name, Dim: n, MaxAbs: maxAbsElement(op)}
	}
	return out
}

// NewTwoElectronSummary builds the JSON-facing view of an integral
// census.
func NewTwoElectronSummary(d *mdcint.Data) TwoElectronSummary {
	blocks := make([]PairBlock, len(d.Pairs))
	for i, p := range d.Pairs {
		blocks[i] = PairBlock{IKr: p.IKr, JKr: p.JKr, Count: p.Count, MaxAbs: p.MaxAbs}
	}
	return TwoElectronSummary{
		IntWidth:        d.IntWidth,
		Timestamp:       d.Timestamp,
		NumKramersPairs: d.NumKramersPairs,
		Complex:         d.Complex,
		TotalIntegrals:  d.TotalIntegrals,
		Blocks:          blocks,
	}
}

// HeaderJSON writes the header summary as indented JSON.
func HeaderJSON(w io.Writer, d *mrconee.Data) error {
	return writeJSON(w, NewHeaderSummary(d))
}

// PropertiesJSON writes the operator summaries as indented JSON.
func PropertiesJSON(w io.Writer, ops []mdprop.Operator) error {
	return writeJSON(w, NewPropertySummaries(ops))
}

// TwoElectronJSON writes the census summary as indented JSON.
func TwoElectronJSON(w io.Writer, d *mdcint.Data) error {
	return writeJSON(w, NewTwoElectronSummary(d))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
