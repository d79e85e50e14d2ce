package model

import (
	"errors"
	"fmt"
	"math"
)

// Column names of the modal composites table. These match the column
// naming of the parametric model files, so they double as the keys of
// ColumnMeta and as the series keys of the panel layout.
const (
	ColumnA             = "a"
	ColumnTB            = "t_b"
	ColumnOmega         = "omega"
	ColumnOmegaApprox   = "omega_approx"
	ColumnSigmaCr       = "sigma_cr"
	ColumnSigmaCrApprox = "sigma_cr_approx"
	ColumnMDominant     = "m_dominant"
	ColumnOmegaRelErr   = "omega_rel_err"
	ColumnSigmaCrRelErr = "sigma_cr_rel_err"
)

// ThicknessTolerance is the maximum spread of the t_b column allowed in
// one resolved dataset. A resolved dataset is a single thickness slice of
// the parametric model; spreads beyond representation noise indicate a
// filter or model file problem.
const ThicknessTolerance = 1e-6

// Dataset invariant violations reported by ModalComposites.Validate.
var (
	// ErrLengthsNotIncreasing is returned when the strip length column is
	// not strictly increasing.
	ErrLengthsNotIncreasing = errors.New("strip lengths are not strictly increasing")

	// ErrInconsistentThickness is returned when rows in one resolved
	// dataset disagree on the base thickness beyond ThicknessTolerance.
	ErrInconsistentThickness = errors.New("base thickness is not constant across the dataset")
)

// ErrUnknownColumn is returned by Column for a name outside the modal
// composites schema.
var ErrUnknownColumn = errors.New("unknown modal composites column")

// Composite is one row of the modal composites table: the behavior of the
// strip at one strip length, computed by both methods.
type Composite struct {
	// A is the strip length [mm], the independent variable.
	A float64

	// TB is the base strip thickness [mm]; constant across a resolved
	// dataset.
	TB float64

	// Omega and OmegaApprox are the natural frequency via the direct
	// method and via physical dualism.
	Omega       float64
	OmegaApprox float64

	// SigmaCr and SigmaCrApprox are the critical buckling stress via the
	// direct method and via physical dualism.
	SigmaCr       float64
	SigmaCrApprox float64

	// MDominant is the integer index of the governing mode.
	MDominant int

	// OmegaRelErr and SigmaCrRelErr are the relative approximation errors
	// of the physical dualism results.
	OmegaRelErr   float64
	SigmaCrRelErr float64
}

// ModalComposites is an ordered table of Composite rows keyed by strictly
// increasing strip length. The zero value is an empty dataset, which is a
// valid (if unusable) state: resolution may legitimately match no rows.
type ModalComposites struct {
	// Rows are ordered by ascending strip length.
	Rows []Composite
}

// Len returns the number of rows.
func (m ModalComposites) Len() int { return len(m.Rows) }

// IsEmpty reports whether the dataset holds no rows.
func (m ModalComposites) IsEmpty() bool { return len(m.Rows) == 0 }

// Lengths returns the strip length column.
func (m ModalComposites) Lengths() []float64 {
	out := make([]float64, len(m.Rows))
	for i, r := range m.Rows {
		out[i] = r.A
	}
	return out
}

// Thickness returns the base thickness of the resolved dataset, taken
// from the first row. It must not be called on an empty dataset.
func (m ModalComposites) Thickness() float64 { return m.Rows[0].TB }

// DominantModes returns the dominant mode index column.
func (m ModalComposites) DominantModes() []int {
	out := make([]int, len(m.Rows))
	for i, r := range m.Rows {
		out[i] = r.MDominant
	}
	return out
}

// Column returns the named column as floats. Integer-valued columns are
// widened so the plot composer can treat every series uniformly.
func (m ModalComposites) Column(name string) ([]float64, error) {
	pick, err := columnAccessor(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(m.Rows))
	for i, r := range m.Rows {
		out[i] = pick(r)
	}
	return out, nil
}

// columnAccessor maps a column name to its row accessor.
func columnAccessor(name string) (func(Composite) float64, error) {
	switch name {
	case ColumnA:
		return func(r Composite) float64 { return r.A }, nil
	case ColumnTB:
		return func(r Composite) float64 { return r.TB }, nil
	case ColumnOmega:
		return func(r Composite) float64 { return r.Omega }, nil
	case ColumnOmegaApprox:
		return func(r Composite) float64 { return r.OmegaApprox }, nil
	case ColumnSigmaCr:
		return func(r Composite) float64 { return r.SigmaCr }, nil
	case ColumnSigmaCrApprox:
		return func(r Composite) float64 { return r.SigmaCrApprox }, nil
	case ColumnMDominant:
		return func(r Composite) float64 { return float64(r.MDominant) }, nil
	case ColumnOmegaRelErr:
		return func(r Composite) float64 { return r.OmegaRelErr }, nil
	case ColumnSigmaCrRelErr:
		return func(r Composite) float64 { return r.SigmaCrRelErr }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
}

// Validate checks the dataset invariants: strictly increasing strip
// lengths and a constant base thickness. An empty dataset is valid.
func (m ModalComposites) Validate() error {
	for i := 1; i < len(m.Rows); i++ {
		if m.Rows[i].A <= m.Rows[i-1].A {
			return fmt.Errorf("%w: a[%d]=%g, a[%d]=%g",
				ErrLengthsNotIncreasing, i-1, m.Rows[i-1].A, i, m.Rows[i].A)
		}
	}
	if len(m.Rows) > 1 {
		tb := m.Rows[0].TB
		for i, r := range m.Rows {
			if math.Abs(r.TB-tb) > ThicknessTolerance {
				return fmt.Errorf("%w: t_b[0]=%g, t_b[%d]=%g",
					ErrInconsistentThickness, tb, i, r.TB)
			}
		}
	}
	return nil
}

// ColumnInfo is the metadata of one column: its unit (empty when the
// quantity is dimensionless) and a human-readable description.
type ColumnInfo struct {
	Unit        string
	Description string
}

// ColumnMeta maps column names to their metadata. It is supplied alongside
// a resolved dataset and treated as immutable for the lifetime of one
// report.
type ColumnMeta map[string]ColumnInfo

// Title renders the axis/legend title of a column: the description,
// suffixed with the bracketed unit when one exists.
func (c ColumnMeta) Title(name string) string {
	info := c[name]
	if info.Unit == "" {
		return info.Description
	}
	return fmt.Sprintf("%s [%s]", info.Description, info.Unit)
}
