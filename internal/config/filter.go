package config

// Filter selects which rows of the parametric model are resolved into the
// report dataset. It clips the strip length range and pins the base
// thickness, either to an exact value (point query) or to a closed range.
//
// Design decision: the original tooling passed these bounds around as an
// open-ended keyword bag through every layer. We represent them as an
// explicit immutable structure with named optional fields; the only
// mutation point is WidenThickness, the single point-to-range translation
// step owned by the resolver.
type Filter struct {
	// AMin, when non-nil, clips the minimum strip length [mm].
	AMin *float64

	// AMax, when non-nil, clips the maximum strip length [mm].
	AMax *float64

	// TBFix, when non-nil, requests rows whose base thickness [mm] matches
	// exactly. Mutually exclusive with TBMin/TBMax.
	TBFix *float64

	// TBMin, TBMax, when non-nil, request rows whose base thickness [mm]
	// falls inside the closed range. Mutually exclusive with TBFix.
	TBMin *float64
	TBMax *float64
}

// Float64Ptr returns a pointer to v. Convenience for building filters
// from literal values.
func Float64Ptr(v float64) *float64 { return &v }

// Validate checks the filter for contradictory or missing bounds.
// Validation happens eagerly, before any query is issued, so a mistyped
// flag fails fast instead of manifesting as a confusing empty report.
func (f Filter) Validate() error {
	if f.AMin != nil && f.AMax != nil && *f.AMin > *f.AMax {
		return ErrInvalidLengthBounds
	}
	hasFix := f.TBFix != nil
	hasRange := f.TBMin != nil || f.TBMax != nil
	switch {
	case hasFix && hasRange:
		return ErrConflictingThicknessFilter
	case !hasFix && !hasRange:
		return ErrNoThicknessFilter
	}
	if f.TBMin != nil && f.TBMax != nil && *f.TBMin > *f.TBMax {
		return ErrInvalidThicknessBounds
	}
	return nil
}

// IsPointQuery reports whether the filter pins the base thickness to an
// exact value rather than a range.
func (f Filter) IsPointQuery() bool { return f.TBFix != nil }

// WidenThickness returns a copy of the filter with the exact thickness
// query replaced by the range [TBFix-buffer, TBFix+buffer]. The strip
// length clipping is retained unchanged.
//
// This is the fallback translation used by the resolver when the point
// query matched no rows; it must only be called on a point-query filter.
func (f Filter) WidenThickness(buffer float64) Filter {
	widened := f
	if f.TBFix == nil {
		return widened
	}
	lo := *f.TBFix - buffer
	hi := *f.TBFix + buffer
	widened.TBFix = nil
	widened.TBMin = &lo
	widened.TBMax = &hi
	return widened
}
