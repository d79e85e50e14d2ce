package model

// MarkerSet holds the strip lengths [mm] to annotate on the report: the
// user-requested markers joined with any automatically detected mode
// transitions.
//
// Values are kept in insertion order and are not deduplicated; lookup
// against the sampled strip lengths is by exact float equality, matching
// the way the values were produced from the same column.
type MarkerSet struct {
	values []float64
}

// NewMarkerSet creates a MarkerSet holding the given values.
func NewMarkerSet(values ...float64) *MarkerSet {
	return &MarkerSet{values: append([]float64{}, values...)}
}

// Extend appends values to the set.
func (s *MarkerSet) Extend(values []float64) {
	s.values = append(s.values, values...)
}

// Len returns the number of marker values.
func (s *MarkerSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Values returns the marker values in insertion order.
func (s *MarkerSet) Values() []float64 {
	if s == nil {
		return nil
	}
	return s.values
}

// IndicesIn returns the indices of the samples whose value appears in the
// set. Marker values absent from the samples match nothing: lookup is
// exact, with no interpolation or nearest-neighbor fallback.
func (s *MarkerSet) IndicesIn(samples []float64) []int {
	if s.Len() == 0 {
		return nil
	}
	member := make(map[float64]struct{}, len(s.values))
	for _, v := range s.values {
		member[v] = struct{}{}
	}
	var idx []int
	for i, x := range samples {
		if _, ok := member[x]; ok {
			idx = append(idx, i)
		}
	}
	return idx
}
