package model

import (
	"reflect"
	"testing"
)

func TestMarkerSetExtendKeepsOrderAndDuplicates(t *testing.T) {
	s := NewMarkerSet(100, 250)
	s.Extend([]float64{250, 400})

	want := []float64{100, 250, 250, 400}
	if !reflect.DeepEqual(s.Values(), want) {
		t.Errorf("Values() = %v, want %v", s.Values(), want)
	}
	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}
}

func TestMarkerSetIndicesIn(t *testing.T) {
	samples := []float64{1.0, 2.0, 3.0}

	tests := []struct {
		name    string
		markers []float64
		want    []int
	}{
		{name: "exact match", markers: []float64{2.0}, want: []int{1}},
		{name: "between samples matches nothing", markers: []float64{2.5}, want: nil},
		{name: "several matches in sample order", markers: []float64{3.0, 1.0}, want: []int{0, 2}},
		{name: "empty set", markers: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMarkerSet(tt.markers...)
			if got := s.IndicesIn(samples); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("IndicesIn() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMarkerSetNilSafe(t *testing.T) {
	var s *MarkerSet
	if s.Len() != 0 || s.Values() != nil || s.IndicesIn([]float64{1}) != nil {
		t.Error("nil MarkerSet accessors should be zero-valued")
	}
}
