package detect

import (
	"github.com/fsmtools/fsmstrip/internal/model"
)

// ModeTransitions returns the strip lengths at which the dominant mode
// index differs from the previous sample, in ascending order.
//
// The scan is the discrete first difference of the m_dominant column with
// the leading difference defined as zero, so the first sample can never
// be reported: there is no previous mode to transition from. The
// comparison is strictly between adjacent samples, with no smoothing or
// hysteresis; a single-sample oscillation therefore yields two
// transitions, which is intended, as both points are places where the
// governing mode changes.
func ModeTransitions(dataset model.ModalComposites) []float64 {
	modes := dataset.DominantModes()
	var transitions []float64
	for i := 1; i < len(modes); i++ {
		if modes[i] != modes[i-1] {
			transitions = append(transitions, dataset.Rows[i].A)
		}
	}
	return transitions
}
