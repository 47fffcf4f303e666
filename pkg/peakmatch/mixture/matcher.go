// Package mixture implements the peak-correspondence engine: tolerance-based
// matching of sample peaks against reference compounds, per-compound scoring,
// whole-database mixture analysis and the lightweight quick comparator.
package mixture

import (
	"fmt"
	"math"

	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/spectra"
)

// Tolerance is the maximum absolute shift difference, per axis, for two
// peaks to count as the same signal. Symmetric marks interchangeable axes
// (COSY), where a sample peak matches in either orientation.
type Tolerance struct {
	Axis1     float64
	Axis2     float64
	Symmetric bool
}

// Validate rejects tolerances that cannot describe a matching window.
// A non-positive tolerance is a caller bug, not a data-quality issue.
func (t Tolerance) Validate() error {
	if t.Axis1 <= 0 || math.IsNaN(t.Axis1) {
		return fmt.Errorf("axis1 tolerance must be positive, got %v", t.Axis1)
	}
	if t.Axis2 <= 0 || math.IsNaN(t.Axis2) {
		return fmt.Errorf("axis2 tolerance must be positive, got %v", t.Axis2)
	}
	return nil
}

// within reports whether sample lies inside the tolerance window around ref,
// trying both axis orientations when the tolerance is symmetric.
func (t Tolerance) within(ref, sample spectra.Peak) bool {
	if math.Abs(ref.Axis1-sample.Axis1) <= t.Axis1 && math.Abs(ref.Axis2-sample.Axis2) <= t.Axis2 {
		return true
	}
	if t.Symmetric {
		return math.Abs(ref.Axis1-sample.Axis2) <= t.Axis1 && math.Abs(ref.Axis2-sample.Axis1) <= t.Axis2
	}
	return false
}

// Pair records one established correspondence. SampleIndex is the position
// of the sample peak in its original set, so callers can track which sample
// peaks were ever claimed.
type Pair struct {
	SampleIndex int
	Sample      spectra.Peak
	Reference   spectra.Peak
}

// Strategy finds a sample-to-reference peak correspondence under a
// tolerance. Implementations must treat both inputs as read-only and
// consume each sample peak at most once.
type Strategy interface {
	Match(sample, reference []spectra.Peak, tol Tolerance) []Pair
}

// Greedy is the default matching strategy: for each reference peak in
// stored order it claims the first unconsumed in-tolerance sample peak.
// Each reference peak yields at most one pair and each sample peak is
// consumed at most once. The assignment is order-dependent and not
// globally optimal; a sample peak near two reference peaks goes to
// whichever reference peak is visited first.
type Greedy struct{}

// Match implements Strategy.
func (Greedy) Match(sample, reference []spectra.Peak, tol Tolerance) []Pair {
	if len(sample) == 0 || len(reference) == 0 {
		return nil
	}

	consumed := make([]bool, len(sample))
	pairs := make([]Pair, 0, len(reference))

	for _, ref := range reference {
		for i, sp := range sample {
			if consumed[i] {
				continue
			}
			if tol.within(ref, sp) {
				pairs = append(pairs, Pair{SampleIndex: i, Sample: sp, Reference: ref})
				consumed[i] = true
				break
			}
		}
	}
	return pairs
}
