package mixture

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/spectra"
)

// ErrNoPeaks signals that a sample peak list was empty after parsing. It is
// an expected condition for callers to check, not a failure of the engine.
var ErrNoPeaks = errors.New("no peaks provided")

// Quick-comparator defaults. The tolerances are an independent
// configuration from the mixture engine's and need not agree with it.
const (
	DefaultQuickToleranceH = 0.06
	DefaultQuickToleranceC = 0.8

	// Residual methanol reference shifts used to calibrate the sample.
	DefaultMethanolRefH = 3.31
	DefaultMethanolRefC = 49.1

	// quickPartialFloor is the minimum hit ratio for a compound to be
	// reported at all; exactly 0.5 is in.
	quickPartialFloor = 0.5
)

// ReferencePeak is one row of the flat HSQC reference table the quick
// comparator works from: a compound id plus one shift pair.
type ReferencePeak struct {
	CompoundID string
	Axis1      float64
	Axis2      float64
}

// QuickOptions parameterizes a quick comparison. Zero fields fall back to
// the package defaults.
type QuickOptions struct {
	ToleranceH float64
	ToleranceC float64
	RefAxis1   float64
	RefAxis2   float64
}

func (o QuickOptions) withDefaults() QuickOptions {
	if o.ToleranceH == 0 {
		o.ToleranceH = DefaultQuickToleranceH
	}
	if o.ToleranceC == 0 {
		o.ToleranceC = DefaultQuickToleranceC
	}
	if o.RefAxis1 == 0 {
		o.RefAxis1 = DefaultMethanolRefH
	}
	if o.RefAxis2 == 0 {
		o.RefAxis2 = DefaultMethanolRefC
	}
	return o
}

// PartialMatch reports a compound with at least half but not all of its
// reference peaks found in the sample.
type PartialMatch struct {
	CompoundID string
	Matched    int
	Total      int
	Ratio      string
	Percent    string
}

// QuickResult is the outcome of a quick comparison: compound ids with every
// reference peak present, partial matches at >= 50%, and the calibration
// offset that was applied to the sample.
type QuickResult struct {
	Fully   []string
	Partial []PartialMatch
	Offset  spectra.Offset
}

// QuickCompare is the lightweight HSQC-only workflow: calibrate the pasted
// sample against a fixed reference signal, then for each compound count how
// many of its reference peaks have ANY calibrated sample peak within
// tolerance. This is an existence check per reference peak, not the
// one-to-one consumption the mixture engine performs.
//
// Compounds are reported fully matched when every reference peak hits, and
// partially matched when at least half do. Anything under half is excluded.
func QuickCompare(sampleText string, opts QuickOptions, refs []ReferencePeak) (*QuickResult, error) {
	opts = opts.withDefaults()
	if opts.ToleranceH <= 0 || opts.ToleranceC <= 0 {
		return nil, fmt.Errorf("quick compare: tolerances must be positive, got (%v, %v)", opts.ToleranceH, opts.ToleranceC)
	}

	sample := spectra.ParseText(sampleText, spectra.HSQC)
	if sample.Empty() {
		return nil, ErrNoPeaks
	}

	calibrated, offset := spectra.Calibrate(sample, opts.RefAxis1, opts.RefAxis2)

	// Group the flat reference table by compound id, reported in sorted
	// id order for deterministic output.
	groups := make(map[string][]ReferencePeak)
	ids := make([]string, 0)
	for _, ref := range refs {
		if _, seen := groups[ref.CompoundID]; !seen {
			ids = append(ids, ref.CompoundID)
		}
		groups[ref.CompoundID] = append(groups[ref.CompoundID], ref)
	}
	sort.Strings(ids)

	result := &QuickResult{Offset: offset}
	for _, id := range ids {
		group := groups[id]
		hits := 0
		for _, ref := range group {
			if anySampleWithin(calibrated.Peaks, ref, opts.ToleranceH, opts.ToleranceC) {
				hits++
			}
		}

		total := len(group)
		switch {
		case hits == total:
			result.Fully = append(result.Fully, id)
		case float64(hits)/float64(total) >= quickPartialFloor:
			result.Partial = append(result.Partial, PartialMatch{
				CompoundID: id,
				Matched:    hits,
				Total:      total,
				Ratio:      fmt.Sprintf("%d/%d", hits, total),
				Percent:    fmt.Sprintf("%.1f%%", float64(hits)/float64(total)*100),
			})
		}
	}
	return result, nil
}

func anySampleWithin(sample []spectra.Peak, ref ReferencePeak, tolH, tolC float64) bool {
	for _, sp := range sample {
		if math.Abs(ref.Axis1-sp.Axis1) <= tolH && math.Abs(ref.Axis2-sp.Axis2) <= tolC {
			return true
		}
	}
	return false
}
