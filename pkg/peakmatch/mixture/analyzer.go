package mixture

import (
	"fmt"
	"sort"

	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/spectra"
)

// Sample is the experimental side of an analysis: the peak lists as parsed
// from user input plus the calibration offset per kind. Matching runs on
// the calibrated shifts; reported peaks keep their original values.
type Sample struct {
	Sets    map[spectra.SpectrumType]spectra.PeakSet
	Offsets map[spectra.SpectrumType]spectra.Offset
}

// Empty reports whether the sample has no peaks of any kind.
func (s Sample) Empty() bool {
	for _, ps := range s.Sets {
		if !ps.Empty() {
			return false
		}
	}
	return true
}

// calibrated returns the per-kind peak lists with offsets applied.
func (s Sample) calibrated() map[spectra.SpectrumType]spectra.PeakSet {
	out := make(map[spectra.SpectrumType]spectra.PeakSet, len(s.Sets))
	for st, ps := range s.Sets {
		out[st] = ps.Shift(s.Offsets[st])
	}
	return out
}

// Unmatched holds, per spectrum kind, the sample peaks never claimed by any
// accepted compound. Peaks carry their original (uncalibrated) shifts.
type Unmatched map[spectra.SpectrumType][]spectra.Peak

// Analyzer screens a whole compound database against one sample.
type Analyzer struct {
	Scorer    Scorer
	Threshold float64
}

// NewAnalyzer returns an analyzer using the given strategy (nil means
// greedy) and the default acceptance threshold.
func NewAnalyzer(strategy Strategy) Analyzer {
	return Analyzer{Scorer: Scorer{Strategy: strategy}, Threshold: DefaultScoreThreshold}
}

// Analyze scores every compound, keeps those with aggregate score >= the
// threshold (strict >=: a compound at exactly the threshold is in), sorts
// accepted results by descending score with stable ties, and collects the
// sample peaks never consumed by an accepted compound.
//
// Only accepted compounds mark sample peaks as matched: a below-threshold
// compound that grazes a peak does not explain it away. No compound passing
// the threshold is an empty result, not an error; the unmatched set is then
// the full sample.
func (a Analyzer) Analyze(sample Sample, compounds []CompoundPeaks, tolH, tolC float64) ([]MatchResult, Unmatched, error) {
	calibrated := sample.calibrated()

	consumed := make(map[spectra.SpectrumType]map[int]bool, len(spectra.Types))
	for _, st := range spectra.Types {
		consumed[st] = make(map[int]bool)
	}

	var accepted []MatchResult
	for _, compound := range compounds {
		result, err := a.Scorer.Score(calibrated, compound, tolH, tolC)
		if err != nil {
			return nil, nil, fmt.Errorf("analyze compound %q: %w", compound.Name, err)
		}
		if result.Score < a.Threshold {
			continue
		}
		accepted = append(accepted, result)
		for st, ts := range result.ByType {
			for _, pair := range ts.Pairs {
				consumed[st][pair.SampleIndex] = true
			}
		}
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].Score > accepted[j].Score
	})

	unmatched := make(Unmatched, len(spectra.Types))
	for _, st := range spectra.Types {
		original := sample.Sets[st]
		leftovers := make([]spectra.Peak, 0, original.Len())
		for i, p := range original.Peaks {
			if !consumed[st][i] {
				leftovers = append(leftovers, p)
			}
		}
		unmatched[st] = leftovers
	}

	return accepted, unmatched, nil
}
