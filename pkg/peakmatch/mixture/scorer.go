package mixture

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/spectra"
)

// Default tolerances of the mixture engine, in ppm. Callers may override
// them per request.
const (
	DefaultToleranceH = 0.05
	DefaultToleranceC = 0.50

	// DefaultScoreThreshold is deliberately low: partial spectral overlap
	// between unrelated compounds is common, so the analyzer favors recall
	// and leaves the final judgement to whoever reads the scores.
	DefaultScoreThreshold = 0.10
)

// CompoundPeaks is the reference-side input to scoring: one compound's
// identity plus its peak list per spectrum kind. Kinds the compound has no
// data for simply have an empty set.
type CompoundPeaks struct {
	ID   string
	Name string
	Sets map[spectra.SpectrumType]spectra.PeakSet
}

// TypeScore is the per-spectrum-kind outcome for one compound. Fraction is
// nil when the compound has no peaks of this kind, meaning "not evaluated";
// that is distinct from a present 0.0, which means evaluated with nothing
// matched.
type TypeScore struct {
	Matched  int
	Total    int
	Fraction *float64
	Pairs    []Pair
}

// Ratio renders the matched/total pair as "m/t" for display.
func (ts TypeScore) Ratio() string { return fmt.Sprintf("%d/%d", ts.Matched, ts.Total) }

// MatchResult is the compound-level outcome: the aggregate score in [0,1]
// and the per-kind breakdown.
type MatchResult struct {
	CompoundID   string
	CompoundName string
	Score        float64
	ByType       map[spectra.SpectrumType]TypeScore
}

// Scorer runs the correspondence strategy per spectrum kind and folds the
// per-kind match fractions into one aggregate score.
type Scorer struct {
	Strategy Strategy
}

// toleranceFor maps the (H, C) tolerance pair onto a kind: COSY windows are
// H-H and symmetric, HSQC/HMBC are H-C.
func toleranceFor(st spectra.SpectrumType, tolH, tolC float64) Tolerance {
	if st == spectra.COSY {
		return Tolerance{Axis1: tolH, Axis2: tolH, Symmetric: true}
	}
	return Tolerance{Axis1: tolH, Axis2: tolC}
}

// Score matches the sample against one compound. The aggregate is the mean
// of the match fractions over the kinds the compound has peaks for; a
// compound with no peaks at all scores a defined 0.0 (it cannot be
// detected). Neither input is mutated.
//
// A non-positive tolerance or a compound without identity is a contract
// violation and fails fast.
func (s Scorer) Score(sample map[spectra.SpectrumType]spectra.PeakSet, compound CompoundPeaks, tolH, tolC float64) (MatchResult, error) {
	if compound.ID == "" {
		return MatchResult{}, fmt.Errorf("score: compound has no id")
	}
	strategy := s.Strategy
	if strategy == nil {
		strategy = Greedy{}
	}

	result := MatchResult{
		CompoundID:   compound.ID,
		CompoundName: compound.Name,
		ByType:       make(map[spectra.SpectrumType]TypeScore, len(spectra.Types)),
	}

	fractions := make([]float64, 0, len(spectra.Types))
	for _, st := range spectra.Types {
		tol := toleranceFor(st, tolH, tolC)
		if err := tol.Validate(); err != nil {
			return MatchResult{}, fmt.Errorf("score %s: %w", st, err)
		}

		ref := compound.Sets[st]
		if ref.Empty() {
			result.ByType[st] = TypeScore{}
			continue
		}

		pairs := strategy.Match(sample[st].Peaks, ref.Peaks, tol)
		fraction := float64(len(pairs)) / float64(ref.Len())
		fractions = append(fractions, fraction)
		result.ByType[st] = TypeScore{
			Matched:  len(pairs),
			Total:    ref.Len(),
			Fraction: &fraction,
			Pairs:    pairs,
		}
	}

	if len(fractions) > 0 {
		result.Score = stat.Mean(fractions, nil)
	}
	return result, nil
}
