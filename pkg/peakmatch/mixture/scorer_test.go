package mixture

import (
	"math"
	"testing"

	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/spectra"
)

func hsqcSet(peaks ...spectra.Peak) spectra.PeakSet {
	return spectra.PeakSet{Type: spectra.HSQC, Peaks: peaks}
}

func sampleOf(t *testing.T, hsqc, cosy, hmbc spectra.PeakSet) map[spectra.SpectrumType]spectra.PeakSet {
	t.Helper()
	return map[spectra.SpectrumType]spectra.PeakSet{
		spectra.HSQC: hsqc,
		spectra.COSY: cosy,
		spectra.HMBC: hmbc,
	}
}

func TestScoreFullyMatchedHSQCOnly(t *testing.T) {
	sample := sampleOf(t,
		hsqcSet(
			spectra.Peak{Axis1: 3.31, Axis2: 49.1, Intensity: 1.0},
			spectra.Peak{Axis1: 7.20, Axis2: 128.1, Intensity: 0.5},
		),
		spectra.PeakSet{Type: spectra.COSY},
		spectra.PeakSet{Type: spectra.HMBC},
	)
	compound := CompoundPeaks{
		ID:   "c1",
		Name: "methanol-like",
		Sets: map[spectra.SpectrumType]spectra.PeakSet{
			spectra.HSQC: hsqcSet(
				spectra.Peak{Axis1: 3.30, Axis2: 49.0},
				spectra.Peak{Axis1: 7.21, Axis2: 128.3},
			),
		},
	}

	result, err := Scorer{}.Score(sample, compound, DefaultToleranceH, DefaultToleranceC)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	hsqc := result.ByType[spectra.HSQC]
	if hsqc.Fraction == nil || *hsqc.Fraction != 1.0 {
		t.Fatalf("hsqc fraction = %v, want 1.0", hsqc.Fraction)
	}
	if hsqc.Matched != 2 || hsqc.Total != 2 {
		t.Errorf("hsqc matched/total = %d/%d, want 2/2", hsqc.Matched, hsqc.Total)
	}

	// COSY and HMBC carry no compound peaks: not evaluated, nil fraction,
	// and they must not drag the aggregate down.
	for _, st := range []spectra.SpectrumType{spectra.COSY, spectra.HMBC} {
		if ts := result.ByType[st]; ts.Fraction != nil {
			t.Errorf("%s fraction = %v, want nil for a kind the compound has no peaks of", st, *ts.Fraction)
		}
	}
	if result.Score != 1.0 {
		t.Errorf("aggregate score = %v, want 1.0 (mean over the single evaluated kind)", result.Score)
	}
}

func TestScoreAveragesAcrossKinds(t *testing.T) {
	sample := sampleOf(t,
		hsqcSet(spectra.Peak{Axis1: 3.31, Axis2: 49.1}),
		spectra.PeakSet{Type: spectra.COSY, Peaks: []spectra.Peak{{Axis1: 9.0, Axis2: 9.5}}},
		spectra.PeakSet{Type: spectra.HMBC},
	)
	compound := CompoundPeaks{
		ID:   "c1",
		Name: "half-and-half",
		Sets: map[spectra.SpectrumType]spectra.PeakSet{
			spectra.HSQC: hsqcSet(spectra.Peak{Axis1: 3.30, Axis2: 49.0}),
			// Neither COSY peak is near the sample's.
			spectra.COSY: {Type: spectra.COSY, Peaks: []spectra.Peak{
				{Axis1: 1.0, Axis2: 2.0},
				{Axis1: 3.0, Axis2: 4.0},
			}},
		},
	}

	result, err := Scorer{}.Score(sample, compound, DefaultToleranceH, DefaultToleranceC)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	// HSQC 1/1, COSY 0/2 -> mean(1.0, 0.0) = 0.5.
	if math.Abs(result.Score-0.5) > 1e-12 {
		t.Errorf("aggregate score = %v, want 0.5", result.Score)
	}
	cosy := result.ByType[spectra.COSY]
	if cosy.Fraction == nil || *cosy.Fraction != 0.0 {
		t.Errorf("cosy fraction = %v, want explicit 0.0 (evaluated, nothing matched)", cosy.Fraction)
	}
}

func TestScoreCompoundWithoutPeaks(t *testing.T) {
	sample := sampleOf(t, hsqcSet(spectra.Peak{Axis1: 3.31, Axis2: 49.1}),
		spectra.PeakSet{Type: spectra.COSY}, spectra.PeakSet{Type: spectra.HMBC})
	compound := CompoundPeaks{ID: "c1", Name: "empty", Sets: map[spectra.SpectrumType]spectra.PeakSet{}}

	result, err := Scorer{}.Score(sample, compound, DefaultToleranceH, DefaultToleranceC)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if result.Score != 0.0 {
		t.Errorf("score = %v, want a defined 0.0 for a compound with no peaks anywhere", result.Score)
	}
}

func TestScoreContractViolations(t *testing.T) {
	sample := sampleOf(t, hsqcSet(), spectra.PeakSet{Type: spectra.COSY}, spectra.PeakSet{Type: spectra.HMBC})

	if _, err := (Scorer{}).Score(sample, CompoundPeaks{Name: "anon"}, 0.05, 0.5); err == nil {
		t.Error("expected error for compound without id")
	}

	compound := CompoundPeaks{ID: "c1", Name: "x", Sets: map[spectra.SpectrumType]spectra.PeakSet{
		spectra.HSQC: hsqcSet(spectra.Peak{Axis1: 1, Axis2: 2}),
	}}
	if _, err := (Scorer{}).Score(sample, compound, -0.05, 0.5); err == nil {
		t.Error("expected error for negative tolerance")
	}
}

func TestScoreDoesNotMutateInputs(t *testing.T) {
	samplePeak := spectra.Peak{Axis1: 3.31, Axis2: 49.1, Intensity: 1.0}
	sample := sampleOf(t, hsqcSet(samplePeak), spectra.PeakSet{Type: spectra.COSY}, spectra.PeakSet{Type: spectra.HMBC})
	compound := CompoundPeaks{ID: "c1", Name: "x", Sets: map[spectra.SpectrumType]spectra.PeakSet{
		spectra.HSQC: hsqcSet(spectra.Peak{Axis1: 3.30, Axis2: 49.0}),
	}}

	if _, err := (Scorer{}).Score(sample, compound, DefaultToleranceH, DefaultToleranceC); err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if sample[spectra.HSQC].Peaks[0] != samplePeak {
		t.Error("Score mutated the sample peak set")
	}
}
