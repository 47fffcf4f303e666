package mixture

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// quickRefs builds a reference group of n peaks for one compound, the first
// `near` of which sit exactly at the calibrated sample positions.
func quickRefs(id string, shifts ...[2]float64) []ReferencePeak {
	refs := make([]ReferencePeak, 0, len(shifts))
	for _, s := range shifts {
		refs = append(refs, ReferencePeak{CompoundID: id, Axis1: s[0], Axis2: s[1]})
	}
	return refs
}

func TestQuickCompareFullyMatched(t *testing.T) {
	// The sole, most intense sample peak is the methanol reference: after
	// calibration it sits exactly at (3.31, 49.1).
	sampleText := "3.35 49.7 1.0\n7.24 128.7 0.5"
	refs := quickRefs("compound-a", [2]float64{3.31, 49.1}, [2]float64{7.20, 128.1})

	result, err := QuickCompare(sampleText, QuickOptions{}, refs)
	if err != nil {
		t.Fatalf("QuickCompare failed: %v", err)
	}
	if len(result.Fully) != 1 || result.Fully[0] != "compound-a" {
		t.Fatalf("fully = %v, want [compound-a]", result.Fully)
	}
	if len(result.Partial) != 0 {
		t.Errorf("partial = %v, want empty", result.Partial)
	}
}

func TestQuickComparePartialBoundary(t *testing.T) {
	sampleText := "3.31 49.1 1.0"

	// half: 1 of 2 reference peaks hit -> exactly 0.5, included.
	half := quickRefs("half", [2]float64{3.31, 49.1}, [2]float64{9.0, 170.0})
	// under: 1 of 3 hit -> 0.33, excluded entirely.
	under := quickRefs("under",
		[2]float64{3.31, 49.1}, [2]float64{9.0, 170.0}, [2]float64{8.0, 160.0})

	result, err := QuickCompare(sampleText, QuickOptions{}, append(half, under...))
	if err != nil {
		t.Fatalf("QuickCompare failed: %v", err)
	}
	if len(result.Fully) != 0 {
		t.Errorf("fully = %v, want empty", result.Fully)
	}
	if len(result.Partial) != 1 || result.Partial[0].CompoundID != "half" {
		t.Fatalf("partial = %+v, want exactly the 50%% compound", result.Partial)
	}
	p := result.Partial[0]
	if p.Ratio != "1/2" || p.Percent != "50.0%" {
		t.Errorf("partial report = %q %q, want \"1/2\" \"50.0%%\"", p.Ratio, p.Percent)
	}
}

func TestQuickCompareExistenceNotConsumption(t *testing.T) {
	// One sample peak can satisfy several reference peaks: quick matching
	// is an existence check, unlike the engine's one-to-one consumption.
	sampleText := "3.31 49.1 1.0"
	refs := quickRefs("c", [2]float64{3.30, 49.0}, [2]float64{3.32, 49.2})

	result, err := QuickCompare(sampleText, QuickOptions{}, refs)
	if err != nil {
		t.Fatalf("QuickCompare failed: %v", err)
	}
	if len(result.Fully) != 1 {
		t.Fatalf("fully = %v: both reference peaks should hit the single sample peak", result.Fully)
	}
}

func TestQuickCompareCalibration(t *testing.T) {
	// Sample entered 0.10/1.0 ppm off the methanol reference; reference
	// peaks are on the database scale.
	sampleText := "3.41 50.1 5.0\n7.30 129.1 1.0"
	refs := quickRefs("c", [2]float64{7.20, 128.1})

	result, err := QuickCompare(sampleText, QuickOptions{}, refs)
	if err != nil {
		t.Fatalf("QuickCompare failed: %v", err)
	}
	if len(result.Fully) != 1 {
		t.Fatalf("fully = %v, want the calibrated hit", result.Fully)
	}
	if !almostEqual(result.Offset.Axis1, -0.10) || !almostEqual(result.Offset.Axis2, -1.0) {
		t.Errorf("offset = %+v, want (-0.10, -1.0)", result.Offset)
	}
}

func TestQuickCompareEmptySample(t *testing.T) {
	_, err := QuickCompare("   \n  ", QuickOptions{}, quickRefs("c", [2]float64{1, 2}))
	if !errors.Is(err, ErrNoPeaks) {
		t.Fatalf("err = %v, want ErrNoPeaks", err)
	}
}

func TestQuickCompareDeterministicOrder(t *testing.T) {
	sampleText := "3.31 49.1 1.0"
	refs := append(
		quickRefs("zeta", [2]float64{3.31, 49.1}),
		quickRefs("alpha", [2]float64{3.31, 49.1})...,
	)

	result, err := QuickCompare(sampleText, QuickOptions{}, refs)
	if err != nil {
		t.Fatalf("QuickCompare failed: %v", err)
	}
	if len(result.Fully) != 2 || result.Fully[0] != "alpha" || result.Fully[1] != "zeta" {
		t.Errorf("fully = %v, want sorted compound ids", result.Fully)
	}
}
