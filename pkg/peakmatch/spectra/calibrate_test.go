package spectra

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const eps = 1e-9

func almostEqual(a, b float64) bool { return math.Abs(a-b) < eps }

func TestCalibrate(t *testing.T) {
	ps := PeakSet{Type: HSQC, Peaks: []Peak{{Axis1: 3.35, Axis2: 49.7, Intensity: 1.0}}}

	shifted, off := Calibrate(ps, 3.31, 49.1)

	if !almostEqual(off.Axis1, -0.04) || !almostEqual(off.Axis2, -0.6) {
		t.Fatalf("offset = (%v, %v), want (-0.04, -0.6)", off.Axis1, off.Axis2)
	}
	if !almostEqual(shifted.Peaks[0].Axis1, 3.31) || !almostEqual(shifted.Peaks[0].Axis2, 49.1) {
		t.Errorf("calibrated peak = (%v, %v), want (3.31, 49.1)", shifted.Peaks[0].Axis1, shifted.Peaks[0].Axis2)
	}

	// The input set must stay untouched.
	if !almostEqual(ps.Peaks[0].Axis1, 3.35) {
		t.Error("Calibrate mutated its input")
	}
}

func TestCalibrateAnchorsOnMaxIntensity(t *testing.T) {
	ps := PeakSet{Type: HSQC, Peaks: []Peak{
		{Axis1: 7.20, Axis2: 128.1, Intensity: 0.5},
		{Axis1: 3.35, Axis2: 49.7, Intensity: 2.0},
		{Axis1: 1.10, Axis2: 20.0, Intensity: 1.0},
	}}

	_, off := Calibrate(ps, 3.31, 49.1)
	if !almostEqual(off.Axis1, -0.04) || !almostEqual(off.Axis2, -0.6) {
		t.Errorf("offset = (%v, %v): calibration should anchor on the most intense peak", off.Axis1, off.Axis2)
	}
}

func TestAnchorTieBreaksToFirst(t *testing.T) {
	ps := PeakSet{Type: HSQC, Peaks: []Peak{
		{Axis1: 1.0, Axis2: 10.0, Intensity: 1.0},
		{Axis1: 2.0, Axis2: 20.0, Intensity: 1.0},
	}}
	anchor, ok := ps.Anchor()
	if !ok {
		t.Fatal("Anchor returned !ok for non-empty set")
	}
	if anchor.Axis1 != 1.0 {
		t.Errorf("anchor = %+v, want first peak on intensity tie", anchor)
	}
}

func TestCalibrateEmptySet(t *testing.T) {
	shifted, off := Calibrate(PeakSet{Type: HSQC}, 3.31, 49.1)
	if !off.IsZero() {
		t.Errorf("offset = %+v, want zero for empty set", off)
	}
	if !shifted.Empty() {
		t.Errorf("expected empty calibrated set, got %d peaks", shifted.Len())
	}
}

func TestShiftZeroOffsetIsCopy(t *testing.T) {
	ps := PeakSet{Type: COSY, Peaks: []Peak{{Axis1: 4.1, Axis2: 2.2, Intensity: 1.0}}}
	out := ps.Shift(Offset{})
	if diff := cmp.Diff(ps, out); diff != "" {
		t.Errorf("zero shift changed peaks (-want +got):\n%s", diff)
	}
	out.Peaks[0].Axis1 = 99
	if ps.Peaks[0].Axis1 == 99 {
		t.Error("Shift returned a set aliasing the input")
	}
}
