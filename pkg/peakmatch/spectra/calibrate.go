package spectra

// Offset is the additive calibration correction applied to both shift axes
// of a sample peak list.
type Offset struct {
	Axis1 float64 `json:"axis1"`
	Axis2 float64 `json:"axis2"`
}

// IsZero reports whether the offset leaves peaks unchanged.
func (o Offset) IsZero() bool { return o.Axis1 == 0 && o.Axis2 == 0 }

// Anchor returns the most intense peak of the set, the signal calibration
// locks onto (a known reference such as residual solvent). Ties break to
// the first occurrence. ok is false for an empty set.
func (ps PeakSet) Anchor() (anchor Peak, ok bool) {
	if len(ps.Peaks) == 0 {
		return Peak{}, false
	}
	anchor = ps.Peaks[0]
	for _, p := range ps.Peaks[1:] {
		if p.Intensity > anchor.Intensity {
			anchor = p
		}
	}
	return anchor, true
}

// Shift returns a copy of the set with the offset added to every peak's
// axes. Intensities are untouched.
func (ps PeakSet) Shift(off Offset) PeakSet {
	out := ps.Clone()
	if off.IsZero() {
		return out
	}
	for i := range out.Peaks {
		out.Peaks[i].Axis1 += off.Axis1
		out.Peaks[i].Axis2 += off.Axis2
	}
	return out
}

// Calibrate aligns a sample peak set onto the reference shift scale: the
// max-intensity peak is assumed to be the reference signal at
// (refAxis1, refAxis2) and the whole set is shifted by the difference.
// The input set is never mutated. An empty set cannot be calibrated and
// passes through with a zero offset; this is an expected condition, not
// an error.
func Calibrate(ps PeakSet, refAxis1, refAxis2 float64) (PeakSet, Offset) {
	anchor, ok := ps.Anchor()
	if !ok {
		return ps.Clone(), Offset{}
	}
	off := Offset{
		Axis1: refAxis1 - anchor.Axis1,
		Axis2: refAxis2 - anchor.Axis2,
	}
	return ps.Shift(off), off
}
