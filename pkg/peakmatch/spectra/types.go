// Package spectra holds the peak-list value types shared across the matcher:
// parsed 2D NMR peaks, spectrum kinds, and chemical-shift calibration.
package spectra

import (
	"fmt"
	"strconv"
	"strings"
)

// SpectrumType identifies the 2D experiment a peak list belongs to and
// therefore the meaning of its two shift axes.
type SpectrumType string

const (
	// HSQC correlates directly bonded 1H-13C pairs: axes are (1H, 13C).
	HSQC SpectrumType = "hsqc"
	// COSY correlates coupled 1H-1H pairs: axes are (1H, 1H) and a peak
	// at (a,b) is physically equivalent to (b,a).
	COSY SpectrumType = "cosy"
	// HMBC correlates multi-bond 1H-13C pairs: axes are (1H, 13C).
	HMBC SpectrumType = "hmbc"
)

// Types lists all spectrum kinds in canonical order.
var Types = []SpectrumType{HSQC, COSY, HMBC}

// Valid reports whether st is a known spectrum kind.
func (st SpectrumType) Valid() bool {
	switch st {
	case HSQC, COSY, HMBC:
		return true
	}
	return false
}

// Symmetric reports whether the two axes of this kind are interchangeable.
func (st SpectrumType) Symmetric() bool { return st == COSY }

// AxisLabels returns the human-readable axis names for this kind.
func (st SpectrumType) AxisLabels() (string, string) {
	if st == COSY {
		return "1H", "1H"
	}
	return "1H", "13C"
}

// ParseSpectrumType normalizes a user-supplied kind string.
func ParseSpectrumType(s string) (SpectrumType, error) {
	st := SpectrumType(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown spectrum type %q (want hsqc, cosy or hmbc)", s)
	}
	return st, nil
}

// Peak is a single cross peak: two chemical shifts in ppm plus an intensity.
// Intensity defaults to 1.0 when the source line omits it.
type Peak struct {
	Axis1     float64 `json:"axis1"`
	Axis2     float64 `json:"axis2"`
	Intensity float64 `json:"intensity"`
}

// PeakSet is an ordered peak list scoped to one spectrum kind. Order follows
// the source line order; it carries no meaning downstream but keeps parsing
// and matching deterministic.
type PeakSet struct {
	Type  SpectrumType `json:"type"`
	Peaks []Peak       `json:"peaks"`
}

// Empty reports whether the set holds no peaks.
func (ps PeakSet) Empty() bool { return len(ps.Peaks) == 0 }

// Len returns the number of peaks in the set.
func (ps PeakSet) Len() int { return len(ps.Peaks) }

// Clone returns a deep copy of the set.
func (ps PeakSet) Clone() PeakSet {
	out := PeakSet{Type: ps.Type}
	if ps.Peaks != nil {
		out.Peaks = make([]Peak, len(ps.Peaks))
		copy(out.Peaks, ps.Peaks)
	}
	return out
}

// Pairs flattens the set into [axis1, axis2, intensity] rows, the storage
// and wire representation of parsed peaks.
func (ps PeakSet) Pairs() [][]float64 {
	rows := make([][]float64, 0, len(ps.Peaks))
	for _, p := range ps.Peaks {
		rows = append(rows, []float64{p.Axis1, p.Axis2, p.Intensity})
	}
	return rows
}

// Text renders the set back to the canonical line format understood by
// ParseText, one "axis1 axis2 intensity" line per peak.
func (ps PeakSet) Text() string {
	var b strings.Builder
	for _, p := range ps.Peaks {
		b.WriteString(strconv.FormatFloat(p.Axis1, 'f', -1, 64))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(p.Axis2, 'f', -1, 64))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(p.Intensity, 'f', -1, 64))
		b.WriteByte('\n')
	}
	return b.String()
}
