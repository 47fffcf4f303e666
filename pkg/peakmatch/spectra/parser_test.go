package spectra

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseText(t *testing.T) {
	tests := []struct {
		name string
		text string
		st   SpectrumType
		want []Peak
	}{
		{
			name: "plain peaks with and without intensity",
			text: "3.35 49.7\n7.20 128.1 0.5",
			st:   HSQC,
			want: []Peak{
				{Axis1: 3.35, Axis2: 49.7, Intensity: 1.0},
				{Axis1: 7.20, Axis2: 128.1, Intensity: 0.5},
			},
		},
		{
			name: "range collapses to midpoint",
			text: "23.4-26.0 5.0",
			st:   HSQC,
			want: []Peak{{Axis1: 24.7, Axis2: 5.0, Intensity: 1.0}},
		},
		{
			name: "malformed line dropped, rest kept",
			text: "3.35 49.7\nmalformed line here\n7.20 128.1 0.5",
			st:   HSQC,
			want: []Peak{
				{Axis1: 3.35, Axis2: 49.7, Intensity: 1.0},
				{Axis1: 7.20, Axis2: 128.1, Intensity: 0.5},
			},
		},
		{
			name: "header line skipped",
			text: "1H 13C Intensity\n3.35 49.7 1.0",
			st:   HSQC,
			want: []Peak{{Axis1: 3.35, Axis2: 49.7, Intensity: 1.0}},
		},
		{
			name: "cosy header variant skipped",
			text: "H1 H2 Intensity\n4.1 2.2",
			st:   COSY,
			want: []Peak{{Axis1: 4.1, Axis2: 2.2, Intensity: 1.0}},
		},
		{
			name: "blank lines ignored",
			text: "\n3.35 49.7\n\n",
			st:   HSQC,
			want: []Peak{{Axis1: 3.35, Axis2: 49.7, Intensity: 1.0}},
		},
		{
			name: "single token dropped",
			text: "3.35",
			st:   HSQC,
			want: nil,
		},
		{
			name: "non-numeric intensity falls back to default",
			text: "3.35 49.7 strong",
			st:   HSQC,
			want: []Peak{{Axis1: 3.35, Axis2: 49.7, Intensity: 1.0}},
		},
		{
			name: "malformed range A-B-C drops line",
			text: "1.0-2.0-3.0 49.7",
			st:   HSQC,
			want: nil,
		},
		{
			name: "negative shift parses via fallback",
			text: "-0.12 29.5",
			st:   HSQC,
			want: []Peak{{Axis1: -0.12, Axis2: 29.5, Intensity: 1.0}},
		},
		{
			name: "empty input yields empty set",
			text: "",
			st:   HSQC,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseText(tt.text, tt.st)
			if got.Type != tt.st {
				t.Errorf("ParseText type = %q, want %q", got.Type, tt.st)
			}
			if diff := cmp.Diff(tt.want, got.Peaks); diff != "" {
				t.Errorf("ParseText peaks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseTextIdempotent(t *testing.T) {
	ps := ParseText("3.35 49.7\n23.4-26.0 5.0 2.5\n7.20 128.1 0.5", HSQC)
	again := ParseText(ps.Text(), HSQC)
	if diff := cmp.Diff(ps, again); diff != "" {
		t.Errorf("reparsing canonical text changed the set (-first +second):\n%s", diff)
	}
}

func TestFromPairs(t *testing.T) {
	rows := [][]float64{
		{3.35, 49.7},
		{7.20, 128.1, 0.5},
		{1.0}, // short row skipped
	}
	got := FromPairs(rows, HMBC)
	want := []Peak{
		{Axis1: 3.35, Axis2: 49.7, Intensity: 1.0},
		{Axis1: 7.20, Axis2: 128.1, Intensity: 0.5},
	}
	if diff := cmp.Diff(want, got.Peaks); diff != "" {
		t.Errorf("FromPairs mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSpectrumType(t *testing.T) {
	if _, err := ParseSpectrumType("HSQC"); err != nil {
		t.Errorf("expected HSQC to normalize, got %v", err)
	}
	if _, err := ParseSpectrumType("tocsy"); err == nil {
		t.Error("expected error for unknown spectrum type")
	}
}
