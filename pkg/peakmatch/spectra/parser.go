package spectra

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tanmaydutta/NMRPeakMatch/pkg/logger"
)

// headerLine matches the optional column header users paste along with their
// peak table, e.g. "1H 13C Intensity" or "H1 H2 Intensity".
var headerLine = regexp.MustCompile(`(?i)^\s*(?:1H|H1)\s+(?:13C|H2)\s+Intensity\s*$`)

// ParseText parses a pasted multi-line peak list into a PeakSet.
//
// Each non-blank line is split on whitespace. The first two tokens are shift
// values: either a plain float or a range "A-B", which collapses to its
// midpoint. An optional numeric third token is the intensity (default 1.0).
// Pasted data is noisy, so lines that do not yield two shifts are dropped
// with a debug log rather than failing the parse. Empty input yields an
// empty set, never an error.
func ParseText(text string, st SpectrumType) PeakSet {
	ps := PeakSet{Type: st}
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > 0 && headerLine.MatchString(lines[0]) {
		lines = lines[1:]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			logger.GetLogger().Debugf("dropping %s peak line %q: want at least two shift values", st, line)
			continue
		}

		axis1, ok1 := parseShift(fields[0])
		axis2, ok2 := parseShift(fields[1])
		if !ok1 || !ok2 {
			logger.GetLogger().Debugf("dropping %s peak line %q: unparseable shift value", st, line)
			continue
		}

		intensity := 1.0
		if len(fields) >= 3 {
			if v, err := strconv.ParseFloat(fields[2], 64); err == nil {
				intensity = v
			}
		}

		ps.Peaks = append(ps.Peaks, Peak{Axis1: axis1, Axis2: axis2, Intensity: intensity})
	}
	return ps
}

// parseShift parses a shift token: a plain float, or a range "A-B" reduced
// to its midpoint. A malformed range falls back to plain-float parsing of
// the whole token (which also covers negative shifts like "-0.12").
func parseShift(tok string) (float64, bool) {
	if strings.Contains(tok, "-") {
		parts := strings.Split(tok, "-")
		if len(parts) == 2 {
			lo, errLo := strconv.ParseFloat(parts[0], 64)
			hi, errHi := strconv.ParseFloat(parts[1], 64)
			if errLo == nil && errHi == nil {
				return (lo + hi) / 2, true
			}
		}
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FromPairs builds a PeakSet from [axis1, axis2] or [axis1, axis2, intensity]
// rows, the structured form compound peaks take after storage. Rows with
// fewer than two values are skipped.
func FromPairs(rows [][]float64, st SpectrumType) PeakSet {
	ps := PeakSet{Type: st}
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		p := Peak{Axis1: row[0], Axis2: row[1], Intensity: 1.0}
		if len(row) >= 3 {
			p.Intensity = row[2]
		}
		ps.Peaks = append(ps.Peaks, p)
	}
	return ps
}
