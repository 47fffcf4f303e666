package peakmatch

import (
	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/mixture"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/spectra"
)

// CalibrationRef is the known shift pair of the reference signal (residual
// solvent, typically) the sample's most intense HSQC peak is locked onto.
type CalibrationRef struct {
	Axis1 float64 `json:"axis1"`
	Axis2 float64 `json:"axis2"`
}

// AnalysisRequest carries one mixture analysis: the pasted peak lists,
// tolerance overrides (zero means engine default), and an optional
// calibration reference. Without a reference the sample is matched on its
// raw shifts.
type AnalysisRequest struct {
	HSQCPeaks   string
	COSYPeaks   string
	HMBCPeaks   string
	ToleranceH  float64
	ToleranceC  float64
	Calibration *CalibrationRef
}

// AnalysisResult is the full outcome of a mixture analysis: accepted
// compounds ranked by score, the sample peaks no accepted compound
// explains, and the calibration offsets that were applied per kind.
type AnalysisResult struct {
	Detected  []mixture.MatchResult
	Unmatched mixture.Unmatched
	Offsets   map[spectra.SpectrumType]spectra.Offset
}

// QuickRequest carries one quick comparison: pasted HSQC peaks plus
// optional tolerance overrides.
type QuickRequest struct {
	Peaks      string
	ToleranceH float64
	ToleranceC float64
}

// Stats summarizes the reference database for health/metrics reporting.
type Stats struct {
	Compounds int64
	Peaks     int64
}
