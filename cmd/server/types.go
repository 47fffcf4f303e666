package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/tanmaydutta/NMRPeakMatch/pkg/models"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/mixture"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/spectra"
)

// Peak text limits for request validation
const (
	// MaxPeakTextBytes bounds a single pasted peak list (~10k lines)
	MaxPeakTextBytes = 512 * 1024
)

// CompoundRequest is the request body for POST /api/compounds and
// PUT /api/compounds/{id}. Peak lists arrive as pasted text, one peak per
// line.
type CompoundRequest struct {
	Name           string `json:"name"`
	StructureImage string `json:"structure_image,omitempty"`
	HSQCPeaks      string `json:"hsqc_peaks"`
	COSYPeaks      string `json:"cosy_peaks"`
	HMBCPeaks      string `json:"hmbc_peaks"`
}

// Validate checks if the request is valid
func (r *CompoundRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	for field, text := range map[string]string{
		"hsqc_peaks": r.HSQCPeaks,
		"cosy_peaks": r.COSYPeaks,
		"hmbc_peaks": r.HMBCPeaks,
	} {
		if len(text) > MaxPeakTextBytes {
			return fmt.Errorf("%s too large: %d bytes (maximum: %d)", field, len(text), MaxPeakTextBytes)
		}
	}
	return nil
}

// ToInput converts the request into the service input type.
func (r *CompoundRequest) ToInput() models.CompoundInput {
	return models.CompoundInput{
		Name:           r.Name,
		StructureImage: r.StructureImage,
		HSQCPeaks:      r.HSQCPeaks,
		COSYPeaks:      r.COSYPeaks,
		HMBCPeaks:      r.HMBCPeaks,
	}
}

// CompoundDTO represents a compound in API responses
type CompoundDTO struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	StructureImage string         `json:"structure_image,omitempty"`
	HSQCPeaks      []spectra.Peak `json:"hsqc_peaks"`
	COSYPeaks      []spectra.Peak `json:"cosy_peaks"`
	HMBCPeaks      []spectra.Peak `json:"hmbc_peaks"`
	CreatedAt      time.Time      `json:"created_at"`
}

func toCompoundDTO(c *models.Compound) CompoundDTO {
	return CompoundDTO{
		ID:             c.ID,
		Name:           c.Name,
		StructureImage: c.StructureImage,
		HSQCPeaks:      c.HSQC.Peaks,
		COSYPeaks:      c.COSY.Peaks,
		HMBCPeaks:      c.HMBC.Peaks,
		CreatedAt:      c.CreatedAt,
	}
}

// ListCompoundsResponse is the response for GET /api/compounds
type ListCompoundsResponse struct {
	Compounds []CompoundDTO `json:"compounds"`
	Count     int           `json:"count"`
}

// AddCompoundResponse is the response for successful compound addition
type AddCompoundResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
	Name    string `json:"name"`
}

// DeleteCompoundResponse is the response for DELETE /api/compounds/{id}
type DeleteCompoundResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// CalibrationDTO is an optional calibration reference signal
type CalibrationDTO struct {
	Axis1 float64 `json:"axis1"`
	Axis2 float64 `json:"axis2"`
}

// AnalyzeRequest is the request body for POST /api/analyze
type AnalyzeRequest struct {
	HSQCPeaks   string          `json:"hsqc_peaks"`
	COSYPeaks   string          `json:"cosy_peaks"`
	HMBCPeaks   string          `json:"hmbc_peaks"`
	ToleranceH  float64         `json:"tolerance_h,omitempty"`
	ToleranceC  float64         `json:"tolerance_c,omitempty"`
	Calibration *CalibrationDTO `json:"calibration,omitempty"`
}

// Validate checks if the request is valid
func (r *AnalyzeRequest) Validate() error {
	if strings.TrimSpace(r.HSQCPeaks) == "" &&
		strings.TrimSpace(r.COSYPeaks) == "" &&
		strings.TrimSpace(r.HMBCPeaks) == "" {
		return fmt.Errorf("at least one peak list is required")
	}
	if r.ToleranceH < 0 || r.ToleranceC < 0 {
		return fmt.Errorf("tolerances must not be negative")
	}
	for field, text := range map[string]string{
		"hsqc_peaks": r.HSQCPeaks,
		"cosy_peaks": r.COSYPeaks,
		"hmbc_peaks": r.HMBCPeaks,
	} {
		if len(text) > MaxPeakTextBytes {
			return fmt.Errorf("%s too large: %d bytes (maximum: %d)", field, len(text), MaxPeakTextBytes)
		}
	}
	return nil
}

// TypeScoreDTO is the per-spectrum breakdown of a detected compound
type TypeScoreDTO struct {
	Matched  int      `json:"matched"`
	Total    int      `json:"total"`
	Fraction *float64 `json:"fraction"`
	Ratio    string   `json:"ratio"`
}

// DetectedCompoundDTO is one ranked hit in an analysis response
type DetectedCompoundDTO struct {
	ID     string                  `json:"id"`
	Name   string                  `json:"name"`
	Score  float64                 `json:"score"`
	ByType map[string]TypeScoreDTO `json:"by_type"`
}

// AnalyzeResponse is the response for POST /api/analyze
type AnalyzeResponse struct {
	Detected  []DetectedCompoundDTO     `json:"detected"`
	Count     int                       `json:"count"`
	Unmatched map[string][]spectra.Peak `json:"unmatched"`
	Offsets   map[string]spectra.Offset `json:"offsets,omitempty"`
}

func toAnalyzeResponse(res *peakmatch.AnalysisResult) AnalyzeResponse {
	detected := make([]DetectedCompoundDTO, len(res.Detected))
	for i, m := range res.Detected {
		byType := make(map[string]TypeScoreDTO, len(m.ByType))
		for st, ts := range m.ByType {
			byType[string(st)] = TypeScoreDTO{
				Matched:  ts.Matched,
				Total:    ts.Total,
				Fraction: ts.Fraction,
				Ratio:    ts.Ratio(),
			}
		}
		detected[i] = DetectedCompoundDTO{
			ID:     m.CompoundID,
			Name:   m.CompoundName,
			Score:  m.Score,
			ByType: byType,
		}
	}

	unmatched := make(map[string][]spectra.Peak, len(res.Unmatched))
	for st, peaks := range res.Unmatched {
		unmatched[string(st)] = peaks
	}

	var offsets map[string]spectra.Offset
	if len(res.Offsets) > 0 {
		offsets = make(map[string]spectra.Offset, len(res.Offsets))
		for st, off := range res.Offsets {
			offsets[string(st)] = off
		}
	}

	return AnalyzeResponse{
		Detected:  detected,
		Count:     len(detected),
		Unmatched: unmatched,
		Offsets:   offsets,
	}
}

// QuickMatchRequest is the request body for POST /api/quickmatch
type QuickMatchRequest struct {
	Peaks      string  `json:"peaks"`
	ToleranceH float64 `json:"tolerance_h,omitempty"`
	ToleranceC float64 `json:"tolerance_c,omitempty"`
}

// Validate checks if the request is valid
func (r *QuickMatchRequest) Validate() error {
	if strings.TrimSpace(r.Peaks) == "" {
		return fmt.Errorf("peaks is required")
	}
	if r.ToleranceH < 0 || r.ToleranceC < 0 {
		return fmt.Errorf("tolerances must not be negative")
	}
	if len(r.Peaks) > MaxPeakTextBytes {
		return fmt.Errorf("peaks too large: %d bytes (maximum: %d)", len(r.Peaks), MaxPeakTextBytes)
	}
	return nil
}

// PartialMatchDTO is a partially matched compound in a quick match response
type PartialMatchDTO struct {
	Name    string `json:"name"`
	Matched int    `json:"matched"`
	Total   int    `json:"total"`
	Ratio   string `json:"ratio"`
	Percent string `json:"percent"`
}

// QuickMatchResponse is the response for POST /api/quickmatch
type QuickMatchResponse struct {
	Fully   []string          `json:"fully_matched"`
	Partial []PartialMatchDTO `json:"partially_matched"`
	Offset  spectra.Offset    `json:"offset"`
}

func toQuickMatchResponse(res *mixture.QuickResult) QuickMatchResponse {
	partial := make([]PartialMatchDTO, len(res.Partial))
	for i, p := range res.Partial {
		partial[i] = PartialMatchDTO{
			Name:    p.CompoundID,
			Matched: p.Matched,
			Total:   p.Total,
			Ratio:   p.Ratio,
			Percent: p.Percent,
		}
	}
	return QuickMatchResponse{Fully: res.Fully, Partial: partial, Offset: res.Offset}
}

// StatsResponse provides server health and database metrics
type StatsResponse struct {
	Status        string `json:"status"`
	DatabasePath  string `json:"database_path"`
	CompoundCount int64  `json:"compound_count"`
	PeakCount     int64  `json:"peak_count"`
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
