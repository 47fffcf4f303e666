// Package models holds the domain types shared between the peakmatch
// service facade and its storage implementations.
package models

import (
	"time"

	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/spectra"
)

// Compound is one reference database entry: identity, the three peak lists,
// and opaque metadata. The matching core reads compounds, it never mutates
// them.
type Compound struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	StructureImage string              `json:"structure_image,omitempty"` // opaque, usually base64 PNG
	HSQC           spectra.PeakSet     `json:"hsqc_peaks"`
	COSY           spectra.PeakSet     `json:"cosy_peaks"`
	HMBC           spectra.PeakSet     `json:"hmbc_peaks"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// Set returns the compound's peak list for a kind.
func (c *Compound) Set(st spectra.SpectrumType) spectra.PeakSet {
	switch st {
	case spectra.HSQC:
		return c.HSQC
	case spectra.COSY:
		return c.COSY
	case spectra.HMBC:
		return c.HMBC
	}
	return spectra.PeakSet{}
}

// Sets returns the compound's peak lists keyed by kind.
func (c *Compound) Sets() map[spectra.SpectrumType]spectra.PeakSet {
	return map[spectra.SpectrumType]spectra.PeakSet{
		spectra.HSQC: c.HSQC,
		spectra.COSY: c.COSY,
		spectra.HMBC: c.HMBC,
	}
}

// CompoundInput is the write-side shape of a compound: peak lists arrive as
// pasted text and are parsed once before storage.
type CompoundInput struct {
	Name           string `json:"name"`
	StructureImage string `json:"structure_image,omitempty"`
	HSQCPeaks      string `json:"hsqc_peaks"`
	COSYPeaks      string `json:"cosy_peaks"`
	HMBCPeaks      string `json:"hmbc_peaks"`
}
