package peakmatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tanmaydutta/NMRPeakMatch/pkg/logger"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/models"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/mixture"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/spectra"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/storage"
)

// matchService is the default implementation of the Service interface.
type matchService struct {
	storage Storage
	log     Logger
	config  *Config
}

// NewService builds the service from functional options, opening the
// default SQLite store when none is injected.
func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}
	if cfg.ToleranceH <= 0 || cfg.ToleranceC <= 0 {
		return nil, fmt.Errorf("configured tolerances must be positive, got (%v, %v)", cfg.ToleranceH, cfg.ToleranceC)
	}
	if cfg.ScoreThreshold < 0 || cfg.ScoreThreshold > 1 {
		return nil, fmt.Errorf("score threshold must be in [0,1], got %v", cfg.ScoreThreshold)
	}

	stor := cfg.Storage
	if stor == nil {
		var err error
		stor, err = storage.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open compound store: %w", err)
		}
	}

	return &matchService{storage: stor, log: cfg.Logger, config: cfg}, nil
}

// parseInput turns the pasted peak texts of a compound submission into a
// domain compound with structured peak lists.
func parseInput(in models.CompoundInput) (models.Compound, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Compound{}, errors.New("compound name is required")
	}
	return models.Compound{
		Name:           strings.TrimSpace(in.Name),
		StructureImage: in.StructureImage,
		HSQC:           spectra.ParseText(in.HSQCPeaks, spectra.HSQC),
		COSY:           spectra.ParseText(in.COSYPeaks, spectra.COSY),
		HMBC:           spectra.ParseText(in.HMBCPeaks, spectra.HMBC),
	}, nil
}

func (s *matchService) AddCompound(ctx context.Context, in models.CompoundInput) (string, error) {
	c, err := parseInput(in)
	if err != nil {
		return "", err
	}
	id, err := s.storage.CreateCompound(c)
	if err != nil {
		return "", fmt.Errorf("failed to store compound %q: %w", c.Name, err)
	}
	s.log.Infof("Added compound %q (id=%s, %d/%d/%d peaks)",
		c.Name, id, c.HSQC.Len(), c.COSY.Len(), c.HMBC.Len())
	return id, nil
}

func (s *matchService) UpdateCompound(ctx context.Context, id string, in models.CompoundInput) error {
	c, err := parseInput(in)
	if err != nil {
		return err
	}
	if err := s.storage.UpdateCompound(id, c); err != nil {
		return fmt.Errorf("failed to update compound %s: %w", id, err)
	}
	s.log.Infof("Updated compound %s", id)
	return nil
}

func (s *matchService) GetCompound(id string) (*models.Compound, error) {
	return s.storage.GetCompoundByID(id)
}

func (s *matchService) ListCompounds() ([]models.Compound, error) {
	return s.storage.ListCompounds()
}

func (s *matchService) DeleteCompound(id string) error {
	if err := s.storage.DeleteCompoundByID(id); err != nil {
		return err
	}
	s.log.Infof("Deleted compound %s", id)
	return nil
}

func (s *matchService) FindCompoundsByName(name string) ([]models.Compound, error) {
	return s.storage.FindByName(name)
}

// FindCompoundsByPeak searches the reference database for compounds with a
// peak near the given shifts, using the service's configured tolerances as
// the window.
func (s *matchService) FindCompoundsByPeak(kind spectra.SpectrumType, axis1, axis2 *float64) ([]models.Compound, error) {
	tolAxis2 := s.config.ToleranceC
	if kind == spectra.COSY {
		tolAxis2 = s.config.ToleranceH
	}
	return s.storage.FindByPeak(kind, axis1, axis2, s.config.ToleranceH, tolAxis2)
}

// Analyze runs the full mixture workflow: parse, calibrate, screen every
// compound, rank. An all-empty sample returns mixture.ErrNoPeaks.
func (s *matchService) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	tolH, tolC, err := s.tolerances(req.ToleranceH, req.ToleranceC)
	if err != nil {
		return nil, err
	}

	sample := mixture.Sample{
		Sets: map[spectra.SpectrumType]spectra.PeakSet{
			spectra.HSQC: spectra.ParseText(req.HSQCPeaks, spectra.HSQC),
			spectra.COSY: spectra.ParseText(req.COSYPeaks, spectra.COSY),
			spectra.HMBC: spectra.ParseText(req.HMBCPeaks, spectra.HMBC),
		},
		Offsets: map[spectra.SpectrumType]spectra.Offset{},
	}
	if sample.Empty() {
		return nil, mixture.ErrNoPeaks
	}

	// The HSQC-derived offset carries over to HMBC (same axis meanings)
	// and its 1H component to both COSY axes.
	if req.Calibration != nil {
		_, off := spectra.Calibrate(sample.Sets[spectra.HSQC], req.Calibration.Axis1, req.Calibration.Axis2)
		sample.Offsets[spectra.HSQC] = off
		sample.Offsets[spectra.HMBC] = off
		sample.Offsets[spectra.COSY] = spectra.Offset{Axis1: off.Axis1, Axis2: off.Axis1}
		s.log.Infof("Calibrated sample by (%.4f, %.4f) ppm", off.Axis1, off.Axis2)
	}

	compounds, err := s.storage.ListCompounds()
	if err != nil {
		return nil, fmt.Errorf("failed to load reference compounds: %w", err)
	}

	refs := make([]mixture.CompoundPeaks, 0, len(compounds))
	for i := range compounds {
		c := &compounds[i]
		refs = append(refs, mixture.CompoundPeaks{ID: c.ID, Name: c.Name, Sets: c.Sets()})
	}

	analyzer := mixture.Analyzer{
		Scorer:    mixture.Scorer{Strategy: s.config.Strategy},
		Threshold: s.config.ScoreThreshold,
	}
	detected, unmatched, err := analyzer.Analyze(sample, refs, tolH, tolC)
	if err != nil {
		return nil, err
	}

	s.log.Infof("Analysis screened %d compounds, detected %d", len(refs), len(detected))
	return &AnalysisResult{Detected: detected, Unmatched: unmatched, Offsets: sample.Offsets}, nil
}

// QuickMatch runs the lightweight comparator against the stored HSQC
// reference peaks, keyed by compound name.
func (s *matchService) QuickMatch(ctx context.Context, req QuickRequest) (*mixture.QuickResult, error) {
	compounds, err := s.storage.ListCompounds()
	if err != nil {
		return nil, fmt.Errorf("failed to load reference compounds: %w", err)
	}

	refs := make([]mixture.ReferencePeak, 0)
	for _, c := range compounds {
		for _, p := range c.HSQC.Peaks {
			refs = append(refs, mixture.ReferencePeak{CompoundID: c.Name, Axis1: p.Axis1, Axis2: p.Axis2})
		}
	}

	result, err := mixture.QuickCompare(req.Peaks, mixture.QuickOptions{
		ToleranceH: req.ToleranceH,
		ToleranceC: req.ToleranceC,
	}, refs)
	if err != nil {
		return nil, err
	}
	s.log.Infof("Quick match: %d fully, %d partially matched compounds",
		len(result.Fully), len(result.Partial))
	return result, nil
}

// ImportCompounds seeds the store from a JSON compound array, skipping the
// import entirely when the database already holds data.
func (s *matchService) ImportCompounds(ctx context.Context, path string) (int, error) {
	n, err := s.storage.CountCompounds()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Infof("Database already holds %d compounds, skipping import", n)
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading seed file: %w", err)
	}
	var inputs []models.CompoundInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return 0, fmt.Errorf("decoding seed file %s: %w", path, err)
	}

	imported := 0
	for _, in := range inputs {
		if _, err := s.AddCompound(ctx, in); err != nil {
			s.log.Warnf("Skipping seed compound %q: %v", in.Name, err)
			continue
		}
		imported++
	}
	s.log.Infof("Imported %d of %d seed compounds from %s", imported, len(inputs), path)
	return imported, nil
}

func (s *matchService) Stats() (Stats, error) {
	compounds, err := s.storage.CountCompounds()
	if err != nil {
		return Stats{}, err
	}
	peaks, err := s.storage.CountPeaks()
	if err != nil {
		return Stats{}, err
	}
	return Stats{Compounds: compounds, Peaks: peaks}, nil
}

func (s *matchService) Close() error {
	return s.storage.Close()
}

// tolerances applies the configured defaults to request overrides and
// rejects negative values outright.
func (s *matchService) tolerances(tolH, tolC float64) (float64, float64, error) {
	if tolH == 0 {
		tolH = s.config.ToleranceH
	}
	if tolC == 0 {
		tolC = s.config.ToleranceC
	}
	if tolH <= 0 || tolC <= 0 {
		return 0, 0, fmt.Errorf("tolerances must be positive, got (%v, %v)", tolH, tolC)
	}
	return tolH, tolC, nil
}
