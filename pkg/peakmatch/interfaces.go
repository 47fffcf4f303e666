// Package peakmatch is the library facade of the NMR mixture matcher: it
// wires the peak parser, calibrator and matching engine to a compound store
// behind a single Service interface.
package peakmatch

import (
	"context"

	"github.com/tanmaydutta/NMRPeakMatch/pkg/models"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/mixture"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/spectra"
)

// Service is the complete application surface: compound CRUD plus the two
// matching workflows.
type Service interface {
	AddCompound(ctx context.Context, in models.CompoundInput) (string, error)
	GetCompound(id string) (*models.Compound, error)
	ListCompounds() ([]models.Compound, error)
	UpdateCompound(ctx context.Context, id string, in models.CompoundInput) error
	DeleteCompound(id string) error
	FindCompoundsByName(name string) ([]models.Compound, error)
	FindCompoundsByPeak(kind spectra.SpectrumType, axis1, axis2 *float64) ([]models.Compound, error)

	Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error)
	QuickMatch(ctx context.Context, req QuickRequest) (*mixture.QuickResult, error)

	ImportCompounds(ctx context.Context, path string) (int, error)
	Stats() (Stats, error)
	Close() error
}

// Storage is the persistence capability the service depends on. It is
// injected at construction; implementations own their connection lifecycle.
type Storage interface {
	CreateCompound(c models.Compound) (string, error)
	UpdateCompound(id string, c models.Compound) error
	DeleteCompoundByID(id string) error
	GetCompoundByID(id string) (*models.Compound, error)
	ListCompounds() ([]models.Compound, error)
	FindByName(name string) ([]models.Compound, error)
	FindByPeak(kind spectra.SpectrumType, axis1, axis2 *float64, tolAxis1, tolAxis2 float64) ([]models.Compound, error)
	CountCompounds() (int64, error)
	CountPeaks() (int64, error)
	Close() error
}

// Logger is the minimal logging surface the service needs; zap's
// SugaredLogger satisfies it.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
