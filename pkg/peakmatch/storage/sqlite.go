// Package storage persists the compound reference database in SQLite via
// gorm. The store is handed to the service at construction; there is no
// package-level connection state.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tanmaydutta/NMRPeakMatch/pkg/models"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/spectra"
)

const DefaultDBFile = "nmrpeaks.sqlite3"

// ErrNotFound is returned when a compound id does not exist. Callers check
// it with errors.Is; it is an expected condition, not a failure.
var ErrNotFound = errors.New("compound not found")

// Store is the gorm-backed compound database.
type Store struct {
	DB *gorm.DB
	db *sql.DB
}

type compoundRow struct {
	ID             string `gorm:"primaryKey;type:varchar(36)"`
	Name           string `gorm:"uniqueIndex:idx_compound_name"`
	StructureImage string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (compoundRow) TableName() string { return "compounds" }

type peakRow struct {
	ID         uint    `gorm:"primaryKey;autoIncrement"`
	CompoundID string  `gorm:"type:varchar(36);index:idx_peak_compound"`
	Kind       string  `gorm:"index:idx_peak_kind"`
	Position   int     // original line order within the peak list
	Axis1      float64 `gorm:"index:idx_peak_axis1"`
	Axis2      float64 `gorm:"index:idx_peak_axis2"`
	Intensity  float64
}

func (peakRow) TableName() string { return "peaks" }

// Open creates (or opens) the SQLite database at path and migrates the
// schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&compoundRow{}, &peakRow{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &Store{DB: db, db: sqlDB}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// CreateCompound inserts a compound and its peak lists, returning the new
// id. The compound's ID field is ignored; a fresh UUID is assigned.
func (s *Store) CreateCompound(c models.Compound) (string, error) {
	if c.Name == "" {
		return "", errors.New("compound name is required")
	}

	row := compoundRow{
		ID:             uuid.NewString(),
		Name:           c.Name,
		StructureImage: c.StructureImage,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("creating compound: %w", err)
		}
		return insertPeaks(tx, row.ID, &c)
	})
	if err != nil {
		return "", err
	}
	return row.ID, nil
}

// UpdateCompound replaces a compound's fields and peak lists.
func (s *Store) UpdateCompound(id string, c models.Compound) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var row compoundRow
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("updating compound %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("querying compound: %w", err)
		}

		updates := map[string]any{
			"name":            c.Name,
			"structure_image": c.StructureImage,
			"updated_at":      time.Now(),
		}
		if err := tx.Model(&row).Updates(updates).Error; err != nil {
			return fmt.Errorf("updating compound: %w", err)
		}

		if err := tx.Where("compound_id = ?", id).Delete(&peakRow{}).Error; err != nil {
			return fmt.Errorf("clearing peaks: %w", err)
		}
		return insertPeaks(tx, id, &c)
	})
}

// DeleteCompoundByID removes a compound and all its peaks transactionally.
func (s *Store) DeleteCompoundByID(id string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("compound_id = ?", id).Delete(&peakRow{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&compoundRow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("deleting compound %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

// GetCompoundByID fetches one compound with its peak lists.
func (s *Store) GetCompoundByID(id string) (*models.Compound, error) {
	var row compoundRow
	if err := s.DB.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("compound %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("querying compound: %w", err)
	}
	return s.hydrate(row)
}

// ListCompounds returns all compounds sorted by name, peaks included.
func (s *Store) ListCompounds() ([]models.Compound, error) {
	var rows []compoundRow
	if err := s.DB.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing compounds: %w", err)
	}
	return s.hydrateAll(rows)
}

// FindByName returns compounds whose name contains the query,
// case-insensitively, sorted by name.
func (s *Store) FindByName(name string) ([]models.Compound, error) {
	var rows []compoundRow
	err := s.DB.Where("name LIKE ? COLLATE NOCASE", "%"+name+"%").
		Order("name ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("searching compounds by name: %w", err)
	}
	return s.hydrateAll(rows)
}

// FindByPeak returns compounds having at least one peak of the given kind
// inside the tolerance window around the queried shifts. Either axis may be
// nil to search on the other alone. An empty kind searches every kind.
func (s *Store) FindByPeak(kind spectra.SpectrumType, axis1, axis2 *float64, tolAxis1, tolAxis2 float64) ([]models.Compound, error) {
	if axis1 == nil && axis2 == nil {
		return nil, errors.New("peak search needs at least one shift value")
	}
	if tolAxis1 <= 0 || tolAxis2 <= 0 {
		return nil, fmt.Errorf("peak search tolerances must be positive, got (%v, %v)", tolAxis1, tolAxis2)
	}

	q := s.DB.Model(&peakRow{}).Distinct("compound_id")
	if kind != "" {
		if !kind.Valid() {
			return nil, fmt.Errorf("unknown spectrum type %q", kind)
		}
		q = q.Where("kind = ?", string(kind))
	}
	if axis1 != nil {
		q = q.Where("axis1 BETWEEN ? AND ?", *axis1-tolAxis1, *axis1+tolAxis1)
	}
	if axis2 != nil {
		q = q.Where("axis2 BETWEEN ? AND ?", *axis2-tolAxis2, *axis2+tolAxis2)
	}

	var ids []string
	if err := q.Pluck("compound_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("searching peaks: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []compoundRow
	if err := s.DB.Where("id IN ?", ids).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetching matched compounds: %w", err)
	}
	return s.hydrateAll(rows)
}

// CountCompounds returns the number of stored compounds.
func (s *Store) CountCompounds() (int64, error) {
	var n int64
	if err := s.DB.Model(&compoundRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting compounds: %w", err)
	}
	return n, nil
}

// CountPeaks returns the total number of stored reference peaks.
func (s *Store) CountPeaks() (int64, error) {
	var n int64
	if err := s.DB.Model(&peakRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting peaks: %w", err)
	}
	return n, nil
}

func insertPeaks(tx *gorm.DB, compoundID string, c *models.Compound) error {
	rows := make([]peakRow, 0, c.HSQC.Len()+c.COSY.Len()+c.HMBC.Len())
	for _, ps := range []spectra.PeakSet{c.HSQC, c.COSY, c.HMBC} {
		for i, p := range ps.Peaks {
			rows = append(rows, peakRow{
				CompoundID: compoundID,
				Kind:       string(ps.Type),
				Position:   i,
				Axis1:      p.Axis1,
				Axis2:      p.Axis2,
				Intensity:  p.Intensity,
			})
		}
	}
	if len(rows) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(rows, 500).Error; err != nil {
		return fmt.Errorf("inserting peaks: %w", err)
	}
	return nil
}

func (s *Store) hydrate(row compoundRow) (*models.Compound, error) {
	var peaks []peakRow
	err := s.DB.Where("compound_id = ?", row.ID).
		Order("kind ASC, position ASC").Find(&peaks).Error
	if err != nil {
		return nil, fmt.Errorf("loading peaks for %s: %w", row.ID, err)
	}

	c := &models.Compound{
		ID:             row.ID,
		Name:           row.Name,
		StructureImage: row.StructureImage,
		HSQC:           spectra.PeakSet{Type: spectra.HSQC},
		COSY:           spectra.PeakSet{Type: spectra.COSY},
		HMBC:           spectra.PeakSet{Type: spectra.HMBC},
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	for _, p := range peaks {
		peak := spectra.Peak{Axis1: p.Axis1, Axis2: p.Axis2, Intensity: p.Intensity}
		switch spectra.SpectrumType(p.Kind) {
		case spectra.HSQC:
			c.HSQC.Peaks = append(c.HSQC.Peaks, peak)
		case spectra.COSY:
			c.COSY.Peaks = append(c.COSY.Peaks, peak)
		case spectra.HMBC:
			c.HMBC.Peaks = append(c.HMBC.Peaks, peak)
		}
	}
	return c, nil
}

func (s *Store) hydrateAll(rows []compoundRow) ([]models.Compound, error) {
	out := make([]models.Compound, 0, len(rows))
	for _, row := range rows {
		c, err := s.hydrate(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}
