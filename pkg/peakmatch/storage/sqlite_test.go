package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tanmaydutta/NMRPeakMatch/pkg/models"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/spectra"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test_nmrpeaks.sqlite3")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testCompound(name string) models.Compound {
	return models.Compound{
		Name: name,
		HSQC: spectra.ParseText("3.35 49.7\n7.20 128.1 0.5", spectra.HSQC),
		COSY: spectra.ParseText("4.10 2.20", spectra.COSY),
		HMBC: spectra.PeakSet{Type: spectra.HMBC},
	}
}

func TestCreateAndGetCompound(t *testing.T) {
	store := setupTestStore(t)

	id, err := store.CreateCompound(testCompound("Methanol"))
	if err != nil {
		t.Fatalf("CreateCompound failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected a non-empty compound id")
	}

	got, err := store.GetCompoundByID(id)
	if err != nil {
		t.Fatalf("GetCompoundByID failed: %v", err)
	}
	if got.Name != "Methanol" {
		t.Errorf("name = %q, want Methanol", got.Name)
	}
	if got.HSQC.Len() != 2 || got.COSY.Len() != 1 || got.HMBC.Len() != 0 {
		t.Errorf("peak counts = %d/%d/%d, want 2/1/0", got.HSQC.Len(), got.COSY.Len(), got.HMBC.Len())
	}

	want := spectra.ParseText("3.35 49.7\n7.20 128.1 0.5", spectra.HSQC)
	if diff := cmp.Diff(want, got.HSQC); diff != "" {
		t.Errorf("stored hsqc peaks round-trip mismatch (-want +got):\n%s", diff)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestCreateCompoundRequiresName(t *testing.T) {
	store := setupTestStore(t)
	if _, err := store.CreateCompound(models.Compound{}); err == nil {
		t.Fatal("expected error for compound without a name")
	}
}

func TestUpdateCompound(t *testing.T) {
	store := setupTestStore(t)

	id, err := store.CreateCompound(testCompound("Glucose"))
	if err != nil {
		t.Fatalf("CreateCompound failed: %v", err)
	}

	updated := testCompound("Glucose (revised)")
	updated.HSQC = spectra.ParseText("3.35 49.7", spectra.HSQC)
	if err := store.UpdateCompound(id, updated); err != nil {
		t.Fatalf("UpdateCompound failed: %v", err)
	}

	got, err := store.GetCompoundByID(id)
	if err != nil {
		t.Fatalf("GetCompoundByID failed: %v", err)
	}
	if got.Name != "Glucose (revised)" {
		t.Errorf("name = %q, want the updated name", got.Name)
	}
	if got.HSQC.Len() != 1 {
		t.Errorf("hsqc peaks = %d, want the replaced list of 1", got.HSQC.Len())
	}

	if err := store.UpdateCompound("missing-id", updated); !errors.Is(err, ErrNotFound) {
		t.Errorf("update of unknown id: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteCompound(t *testing.T) {
	store := setupTestStore(t)

	id, err := store.CreateCompound(testCompound("Ethanol"))
	if err != nil {
		t.Fatalf("CreateCompound failed: %v", err)
	}

	if err := store.DeleteCompoundByID(id); err != nil {
		t.Fatalf("DeleteCompoundByID failed: %v", err)
	}
	if _, err := store.GetCompoundByID(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: err = %v, want ErrNotFound", err)
	}

	// Peaks must go with the compound.
	n, err := store.CountPeaks()
	if err != nil {
		t.Fatalf("CountPeaks failed: %v", err)
	}
	if n != 0 {
		t.Errorf("peak count after delete = %d, want 0", n)
	}

	if err := store.DeleteCompoundByID(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete: err = %v, want ErrNotFound", err)
	}
}

func TestListCompoundsSortedByName(t *testing.T) {
	store := setupTestStore(t)
	for _, name := range []string{"Zeatin", "Alanine", "Methanol"} {
		if _, err := store.CreateCompound(testCompound(name)); err != nil {
			t.Fatalf("CreateCompound(%s) failed: %v", name, err)
		}
	}

	list, err := store.ListCompounds()
	if err != nil {
		t.Fatalf("ListCompounds failed: %v", err)
	}
	gotNames := []string{list[0].Name, list[1].Name, list[2].Name}
	wantNames := []string{"Alanine", "Methanol", "Zeatin"}
	if diff := cmp.Diff(wantNames, gotNames); diff != "" {
		t.Errorf("list order (-want +got):\n%s", diff)
	}
}

func TestFindByName(t *testing.T) {
	store := setupTestStore(t)
	for _, name := range []string{"D-Glucose", "Sucrose", "Methanol"} {
		if _, err := store.CreateCompound(testCompound(name)); err != nil {
			t.Fatalf("CreateCompound(%s) failed: %v", name, err)
		}
	}

	got, err := store.FindByName("glucose")
	if err != nil {
		t.Fatalf("FindByName failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "D-Glucose" {
		t.Errorf("FindByName = %v compounds, want the case-insensitive substring match", len(got))
	}
}

func TestFindByPeak(t *testing.T) {
	store := setupTestStore(t)
	if _, err := store.CreateCompound(testCompound("Methanol")); err != nil {
		t.Fatalf("CreateCompound failed: %v", err)
	}

	h := 3.33
	c := 49.5
	got, err := store.FindByPeak(spectra.HSQC, &h, &c, 0.05, 0.5)
	if err != nil {
		t.Fatalf("FindByPeak failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("FindByPeak = %d compounds, want 1", len(got))
	}

	// Outside the window on axis1.
	far := 5.0
	got, err = store.FindByPeak(spectra.HSQC, &far, nil, 0.05, 0.5)
	if err != nil {
		t.Fatalf("FindByPeak failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("FindByPeak out of window = %d compounds, want 0", len(got))
	}

	// Empty kind searches every spectrum type.
	got, err = store.FindByPeak("", &h, nil, 0.05, 0.5)
	if err != nil {
		t.Fatalf("FindByPeak failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("FindByPeak across kinds = %d compounds, want 1", len(got))
	}

	// Contract violations.
	if _, err := store.FindByPeak(spectra.HSQC, nil, nil, 0.05, 0.5); err == nil {
		t.Error("expected error when both shifts are nil")
	}
	if _, err := store.FindByPeak(spectra.HSQC, &h, nil, -1, 0.5); err == nil {
		t.Error("expected error for negative tolerance")
	}
	if _, err := store.FindByPeak(spectra.SpectrumType("noesy"), &h, nil, 0.05, 0.5); err == nil {
		t.Error("expected error for unknown spectrum kind")
	}
}

func TestCountCompounds(t *testing.T) {
	store := setupTestStore(t)
	if _, err := store.CreateCompound(testCompound("One")); err != nil {
		t.Fatalf("CreateCompound failed: %v", err)
	}
	n, err := store.CountCompounds()
	if err != nil {
		t.Fatalf("CountCompounds failed: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}
