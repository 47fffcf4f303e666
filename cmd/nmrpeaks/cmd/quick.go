package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/mixture"
)

var quickCmd = &cobra.Command{
	Use:   "quick [sample-file]",
	Short: "Quick HSQC comparison against reference peaks",
	Long: `Quick calibrates the sample to methanol (3.31 / 49.1 ppm by default)
and reports which compounds have every reference HSQC peak present in
the sample, plus those with at least half present.

The reference peaks come from the database, or from a CSV table with a
header and rows of compound,shift1,shift2.

Examples:
  nmrpeaks quick sample_hsqc.txt
  nmrpeaks quick sample_hsqc.txt --refs hsqc_database.csv --tol-h 0.06 --tol-c 0.8`,
	Args: cobra.ExactArgs(1),
	RunE: runQuick,
}

func runQuick(cmd *cobra.Command, args []string) error {
	sample, err := readPeakFile(args[0])
	if err != nil {
		return err
	}

	var result *mixture.QuickResult
	if refsCSV != "" {
		refs, err := loadReferenceCSV(refsCSV)
		if err != nil {
			return err
		}
		result, err = mixture.QuickCompare(sample, mixture.QuickOptions{
			ToleranceH: toleranceH,
			ToleranceC: toleranceC,
		}, refs)
		if err != nil {
			return err
		}
	} else {
		svc, err := openService()
		if err != nil {
			return err
		}
		defer svc.Close()

		result, err = svc.QuickMatch(context.Background(), peakmatch.QuickRequest{
			Peaks:      sample,
			ToleranceH: toleranceH,
			ToleranceC: toleranceC,
		})
		if err != nil {
			return err
		}
	}

	printQuick(result)
	return nil
}

func printQuick(result *mixture.QuickResult) {
	if !result.Offset.IsZero() {
		fmt.Printf("Calibration offset: %+.4f ppm (1H), %+.4f ppm (13C)\n\n", result.Offset.Axis1, result.Offset.Axis2)
	}

	if len(result.Fully) == 0 && len(result.Partial) == 0 {
		fmt.Println("No matches found.")
		return
	}

	if len(result.Fully) > 0 {
		fmt.Printf("Fully matched (%d):\n", len(result.Fully))
		for _, id := range result.Fully {
			fmt.Printf("  %s\n", id)
		}
	}
	if len(result.Partial) > 0 {
		fmt.Printf("Partially matched (%d):\n", len(result.Partial))
		for _, p := range result.Partial {
			fmt.Printf("  %-30s %s (%s)\n", p.CompoundID, p.Ratio, p.Percent)
		}
	}
}

// loadReferenceCSV reads a compound,shift1,shift2 table. The first row is
// treated as a header.
func loadReferenceCSV(path string) ([]mixture.ReferencePeak, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference CSV: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var refs []mixture.ReferencePeak
	lineNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		lineNum++
		if lineNum == 1 {
			// header
			continue
		}
		if len(record) < 3 {
			return nil, fmt.Errorf("line %d: expected 3 fields (compound,shift1,shift2), got %d", lineNum, len(record))
		}

		axis1, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid shift1 value %q: %w", lineNum, record[1], err)
		}
		axis2, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid shift2 value %q: %w", lineNum, record[2], err)
		}

		refs = append(refs, mixture.ReferencePeak{
			CompoundID: strings.TrimSpace(record[0]),
			Axis1:      axis1,
			Axis2:      axis2,
		})
	}

	if len(refs) == 0 {
		return nil, fmt.Errorf("reference CSV %s holds no peaks", path)
	}
	return refs, nil
}
