// Package cmd provides CLI command implementations
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch"
)

var (
	// Persistent flags
	dbPath string

	// Flags for analyze command
	hsqcFile    string
	cosyFile    string
	hmbcFile    string
	toleranceH  float64
	toleranceC  float64
	calibrateTo string

	// Flags for quick command
	refsCSV string

	// Flags for compound management
	compoundName   string
	structureImage string
)

var rootCmd = &cobra.Command{
	Use:   "nmrpeaks",
	Short: "NMRPeakMatch - 2D NMR mixture analysis tool",
	Long: `NMRPeakMatch identifies compounds in complex mixtures from 2D NMR
peak lists (HSQC, COSY, HMBC).

Peak lists are plain text, one peak per line: shift1, shift2 and an
optional intensity, whitespace separated. Ranges like "24.5-24.9" are
collapsed to their midpoint.

Workflows:
- analyze: calibrate a sample and screen it against the full reference
  database, scoring every compound across all spectrum types
- quick:   fast HSQC-only comparison against the database or a CSV
  reference table`,
	Version: "1.0.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "nmrpeaks.sqlite3", "Path to SQLite compound database")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(quickCmd)
	rootCmd.AddCommand(compoundsCmd)

	// Analyze command flags
	analyzeCmd.Flags().StringVar(&hsqcFile, "hsqc", "", "Path to HSQC peak list")
	analyzeCmd.Flags().StringVar(&cosyFile, "cosy", "", "Path to COSY peak list")
	analyzeCmd.Flags().StringVar(&hmbcFile, "hmbc", "", "Path to HMBC peak list")
	analyzeCmd.Flags().Float64Var(&toleranceH, "tol-h", 0, "1H matching tolerance in ppm (0 = default)")
	analyzeCmd.Flags().Float64Var(&toleranceC, "tol-c", 0, "13C matching tolerance in ppm (0 = default)")
	analyzeCmd.Flags().StringVar(&calibrateTo, "calibrate", "", "Calibration reference as 'h,c' ppm (e.g. '3.31,49.1')")

	// Quick command flags
	quickCmd.Flags().StringVar(&refsCSV, "refs", "", "Reference peak CSV (compound,shift1,shift2); uses the database when omitted")
	quickCmd.Flags().Float64Var(&toleranceH, "tol-h", 0, "1H matching tolerance in ppm (0 = default)")
	quickCmd.Flags().Float64Var(&toleranceC, "tol-c", 0, "13C matching tolerance in ppm (0 = default)")
}

// openService builds the library service against the configured database.
func openService() (peakmatch.Service, error) {
	return peakmatch.NewService(peakmatch.WithDBPath(dbPath))
}
