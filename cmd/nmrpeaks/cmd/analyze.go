package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/spectra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Screen a mixture sample against the reference database",
	Long: `Analyze parses the given peak lists, optionally calibrates them to a
reference signal, and scores every compound in the database against the
sample. Compounds scoring at or above the acceptance threshold are
reported in descending score order, followed by the sample peaks no
accepted compound explains.

Examples:
  # HSQC-only analysis
  nmrpeaks analyze --hsqc sample_hsqc.txt

  # All three experiments, calibrated to methanol
  nmrpeaks analyze --hsqc h.txt --cosy c.txt --hmbc m.txt --calibrate 3.31,49.1`,
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if hsqcFile == "" && cosyFile == "" && hmbcFile == "" {
		return fmt.Errorf("at least one of --hsqc, --cosy, --hmbc is required")
	}

	req := peakmatch.AnalysisRequest{
		ToleranceH: toleranceH,
		ToleranceC: toleranceC,
	}

	var err error
	if req.HSQCPeaks, err = readPeakFile(hsqcFile); err != nil {
		return err
	}
	if req.COSYPeaks, err = readPeakFile(cosyFile); err != nil {
		return err
	}
	if req.HMBCPeaks, err = readPeakFile(hmbcFile); err != nil {
		return err
	}

	if calibrateTo != "" {
		ref, err := parseCalibration(calibrateTo)
		if err != nil {
			return err
		}
		req.Calibration = ref
	}

	svc, err := openService()
	if err != nil {
		return err
	}
	defer svc.Close()

	result, err := svc.Analyze(context.Background(), req)
	if err != nil {
		return err
	}

	printAnalysis(result)
	return nil
}

func printAnalysis(result *peakmatch.AnalysisResult) {
	if off, ok := result.Offsets[spectra.HSQC]; ok {
		fmt.Printf("Calibration offset: %+.4f ppm (1H), %+.4f ppm (13C)\n\n", off.Axis1, off.Axis2)
	}

	if len(result.Detected) == 0 {
		fmt.Println("No compounds detected.")
	} else {
		fmt.Printf("Detected %d compound(s):\n\n", len(result.Detected))
		for i, m := range result.Detected {
			fmt.Printf("%2d. %-30s score %.3f\n", i+1, m.CompoundName, m.Score)
			for _, st := range []spectra.SpectrumType{spectra.HSQC, spectra.COSY, spectra.HMBC} {
				ts, ok := m.ByType[st]
				if !ok || ts.Fraction == nil {
					continue
				}
				fmt.Printf("      %-5s %s\n", strings.ToUpper(string(st)), ts.Ratio())
			}
		}
	}

	total := 0
	for _, peaks := range result.Unmatched {
		total += len(peaks)
	}
	if total > 0 {
		fmt.Printf("\nUnmatched sample peaks (%d):\n", total)
		for _, st := range []spectra.SpectrumType{spectra.HSQC, spectra.COSY, spectra.HMBC} {
			for _, p := range result.Unmatched[st] {
				fmt.Printf("  %-5s %8.3f %8.3f\n", strings.ToUpper(string(st)), p.Axis1, p.Axis2)
			}
		}
	}
}

// readPeakFile returns the file contents, or an empty string for an empty
// path.
func readPeakFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read peak list %s: %w", path, err)
	}
	return string(data), nil
}

func parseCalibration(s string) (*peakmatch.CalibrationRef, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid calibration %q, expected 'h,c'", s)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid calibration 1H value %q: %w", parts[0], err)
	}
	c, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid calibration 13C value %q: %w", parts[1], err)
	}
	return &peakmatch.CalibrationRef{Axis1: h, Axis2: c}, nil
}
