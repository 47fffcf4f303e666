package cmd

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tanmaydutta/NMRPeakMatch/pkg/models"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/spectra"
)

var compoundsCmd = &cobra.Command{
	Use:   "compounds",
	Short: "Manage the reference compound database",
}

var compoundsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all compounds in the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		defer svc.Close()

		compounds, err := svc.ListCompounds()
		if err != nil {
			return err
		}
		if len(compounds) == 0 {
			fmt.Println("Database is empty.")
			return nil
		}

		fmt.Printf("%-36s  %-30s  %5s  %5s  %5s  %s\n", "ID", "NAME", "HSQC", "COSY", "HMBC", "ADDED")
		for _, c := range compounds {
			fmt.Printf("%-36s  %-30s  %5d  %5d  %5d  %s\n",
				c.ID, c.Name, c.HSQC.Len(), c.COSY.Len(), c.HMBC.Len(), humanize.Time(c.CreatedAt))
		}

		stats, err := svc.Stats()
		if err != nil {
			return err
		}
		fmt.Printf("\n%s compounds, %s reference peaks\n",
			humanize.Comma(stats.Compounds), humanize.Comma(stats.Peaks))
		return nil
	},
}

var compoundsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a compound's peak lists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		defer svc.Close()

		c, err := svc.GetCompound(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n", c.Name, c.ID)
		sets := c.Sets()
		for _, st := range []spectra.SpectrumType{spectra.HSQC, spectra.COSY, spectra.HMBC} {
			ps := sets[st]
			if ps.Empty() {
				continue
			}
			fmt.Printf("\n%s (%d peaks):\n%s\n", st, ps.Len(), ps.Text())
		}
		return nil
	},
}

var compoundsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a compound from peak list files",
	Long: `Add reads peak lists from the given files and stores the compound.

Example:
  nmrpeaks compounds add --name Alanine --hsqc alanine_hsqc.txt --cosy alanine_cosy.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := models.CompoundInput{Name: compoundName, StructureImage: structureImage}

		var err error
		if in.HSQCPeaks, err = readPeakFile(hsqcFile); err != nil {
			return err
		}
		if in.COSYPeaks, err = readPeakFile(cosyFile); err != nil {
			return err
		}
		if in.HMBCPeaks, err = readPeakFile(hmbcFile); err != nil {
			return err
		}

		svc, err := openService()
		if err != nil {
			return err
		}
		defer svc.Close()

		id, err := svc.AddCompound(context.Background(), in)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (%s)\n", in.Name, id)
		return nil
	},
}

var compoundsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a compound by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := svc.DeleteCompound(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

var compoundsImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import compounds from a JSON seed file",
	Long: `Import seeds an empty database from a JSON array of compounds with
name and peak list fields. A populated database is left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		defer svc.Close()

		n, err := svc.ImportCompounds(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d compound(s)\n", n)
		return nil
	},
}

var compoundsSearchCmd = &cobra.Command{
	Use:   "search [name]",
	Short: "Search compounds by name substring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		defer svc.Close()

		compounds, err := svc.FindCompoundsByName(args[0])
		if err != nil {
			return err
		}
		if len(compounds) == 0 {
			fmt.Println("No compounds found.")
			return nil
		}
		for _, c := range compounds {
			fmt.Printf("%-36s  %s\n", c.ID, c.Name)
		}
		return nil
	},
}

func init() {
	compoundsCmd.AddCommand(compoundsListCmd)
	compoundsCmd.AddCommand(compoundsShowCmd)
	compoundsCmd.AddCommand(compoundsAddCmd)
	compoundsCmd.AddCommand(compoundsDeleteCmd)
	compoundsCmd.AddCommand(compoundsImportCmd)
	compoundsCmd.AddCommand(compoundsSearchCmd)

	compoundsAddCmd.Flags().StringVar(&compoundName, "name", "", "Compound name (required)")
	compoundsAddCmd.Flags().StringVar(&structureImage, "structure", "", "Structure image reference (optional)")
	compoundsAddCmd.Flags().StringVar(&hsqcFile, "hsqc", "", "Path to HSQC peak list")
	compoundsAddCmd.Flags().StringVar(&cosyFile, "cosy", "", "Path to COSY peak list")
	compoundsAddCmd.Flags().StringVar(&hmbcFile, "hmbc", "", "Path to HMBC peak list")
	compoundsAddCmd.MarkFlagRequired("name")
}
