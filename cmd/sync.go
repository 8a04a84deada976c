package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpignata/garmin-training-plan/internal/storage"
)

var exportLedgerCmd = &cobra.Command{
	Use:   "export-ledger [output-file]",
	Short: "Export the upload ledger to a TOML file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, err := storage.DefaultExportPath()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			outputFile = args[0]
		}

		st, err := requireLedger()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ExportLedgerToTOML(cmd.Context(), outputFile); err != nil {
			return fmt.Errorf("error exporting ledger: %w", err)
		}

		fmt.Printf("✅ Ledger exported successfully to %s\n", outputFile)
		return nil
	},
}

var importLedgerCmd = &cobra.Command{
	Use:   "import-ledger <dump-file>",
	Short: "Rebuild the upload ledger from the given TOML dump file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := requireLedger()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ImportLedgerFromTOML(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to import ledger: %w", err)
		}
		fmt.Println("✅ Ledger rebuilt successfully from TOML dump.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportLedgerCmd)
	rootCmd.AddCommand(importLedgerCmd)
}
