package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jpignata/garmin-training-plan/internal/config"
	"github.com/jpignata/garmin-training-plan/internal/storage"
)

var initForce bool

var initSetupCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file and create the upload ledger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			var err error
			if path, err = config.GetConfigPath(); err != nil {
				return err
			}
		}

		_, statErr := os.Stat(path)
		switch {
		case statErr == nil && !initForce:
			fmt.Printf("Config already exists at %s (use --force to overwrite)\n", path)
		case statErr != nil && !errors.Is(statErr, fs.ErrNotExist):
			return statErr
		default:
			if cfg.Ledger.ConnectionString == "" {
				cfg.Ledger.ConnectionString = "file:" + filepath.Join(filepath.Dir(path), "ledger.db")
			}
			if err := config.Save(path, cfg); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Printf("✅ Config written to %s\n", path)
		}

		if cfg.Ledger.ConnectionString == "" {
			return nil
		}
		st, err := storage.NewStorage(cfg.Ledger.ConnectionString)
		if err != nil {
			return fmt.Errorf("failed to initialize ledger: %w", err)
		}
		defer st.Close()
		fmt.Println("✅ Ledger initialized successfully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initSetupCmd)
	initSetupCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}
