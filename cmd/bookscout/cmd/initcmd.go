package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bookscout/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Write a commented starter configuration to .bookscout.yaml in the
current directory. Refuses to overwrite an existing file unless
--force is given.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}

func runInit(cmd *cobra.Command, _ []string) error {
	path := ".bookscout.yaml"
	if cfgFile != "" {
		path = cfgFile
	}

	if initForce {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	if err := config.WriteDefault(path); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		return err
	}

	// Round-trip the file through a fresh loader (no flag bindings) so
	// a broken template never reaches the user silently.
	cfg, err := config.NewLoader().WithConfigFile(path).Load()
	if err != nil {
		return fmt.Errorf("verifying %s: %w", path, err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("verifying %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
