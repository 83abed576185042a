package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kmatyas/twopane/internal/config"
)

// menuCmd prints the assembled context menu for a path, for inspecting what
// the TUI would show without starting it.
var menuCmd = &cobra.Command{
	Use:   "menu <path>",
	Short: "Print the context menu assembled for a file or directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cleanup, err := initLogging(cmd, false)
		if err != nil {
			return fmt.Errorf("initializing debug log: %w", err)
		}
		defer cleanup()

		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		cfg = config.Normalized(cfg)

		path, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("inspecting path: %w", err)
		}

		pipe := newPipeline(cfg)
		entries, err := pipe.provider.ExtensionsForFile(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("collecting extensions: %w", err)
		}

		actions, err := pipe.builder.Build(path, info.IsDir(), entries)
		if err != nil {
			return fmt.Errorf("assembling menu: %w", err)
		}

		out, err := json.MarshalIndent(actions, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding menu: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(menuCmd)
}
