package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kmatyas/twopane/internal/config"
	"github.com/kmatyas/twopane/internal/shell"
)

// appsCmd runs a full discovery pass and prints every application found.
var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "Discover installed applications and print them as JSON",
	Args:  cobra.NoArgs,
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

		pipe := newPipeline(cfg)
		apps, err := pipe.service.Applications(cmd.Context())
		if err != nil {
			return fmt.Errorf("discovering applications: %w", err)
		}

		sorted := make([]shell.ApplicationInfo, 0, len(apps))
		for _, info := range apps {
			sorted = append(sorted, info)
		}
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].Name < sorted[j].Name
		})

		out, err := json.MarshalIndent(sorted, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding applications: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(appsCmd)
}
