package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kmatyas/twopane/internal/config"
	"github.com/kmatyas/twopane/internal/shell"
)

// cacheReport aggregates the diagnostics of every cache-carrying component.
type cacheReport struct {
	Registry  shell.CacheStats     `json:"registry"`
	Detector  shell.CacheStats     `json:"detector"`
	Provider  shell.CacheStats     `json:"provider"`
	Discovery shell.DiscoveryStats `json:"discovery"`
}

// cacheCmd primes the pipeline with one discovery pass and prints cache
// diagnostics for each stage.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Print cache diagnostics for the discovery pipeline",
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
		if _, err := pipe.service.Applications(cmd.Context()); err != nil {
			return fmt.Errorf("discovering applications: %w", err)
		}

		report := cacheReport{
			Registry:  pipe.reader.Stats(),
			Detector:  pipe.detector.Stats(),
			Provider:  pipe.provider.CacheStats(),
			Discovery: pipe.service.Stats(cmd.Context()),
		}

		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
}
