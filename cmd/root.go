package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kmatyas/twopane/internal/app"
	"github.com/kmatyas/twopane/internal/config"
	"github.com/kmatyas/twopane/internal/flags"
	"github.com/kmatyas/twopane/internal/log"
	"github.com/kmatyas/twopane/internal/shell/launcher"
	"github.com/kmatyas/twopane/internal/ui/styles"
	"github.com/kmatyas/twopane/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "twopane",
	Short:   "A dual-pane terminal file manager with native context menus",
	Long:    `A dual-pane terminal file manager that discovers the applications and shell verbs registered on the system and assembles them into per-file context menus.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/twopane/config.yml)")
	rootCmd.PersistentFlags().Bool("debug", false,
		"write debug logs to twopane.log")
	rootCmd.Flags().String("left", "", "starting directory for the left panel")
	rootCmd.Flags().String("right", "", "starting directory for the right panel")
	rootCmd.Flags().Bool("no-auto-refresh", false,
		"disable cache refresh when watched application directories change")

	// Bind flags to viper
	_ = viper.BindPFlag("left_dir", rootCmd.Flags().Lookup("left"))
	_ = viper.BindPFlag("right_dir", rootCmd.Flags().Lookup("right"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("auto_refresh", defaults.AutoRefresh)
	viper.SetDefault("ui.show_hidden", defaults.UI.ShowHidden)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("ui.theme", defaults.UI.Theme)
	viper.SetDefault("cache.extension_ttl", defaults.Cache.ExtensionTTL)
	viper.SetDefault("cache.discovery_ttl", defaults.Cache.DiscoveryTTL)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if path := config.DefaultConfigPath(); path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file yet. Create one with defaults; if that fails,
		// run with in-memory defaults.
		if os.IsNotExist(err) || errorsAsNotFound(err) {
			if path := viper.ConfigFileUsed(); path != "" {
				if writeErr := config.WriteDefaultConfig(path); writeErr == nil {
					_ = viper.ReadInConfig()
				}
			}
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func errorsAsNotFound(err error) bool {
	_, ok := err.(viper.ConfigFileNotFoundError)
	return ok
}

func runApp(cmd *cobra.Command, args []string) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = config.Normalized(cfg)

	if cfg.UI.Theme == "light" {
		styles.ApplyTheme("#1E66F5", "#6C6F85", "#D20F39")
	}

	cleanup, err := initLogging(cmd, true)
	if err != nil {
		return fmt.Errorf("initializing debug log: %w", err)
	}
	defer cleanup()

	// Handle --no-auto-refresh flag (negated logic)
	if noAutoRefresh, _ := cmd.Flags().GetBool("no-auto-refresh"); noAutoRefresh {
		cfg.AutoRefresh = false
	}

	// Panels default to the current directory
	if cfg.LeftDir == "" || cfg.RightDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		if cfg.LeftDir == "" {
			cfg.LeftDir = cwd
		}
		if cfg.RightDir == "" {
			cfg.RightDir = cwd
		}
	}

	pipe := newPipeline(cfg)

	// Watch the application directories so installs and uninstalls
	// invalidate the discovery caches without a manual refresh.
	var w *watcher.Watcher
	var invalidations <-chan struct{}
	if cfg.AutoRefresh || pipe.flags.Enabled(flags.FlagWatchInvalidate) {
		watchCfg := watcher.DefaultConfig(cfg.Discovery.SearchDirs)
		if candidate, err := watcher.New(watchCfg); err == nil {
			if ch, err := candidate.Start(); err == nil {
				w = candidate
				invalidations = ch
			} else {
				_ = candidate.Stop()
				log.Warn(log.CatWatcher, "directory watch unavailable", "error", err)
			}
		}
	}

	model := app.New(app.Services{
		Extensions: pipe.provider,
		Index:      pipe.service,
		Builder:    pipe.builder,
		Launcher:   launcher.NewRealLauncher(),
		Types:      pipe.reader,
		Broker:     pipe.broker,
		Config:     &cfg,
		ConfigPath: viper.ConfigFileUsed(),
	}, w, invalidations)

	p := tea.NewProgram(&model, tea.WithAltScreen())

	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// initLogging turns on file logging when --debug or TWOPANE_DEBUG is set.
// The TUI variant routes the standard library logger through the same file
// so Bubble Tea's own output stays off the alternate screen. --debug logs
// everything; the environment variable alone logs info and up.
func initLogging(cmd *cobra.Command, tui bool) (func(), error) {
	debug, _ := cmd.Flags().GetBool("debug")
	if !debug && os.Getenv("TWOPANE_DEBUG") == "" {
		return func() {}, nil
	}

	var cleanup func()
	var err error
	if tui {
		cleanup, err = log.InitWithTeaLog("twopane.log", "twopane")
	} else {
		cleanup, err = log.Init("twopane.log")
	}
	if err != nil {
		return nil, err
	}

	if debug {
		log.SetMinLevel(log.LevelDebug)
	} else {
		log.SetMinLevel(log.LevelInfo)
	}
	return cleanup, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
