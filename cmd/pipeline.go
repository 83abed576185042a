package cmd

import (
	"github.com/kmatyas/twopane/internal/config"
	"github.com/kmatyas/twopane/internal/flags"
	"github.com/kmatyas/twopane/internal/pubsub"
	"github.com/kmatyas/twopane/internal/shell/detector"
	"github.com/kmatyas/twopane/internal/shell/discovery"
	"github.com/kmatyas/twopane/internal/shell/menu"
	"github.com/kmatyas/twopane/internal/shell/provider"
	shellregistry "github.com/kmatyas/twopane/internal/shell/registry"
)

// pipeline is the composition root for the shell-integration services:
// one registry reader, one discovery service, one detector, one provider,
// one builder, shared by the TUI and the inspection subcommands.
type pipeline struct {
	flags    *flags.Registry
	broker   *pubsub.Broker[string]
	reader   shellregistry.Reader
	service  *discovery.Service
	detector *detector.Detector
	provider *provider.Provider
	builder  *menu.Builder
}

func newPipeline(cfg config.Config) *pipeline {
	fl := flags.New(cfg.Flags)

	// Cache invalidations fan out over the broker so the UI can report them.
	broker := pubsub.NewBroker[string]()

	reader := shellregistry.NewReader(cfg.Cache.ExtensionTTL)
	strategy := discovery.NewStrategy(reader, cfg.Discovery)
	service := discovery.New(strategy, cfg.Discovery.Denylist, cfg.Cache.DiscoveryTTL,
		discovery.WithConcurrentScan(fl.Enabled(flags.FlagConcurrentScan)),
		discovery.WithBroker(broker))

	// The discovery service doubles as the detector's application index.
	det := detector.New(service, cfg.Detector.Aliases, cfg.Detector.LookupTimeout)
	prov := provider.New(service, det, cfg.Cache.ExtensionTTL)

	return &pipeline{
		flags:    fl,
		broker:   broker,
		reader:   reader,
		service:  service,
		detector: det,
		provider: prov,
		builder:  menu.NewBuilder(cfg.Menu),
	}
}
