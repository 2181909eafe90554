package main

import (
	"fmt"

	"productlab-workers/internal/common/chart"
	"productlab-workers/internal/common/config"
	"productlab-workers/internal/common/logger"

	ds "productlab-workers/internal/workers/discovery/discovery-summarize"
	fs "productlab-workers/internal/workers/funnel/funnel-simulate"
	ip "productlab-workers/internal/workers/initiative/initiative-prioritize"
	ps "productlab-workers/internal/workers/persona/persona-select"

	"github.com/spf13/cobra"
)

type options struct {
	output     string
	configPath string
	verbose    bool
}

// lab holds what a single command invocation needs. Charts and boards live
// only as long as the invocation unless the config points boards at Redis.
type lab struct {
	opts   *options
	cfg    *config.Config
	logger logger.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "pmlab",
		Short: "Product manager lab for Lime Go",
		Long: `Explore a buyer persona, summarise discovery notes, simulate the revenue
funnel and prioritise initiatives.

Without a subcommand pmlab prints the starting dashboard: the Sales Lead persona,
the funnel with its default inputs and the initiatives in their natural order.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.output {
			case formatText, formatJSON, formatYAML:
				return nil
			default:
				return fmt.Errorf("unknown output format %q (text, json or yaml)", opts.output)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLab(opts)
			if err != nil {
				return err
			}
			return l.runDashboard(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&opts.output, "output", "o", formatText, "Output format: text, json or yaml")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (defaults to configs/config.yaml when present)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")

	root.AddCommand(
		newPersonaCmd(opts),
		newSummarizeCmd(opts),
		newFunnelCmd(opts),
		newInitiativesCmd(opts),
		newRegistryCmd(opts),
	)
	return root
}

func newLab(opts *options) (*lab, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFromFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	log := logger.NewNoOpLogger()
	if opts.verbose {
		log = logger.NewZapAdapter(logger.NewWithOptions(logger.Options{Level: "debug", Format: "console", Output: "stderr"}))
	}
	return &lab{opts: opts, cfg: cfg, logger: log}, nil
}

func (l *lab) persona() (*ps.Handler, error) {
	return ps.NewHandler(ps.HandlerOptions{AppConfig: l.cfg, Logger: l.logger})
}

func (l *lab) discovery() (*ds.Handler, error) {
	return ds.NewHandler(ds.HandlerOptions{AppConfig: l.cfg, Logger: l.logger})
}

// funnel draws into memory unless chartDir asks for PDF files.
func (l *lab) funnel(chartDir string) (*fs.Handler, *chart.Surfaces, error) {
	var renderer chart.Renderer = chart.NewMemoryRenderer()
	if chartDir != "" {
		pdf, err := chart.NewPDFRenderer(chartDir)
		if err != nil {
			return nil, nil, err
		}
		renderer = pdf
	}
	surfaces := chart.NewSurfaces(renderer)

	h, err := fs.NewHandler(fs.HandlerOptions{AppConfig: l.cfg, Logger: l.logger, Surfaces: surfaces})
	if err != nil {
		return nil, nil, err
	}
	return h, surfaces, nil
}

// initiatives returns the handler and a cleanup func for the board store.
func (l *lab) initiatives() (*ip.Handler, func(), error) {
	store, client, err := ip.NewBoardStore(l.cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {}
	if client != nil {
		cleanup = func() { _ = client.Close() }
	}

	h, err := ip.NewHandler(ip.HandlerOptions{AppConfig: l.cfg, Logger: l.logger, Store: store})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return h, cleanup, nil
}
