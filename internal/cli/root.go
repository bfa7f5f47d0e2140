// Package cli implements the docreview command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	docreview "github.com/tsawler/docreview"
	"github.com/tsawler/docreview/config"
	"github.com/tsawler/docreview/logging"
	"github.com/tsawler/docreview/metrics"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type rootOptions struct {
	configPath string
	logLevel   string
	output     string
}

// appContext carries what the subcommands share. It is built once the
// flags are parsed.
type appContext struct {
	cfg    *config.Config
	logger logging.Logger
	output string
}

type appContextKey struct{}

// NewRootCommand creates the root command with its persistent flags and all
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "docreview",
		Short: "Review DOCX batch records for missing and pending information",
		Long: "docreview reads DOCX documents, names their tables, extracts materials and\n" +
			"equipment, and reports the gaps a reviewer has to close. Edited structures\n" +
			"can be written back without losing the section headings or table names.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path (default: DOCREVIEW_* environment only)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.output, "output", "o", "", "output format (json, yaml, text)")

	cmd.AddCommand(
		newReviewCmd(),
		newStructureCmd(),
		newGapsCmd(),
		newApplyCmd(),
		newReportCmd(),
		newServeCmd(),
		newHeuristicsCmd(),
		newVersionCmd(),
	)
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	app := &appContext{cfg: cfg, logger: logger, output: strings.ToLower(cfg.CLI.Output)}
	cmd.SetContext(context.WithValue(cmd.Context(), appContextKey{}, app))
	return nil
}

// loadConfig loads the configuration and lets flags override it.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}

	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.output != "" {
		cfg.CLI.Output = opts.output
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getAppContext(cmd *cobra.Command) (*appContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New("command context is nil")
	}
	app, ok := ctx.Value(appContextKey{}).(*appContext)
	if !ok || app == nil {
		return nil, errors.New("command was run without initialization")
	}
	return app, nil
}

// engine builds a review engine from the loaded configuration.
func (a *appContext) engine(rec metrics.Recorder) *docreview.Engine {
	return docreview.NewEngine(docreview.Config{
		Vocabulary: a.cfg.Heuristics,
		Logger:     a.logger,
		Metrics:    rec,
	})
}

// Execute runs the command tree.
func Execute() error {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %s\n", err)
		return err
	}
	return nil
}
