package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/tsawler/docreview/logging"
	"github.com/tsawler/docreview/metrics"
	"github.com/tsawler/docreview/server"
)

func newServeCmd() *cobra.Command {
	var addr, root string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reviews and edits of the documents in a directory over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := getAppContext(cmd)
			if err != nil {
				return err
			}
			cfg := app.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}
			if root != "" {
				cfg.DocumentRoot = root
			}
			gin.SetMode(cfg.Mode)

			opts := []server.Option{server.WithLogger(app.logger.Named("http"))}
			var rec metrics.Recorder
			if app.cfg.Metrics.Enabled {
				collector := metrics.NewCollector(metrics.CollectorConfig{
					EnableProcessMetrics: true,
					EnableGoMetrics:      true,
				})
				rec = collector
				opts = append(opts, server.WithMetrics(app.cfg.Metrics.Path, collector.Handler()))
			}

			srv := server.New(cfg, app.engine(rec), opts...)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.Run(ctx); err != nil {
				app.logger.Error("server stopped", logging.Err(err))
				return err
			}
			app.logger.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVar(&root, "root", "", "document directory (overrides server.document_root)")
	return cmd
}
