package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tsawler/docreview/logging"
	"github.com/tsawler/docreview/report"
)

func newReportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "report FILE",
		Short: "Render an HTML review page with the gaps highlighted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getAppContext(cmd)
			if err != nil {
				return err
			}
			rv, err := app.engine(nil).Review(args[0], nil)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			page := report.Page{Title: filepath.Base(args[0]), Structure: rv.Structure, Gaps: rv.Gaps}
			if err := report.Render(&buf, page); err != nil {
				return err
			}

			if outPath == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			app.logger.Info("report written", logging.String("path", outPath))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "file", "f", "", "write the report to this file instead of stdout")
	return cmd
}
