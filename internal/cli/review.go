package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	docreview "github.com/tsawler/docreview"
	"github.com/tsawler/docreview/model"
)

// fileReview is one reviewed document.
type fileReview struct {
	Path   string            `json:"path"`
	Review *docreview.Review `json:"review"`
}

type reviewList []fileReview

func (l reviewList) renderText(w io.Writer) error {
	for i, fr := range l {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s: %d tables, %d materials, %d equipment, %d gaps\n",
			fr.Path,
			len(fr.Review.Structure.Tables),
			len(fr.Review.StructuredData.Materials),
			len(fr.Review.StructuredData.Equipment),
			fr.Review.Gaps.TotalGaps)
		writeGaps(w, fr.Review.Gaps)
	}
	return nil
}

type structureResult struct {
	*model.DocumentStructure
}

func (s structureResult) renderText(w io.Writer) error {
	for i := range s.Tables {
		t := &s.Tables[i]
		fmt.Fprintf(w, "## %s (%s, %s)\n\n", t.Name, t.ID, t.NameSource)
		fmt.Fprintln(w, t.ToMarkdown())
	}
	return nil
}

type gapResult struct {
	*model.GapReport
}

func (g gapResult) renderText(w io.Writer) error {
	fmt.Fprintf(w, "%d gaps\n", g.TotalGaps)
	writeGaps(w, g.GapReport)
	return nil
}

func writeGaps(w io.Writer, g *model.GapReport) {
	for _, m := range g.Materials {
		fmt.Fprintf(w, "  material %q: %s %s\n", m.MaterialName, m.Field, m.Status)
	}
	for _, e := range g.Equipment {
		fmt.Fprintf(w, "  equipment %q: %s %s\n", e.EquipmentName, e.Field, e.Status)
	}
	for _, c := range g.TableCells {
		fmt.Fprintf(w, "  %s\n", c.Description)
	}
}

// readPreserved loads preserved table metadata from path. An empty path
// means none.
func readPreserved(path string) (model.PreservedTableMetadata, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preserved metadata: %w", err)
	}
	return model.DecodePreserved(data), nil
}

func newReviewCmd() *cobra.Command {
	var preservedPath string

	cmd := &cobra.Command{
		Use:   "review FILE...",
		Short: "Review one or more documents",
		Long: "Review reports the structure, extracted entities and gaps of each document.\n" +
			"Documents are reviewed concurrently, up to cli.concurrency at a time.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getAppContext(cmd)
			if err != nil {
				return err
			}
			preserved, err := readPreserved(preservedPath)
			if err != nil {
				return err
			}

			engine := app.engine(nil)
			results := make(reviewList, len(args))

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(app.cfg.CLI.Concurrency)
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					rv, err := engine.Review(path, preserved)
					if err != nil {
						return err
					}
					results[i] = fileReview{Path: path, Review: rv}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), app.output, results)
		},
	}
	cmd.Flags().StringVar(&preservedPath, "preserved", "", "JSON file of preserved table metadata")
	return cmd
}

func newStructureCmd() *cobra.Command {
	var preservedPath string

	cmd := &cobra.Command{
		Use:   "structure FILE",
		Short: "Print the paragraphs and named tables of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getAppContext(cmd)
			if err != nil {
				return err
			}
			preserved, err := readPreserved(preservedPath)
			if err != nil {
				return err
			}
			ds, err := app.engine(nil).Structure(args[0], preserved)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), app.output, structureResult{ds})
		},
	}
	cmd.Flags().StringVar(&preservedPath, "preserved", "", "JSON file of preserved table metadata")
	return cmd
}

func newGapsCmd() *cobra.Command {
	var preservedPath string

	cmd := &cobra.Command{
		Use:   "gaps FILE",
		Short: "Print the gap report of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getAppContext(cmd)
			if err != nil {
				return err
			}
			preserved, err := readPreserved(preservedPath)
			if err != nil {
				return err
			}
			rv, err := app.engine(nil).Review(args[0], preserved)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), app.output, gapResult{rv.Gaps})
		},
	}
	cmd.Flags().StringVar(&preservedPath, "preserved", "", "JSON file of preserved table metadata")
	return cmd
}
