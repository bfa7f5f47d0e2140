package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	docreview "github.com/tsawler/docreview"
	"github.com/tsawler/docreview/model"
)

type applyResult struct {
	*docreview.ApplyResult
}

func (a applyResult) renderText(w io.Writer) error {
	out := a.Outcome
	fmt.Fprintf(w, "written %s: %d paragraphs updated, %d preserved, %d cells updated, %d headers restored\n",
		out.Mode, out.ParagraphsUpdated, out.ParagraphsPreserved, out.CellsUpdated, out.HeadersRestored)
	for _, warn := range a.Warnings {
		fmt.Fprintf(w, "warning (%s): %s\n", warn.Code, warn.Message)
	}
	fmt.Fprintf(w, "%d gaps remain\n", a.Gaps.TotalGaps)
	writeGaps(w, a.Gaps)
	return nil
}

// readEdited loads an edited structure. The file may hold the structure
// itself or a whole review, as printed by "review -o json" for one file.
func readEdited(path string) (*model.DocumentStructure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading edited structure: %w", err)
	}

	var wrapped struct {
		Structure *model.DocumentStructure `json:"document_structure"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Structure != nil {
		return wrapped.Structure, nil
	}

	var ds model.DocumentStructure
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decoding edited structure %s: %w", path, err)
	}
	return &ds, nil
}

func newApplyCmd() *cobra.Command {
	var editedPath, textPath string

	cmd := &cobra.Command{
		Use:   "apply FILE",
		Short: "Write an edited structure or plain text back into a document",
		Long: "Apply writes the edited structure into FILE in place, keeping section\n" +
			"headings and confirmed table names, and prints the review of the result.\n" +
			"With --text, FILE is replaced by one paragraph per line of the text file.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getAppContext(cmd)
			if err != nil {
				return err
			}
			engine := app.engine(nil)

			if textPath != "" {
				text, err := os.ReadFile(textPath)
				if err != nil {
					return fmt.Errorf("reading text: %w", err)
				}
				rv, err := engine.ApplyText(args[0], string(text))
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), app.output, reviewList{{Path: args[0], Review: rv}})
			}

			edited, err := readEdited(editedPath)
			if err != nil {
				return err
			}
			res, err := engine.Apply(args[0], edited)
			if errors.Is(err, docreview.ErrNoEdits) {
				return fmt.Errorf("%s holds no structure", editedPath)
			}
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), app.output, applyResult{res})
		},
	}
	cmd.Flags().StringVar(&editedPath, "edited", "", "JSON file holding the edited document structure")
	cmd.Flags().StringVar(&textPath, "text", "", "plain text file to save as the document")
	cmd.MarkFlagsOneRequired("edited", "text")
	cmd.MarkFlagsMutuallyExclusive("edited", "text")
	return cmd
}
