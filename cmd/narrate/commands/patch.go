package commands

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/narrate/cmd/narrate/opts"
	"github.com/walteh/narrate/pkg/log"
	"github.com/walteh/narrate/pkg/nbpatch"
)

// NewPatchNotebookCmd creates the patch-notebook command
func NewPatchNotebookCmd(o *opts.RootOpts) *cobra.Command {
	var rulesFile string

	cmd := &cobra.Command{
		Use:   "patch-notebook <input.ipynb> <output.ipynb>",
		Short: "Rewrite a notebook's code cells with regular-expression rules",
		Long: `Patch-notebook applies an ordered list of rules to every code cell.
Each rule runs only when its guard text is present, and the notebook is
written back with every other field preserved.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rules, err := nbpatch.LoadRules(rulesFile)
			if err != nil {
				return errors.Errorf("loading rules: %w", err)
			}

			o.UserLogger.LogStateChange(fmt.Sprintf("Patching notebook: %s", args[0]))
			report, err := nbpatch.PatchFile(ctx, args[0], args[1], rules)
			if err != nil {
				return errors.Errorf("patching notebook: %w", err)
			}

			names := make([]string, 0, len(report.Counts))
			for k := range report.Counts {
				names = append(names, k)
			}
			slices.Sort(names)
			data := pterm.TableData{{"Rule", "Replacements"}}
			for _, n := range names {
				data = append(data, []string{n, strconv.Itoa(report.Counts[n])})
			}
			if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
				return errors.Errorf("rendering report: %w", err)
			}

			log.FromContext(ctx).Successf("%d of %d code cells changed, saved as %s",
				report.Changed(), len(report.Cells), report.Output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&rulesFile, "rules", "r", "", "YAML rules file")
	_ = cmd.MarkFlagRequired("rules")

	return cmd
}
