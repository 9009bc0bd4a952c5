package commands

import (
	"slices"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/narrate/cmd/narrate/opts"
	"github.com/walteh/narrate/pkg/generate"
	"github.com/walteh/narrate/pkg/log"
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the project summary report",
		Long: `Generate walks the project and writes a paginated PDF report.
It will:
1. Build the project context (data files, visualizations, models, topics)
2. Narrate the key files first
3. Narrate the Code, Data and Output directories and anything left over
4. Write the conclusion and recommendations`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunGenerate(cmd, o)
		},
	}

	return cmd
}

// RunGenerate runs the report pipeline. It is also the root command's action.
func RunGenerate(cmd *cobra.Command, o *opts.RootOpts) error {
	ctx := cmd.Context()
	console := log.FromContext(ctx)

	console.Header("generating report for " + o.Config.ProjectRoot)

	summarizer, err := o.Summarizer(ctx)
	if err != nil {
		return errors.Errorf("creating summarizer: %w", err)
	}
	if !summarizer.Available() {
		console.Warning("No summarization service configured, summaries will be placeholders")
	}

	res, err := generate.Run(ctx, generate.Options{
		Config:     o.Config,
		Summarizer: summarizer,
		Console:    console,
	})
	if err != nil {
		return err
	}

	console.LogNewline()
	if err := renderCounts(res.Processed.CountByKind()); err != nil {
		return err
	}
	console.Successf("Report successfully saved to %s", res.Output)
	return nil
}

func renderCounts(counts map[string]int) error {
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)

	data := pterm.TableData{{"Kind", "Files"}}
	for _, k := range kinds {
		data = append(data, []string{k, strconv.Itoa(counts[k])})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return errors.Errorf("rendering summary: %w", err)
	}
	return nil
}
