package commands

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/narrate/cmd/narrate/opts"
	"github.com/walteh/narrate/pkg/log"
	"github.com/walteh/narrate/pkg/project"
)

// NewContextCmd creates the context command
func NewContextCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Print the project context without writing a report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := o.Config
			console := log.FromContext(ctx)

			skipper := project.NewSkipper(cfg.ProjectRoot, cfg.CacheDirs, cfg.OutputPath(), cfg.AssetsPath(), cfg.LogPath())
			pctx, err := project.Scan(ctx, cfg.ProjectRoot, skipper)
			if err != nil {
				return errors.Errorf("building project context: %w", err)
			}
			console.Infof("%d eligible files under %s", pctx.EligibleFiles(), pctx.Root)

			pterm.DefaultSection.Println("Project context: " + pctx.Root)

			data := pterm.TableData{
				{"Field", "Count", "Values"},
				{"Eligible files", strconv.Itoa(pctx.EligibleFiles()), ""},
				row("Data files", relAll(pctx.Root, pctx.DataFiles)),
				row("Visualizations", relAll(pctx.Root, pctx.VisualizationFiles)),
				row("Model files", relAll(pctx.Root, pctx.ModelFiles)),
				row("Topics", pctx.Topics),
				row("Key terms", pctx.KeyTerms),
			}
			if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
				return errors.Errorf("rendering context: %w", err)
			}

			pterm.DefaultSection.WithLevel(2).Println("Structure")
			pterm.Println(project.Structure(ctx, skipper, project.DefaultStructureDepth))
			return nil
		},
	}

	return cmd
}

func row(name string, values []string) []string {
	return []string{name, strconv.Itoa(len(values)), strings.Join(values, "\n")}
}

func relAll(root string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			rel = p
		}
		out[i] = filepath.ToSlash(rel)
	}
	return out
}
