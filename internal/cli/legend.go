package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/statmap/pkg/pipeline"
)

// legendCommand creates the legend command. It runs the same pipeline as
// classify but writes only the legend.
func (c *CLI) legendCommand() *cobra.Command {
	var flags mapFlags

	cmd := &cobra.Command{
		Use:   "legend",
		Short: "Render the legend of a map configuration",
		Example: `  statmap legend -c density.toml -f svg,pdf
  statmap legend -c pies.toml -o out/pies.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			return c.runLegend(cmd, opts, &flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *CLI) runLegend(cmd *cobra.Command, opts pipeline.Options, flags *mapFlags) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done("Rendered legend")

	paths, err := writeArtifacts(flags.basePath(), res.Artifacts)
	if err != nil {
		return err
	}
	printSuccess("Rendered %s legend", res.Map.Legend.Layout)
	printMapStats(res.Stats.Regions, res.Stats.NoData, classCount(res), res.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
