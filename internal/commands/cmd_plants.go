package commands

import (
	"context"
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/astra-bc/kansatsu/internal/app"
	"github.com/astra-bc/kansatsu/internal/core/format"
	"github.com/astra-bc/kansatsu/internal/core/record"
	"github.com/astra-bc/kansatsu/pkg/iojson"
)

type PlantsCmd struct {
	flags *Flags
	app   *app.App

	// flags
	jsonOutput bool
}

// NewPlantsCmd creates a new plants command
func NewPlantsCmd(flags *Flags, app *app.App) *PlantsCmd {
	return &PlantsCmd{flags: flags, app: app}
}

// Register adds the plants command to the application
func (cmd *PlantsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "plants",
		Usage:     "List the observed plants",
		UsageText: "kansatsu plants [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *PlantsCmd) run(ctx context.Context, c *cli.Command) error {
	plants, err := cmd.app.API.Plants(ctx)
	if err != nil {
		return fmt.Errorf("list plants: %w", err)
	}

	slices.SortStableFunc(plants, func(a, b record.Plant) int {
		return a.DisplayOrder - b.DisplayOrder
	})

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, p := range plants {
			if err := iojson.WriteLine(out, p); err != nil {
				return fmt.Errorf("encode plant: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tPLANT")
	for _, p := range plants {
		_, _ = fmt.Fprintf(w, "%d\t%s %s\n", p.ID, format.PlantIcon(p.Name), format.PlantNameWithFurigana(p.Name))
	}
	return w.Flush()
}
