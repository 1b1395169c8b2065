package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/astra-bc/kansatsu/internal/app"
	"github.com/astra-bc/kansatsu/pkg/iojson"
)

type UploadCmd struct {
	flags *Flags
	app   *app.App

	// flags
	jsonOutput bool
}

// NewUploadCmd creates a new upload command
func NewUploadCmd(flags *Flags, app *app.App) *UploadCmd {
	return &UploadCmd{flags: flags, app: app}
}

// Register adds the upload command to the application
func (cmd *UploadCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "upload",
		Usage:     "Upload plant photos",
		UsageText: "kansatsu upload <file>... [--json]",
		Description: `Uploads one or more images and prints the stored filename and URL of each.
Images must be image files of at most 3MB.`,
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

func (cmd *UploadCmd) run(ctx context.Context, c *cli.Command) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("at least one file is required")
	}

	out := c.Root().Writer
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if !cmd.jsonOutput {
		_, _ = fmt.Fprintln(w, "FILE\tFILENAME\tURL")
	}

	for _, path := range paths {
		up, err := cmd.app.UploadImage(ctx, path)
		if err != nil {
			_ = w.Flush()
			return err
		}

		if cmd.jsonOutput {
			if err := iojson.WriteLine(out, up); err != nil {
				return fmt.Errorf("encode upload: %w", err)
			}
			continue
		}

		url := up.URL
		if url == "" {
			url = cmd.app.API.ImageURL(up.Filename)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", path, up.Filename, cmd.app.API.URL(url))
	}

	if cmd.jsonOutput {
		return nil
	}
	return w.Flush()
}
