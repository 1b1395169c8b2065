package commands

import (
	"context"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/astra-bc/kansatsu/internal/app"
	"github.com/astra-bc/kansatsu/internal/core/styles"
	"github.com/astra-bc/kansatsu/internal/core/validate"
	"github.com/astra-bc/kansatsu/internal/printer"
	"github.com/astra-bc/kansatsu/pkg/iojson"
)

type ValidateCmd struct {
	flags *Flags
	app   *app.App

	// flags
	reader iojson.FileReader[validate.RecordForm]
	format string
}

// NewValidateCmd creates a new validate command
func NewValidateCmd(flags *Flags, app *app.App) *ValidateCmd {
	return &ValidateCmd{flags: flags, app: app}
}

// Register adds the validate command to the application
func (cmd *ValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "validate",
		Usage:       "Check a record form without saving it",
		UsageText:   "kansatsu validate [form.json] [--format text|json]",
		Description: "Reads a record form as JSON from the given file, --file or stdin and reports every invalid field.",
		Flags: []cli.Flag{
			cmd.reader.Flag(),
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ValidateCmd) run(ctx context.Context, c *cli.Command) error {
	cmd.reader.SetPath(c.Args().First())

	form, err := cmd.reader.Read()
	if err != nil {
		return fmt.Errorf("read form: %w", err)
	}

	res, err := cmd.app.ValidateForm(ctx, form)
	if err != nil {
		return err
	}

	if cmd.format == "json" {
		if err := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, res); err != nil {
			return err
		}
	} else {
		p := printer.Ctx(ctx)
		msgs := res.FieldMessages()
		fields := make([]string, 0, len(msgs))
		for f := range msgs {
			fields = append(fields, f)
		}
		slices.Sort(fields)

		for _, f := range fields {
			p.Errorf("%s: %s", f, styles.FieldErrorStyle.Render(msgs[f]))
		}
		if res.IsValid {
			p.Successf("Form is valid")
		}
	}

	if !res.IsValid {
		return cli.Exit("", 1)
	}
	return nil
}
