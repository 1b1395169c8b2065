package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/astra-bc/kansatsu/internal/printer"
	"github.com/astra-bc/kansatsu/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "kansatsu config validate [options]",
				Description: "Validates the configuration file: the API base URL, timeouts, notification durations and theme.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

type fieldMessage struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	findings, err := fieldMessages(cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath))
	if err != nil {
		return err
	}

	if cmd.format == "json" {
		out := struct {
			Valid  bool           `json:"valid"`
			Errors []fieldMessage `json:"errors,omitempty"`
		}{
			Valid:  len(findings) == 0,
			Errors: findings,
		}
		if err := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, out); err != nil {
			return err
		}
		if len(findings) > 0 {
			return cli.Exit("", 1)
		}
		return nil
	}

	for _, f := range findings {
		p.Errorf("%s: %s", f.Field, f.Message)
	}

	if len(findings) == 0 {
		p.Successf("Configuration is valid")
		return nil
	}

	p.Printf("")
	p.Errorf("%d error(s) found", len(findings))
	return cli.Exit("", 1)
}

// fieldMessages flattens criterio field errors. Any other error is returned
// as is.
func fieldMessages(err error) ([]fieldMessage, error) {
	if err == nil {
		return nil, nil
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return nil, fmt.Errorf("validate: %w", err)
	}

	out := make([]fieldMessage, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, fieldMessage{Field: fe.Field, Message: fe.Err.Error()})
	}
	return out, nil
}
