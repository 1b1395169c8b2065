package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/astra-bc/kansatsu/internal/app"
	"github.com/astra-bc/kansatsu/internal/core/format"
	"github.com/astra-bc/kansatsu/internal/core/record"
	"github.com/astra-bc/kansatsu/internal/core/styles"
	"github.com/astra-bc/kansatsu/internal/printer"
	"github.com/astra-bc/kansatsu/pkg/iojson"
)

type RecordsCmd struct {
	flags *Flags
	app   *app.App

	// flags
	jsonOutput bool
	forceDate  string
}

// NewRecordsCmd creates a new records command
func NewRecordsCmd(flags *Flags, app *app.App) *RecordsCmd {
	return &RecordsCmd{flags: flags, app: app}
}

// Register adds the records command and its subcommands to the application
func (cmd *RecordsCmd) Register(app *cli.Command) *cli.Command {
	jsonFlag := func() cli.Flag {
		return &cli.BoolFlag{
			Name:        "json",
			Usage:       "output as JSON",
			Destination: &cmd.jsonOutput,
		}
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "records",
		Usage: "Browse and manage daily observation records",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List all records, newest first",
				UsageText: "kansatsu records ls [--json]",
				Flags:     []cli.Flag{jsonFlag()},
				Action:    cmd.runList,
			},
			{
				Name:          "show",
				Usage:         "Show a single record",
				UsageText:     "kansatsu records show <id> [--json]",
				Flags:         []cli.Flag{jsonFlag()},
				ShellComplete: RecordIDCompleter(cmd.app),
				Action:        cmd.runShow,
			},
			{
				Name:      "today",
				Usage:     "Show today's record if it exists",
				UsageText: "kansatsu records today [--date YYYY-MM-DD] [--json]",
				Flags: []cli.Flag{
					jsonFlag(),
					&cli.StringFlag{
						Name:        "date",
						Usage:       "treat this date (YYYY-MM-DD) as today",
						Destination: &cmd.forceDate,
					},
				},
				Action: cmd.runToday,
			},
			{
				Name:          "delete",
				Aliases:       []string{"rm"},
				Usage:         "Delete a record",
				UsageText:     "kansatsu records delete <id>",
				ShellComplete: RecordIDCompleter(cmd.app),
				Action:        cmd.runDelete,
			},
		},
	})

	return app
}

func (cmd *RecordsCmd) runList(ctx context.Context, c *cli.Command) error {
	records, err := cmd.app.API.Records(ctx)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, r := range records {
			if err := iojson.WriteLine(out, r); err != nil {
				return fmt.Errorf("encode record: %w", err)
			}
		}
		return nil
	}

	if len(records) == 0 {
		printer.Ctx(ctx).Infof("No records yet")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDATE\tWEATHER\tTEMP\tPLANTS")
	for _, r := range records {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s %s\t%s℃\t%d\n",
			r.ID,
			format.FormatDate(r.Date),
			format.WeatherIcon(string(r.Weather)),
			format.WeatherToJapanese(string(r.Weather)),
			formatNumber(r.Temperature),
			len(r.Plants),
		)
	}
	return w.Flush()
}

func (cmd *RecordsCmd) runShow(ctx context.Context, c *cli.Command) error {
	id, err := parseRecordID(c.Args().First())
	if err != nil {
		return err
	}

	rec, err := cmd.app.API.Record(ctx, id)
	if err != nil {
		return fmt.Errorf("get record %d: %w", id, err)
	}

	return cmd.write(c.Root().Writer, rec)
}

func (cmd *RecordsCmd) runToday(ctx context.Context, c *cli.Command) error {
	today, err := cmd.app.API.TodayRecord(ctx, cmd.forceDate)
	if err != nil {
		return fmt.Errorf("get today's record: %w", err)
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, today)
	}

	if !today.Exists || today.Record == nil {
		printer.Ctx(ctx).Infof("No record for today yet. Run 'kansatsu record new' to add one")
		return nil
	}

	return cmd.write(c.Root().Writer, *today.Record)
}

func (cmd *RecordsCmd) runDelete(ctx context.Context, c *cli.Command) error {
	id, err := parseRecordID(c.Args().First())
	if err != nil {
		return err
	}

	if _, err := cmd.app.DeleteRecord(ctx, id); err != nil {
		return err
	}
	return nil
}

func (cmd *RecordsCmd) write(out io.Writer, rec record.Record) error {
	if cmd.jsonOutput {
		return iojson.WriteWith(out, out, rec)
	}
	renderRecord(out, cmd.app, rec)
	return nil
}

func renderRecord(out io.Writer, a *app.App, rec record.Record) {
	_, _ = fmt.Fprintln(out, styles.HeaderStyle.Render(fmt.Sprintf("%s %s", styles.IconCalendar, format.FormatDate(rec.Date))))
	_, _ = fmt.Fprintf(out, "  %s %s\n", format.WeatherIcon(string(rec.Weather)), format.WeatherLabel(string(rec.Weather)))
	_, _ = fmt.Fprintf(out, "  %s %s℃\n", styles.IconTemperature, formatNumber(rec.Temperature))
	if rec.CreatedAt != "" {
		_, _ = fmt.Fprintln(out, styles.MutedStyle.Render("  "+format.FormatDateTime(rec.CreatedAt)))
	}

	if len(rec.Plants) > 0 {
		_, _ = fmt.Fprintln(out, "  "+styles.DividerStyle.Render(strings.Repeat("─", 32)))
	}

	for _, p := range rec.Plants {
		name := p.TypeName()
		_, _ = fmt.Fprintf(out, "\n  %s %s\n", format.PlantIcon(name), styles.LabelStyle.Render(format.PlantNameWithFurigana(name)))
		if p.Height != nil {
			_, _ = fmt.Fprintf(out, "    高さ: %scm\n", formatNumber(*p.Height))
		}
		if p.Comment != "" {
			_, _ = fmt.Fprintf(out, "    %s %s\n", styles.IconComment, p.Comment)
		}
		if p.Image != nil && *p.Image != "" {
			_, _ = fmt.Fprintf(out, "    %s %s\n", styles.IconImage, a.API.URL(*p.Image))
		}
	}
}

// parseRecordID accepts "12" as well as the "12:<date>" form offered by
// shell completion.
func parseRecordID(arg string) (int64, error) {
	if arg == "" {
		return 0, errors.New("record id is required")
	}
	raw, _, _ := strings.Cut(arg, ":")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid record id %q", arg)
	}
	return id, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
