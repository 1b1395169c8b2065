package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/astra-bc/kansatsu/internal/app"
	"github.com/astra-bc/kansatsu/internal/core/format"
	"github.com/astra-bc/kansatsu/internal/core/record"
	"github.com/astra-bc/kansatsu/internal/core/styles"
	"github.com/astra-bc/kansatsu/internal/core/validate"
	"github.com/astra-bc/kansatsu/internal/printer"
	"github.com/astra-bc/kansatsu/pkg/iojson"
)

type RecordNewCmd struct {
	flags *Flags
	app   *app.App

	// flags
	reader     iojson.FileReader[validate.RecordForm]
	update     int64
	date       string
	jsonOutput bool
}

// NewRecordNewCmd creates a new record new command
func NewRecordNewCmd(flags *Flags, app *app.App) *RecordNewCmd {
	return &RecordNewCmd{flags: flags, app: app}
}

// Register adds the record command to the application
func (cmd *RecordNewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "record",
		Usage: "Write today's observation",
		Commands: []*cli.Command{
			{
				Name:      "new",
				Usage:     "Record weather, temperature and plant growth",
				UsageText: "kansatsu record new [-f form.json] [--update <id> --date YYYY-MM-DD]",
				Description: `Opens an interactive form for today's observation: the weather,
the temperature, and for each plant its height, a comment and a photo.

When stdin is not a terminal, or --file is given, the form is read as JSON
instead:

  {"weather": "晴れ", "temperature": "23",
   "plantRecords": {"1": {"height": "12", "image": {"path": "leaf.jpg"}}}}

Use --update to overwrite an existing record instead of creating one.`,
				Flags: []cli.Flag{
					cmd.reader.Flag(),
					&cli.Int64Flag{
						Name:        "update",
						Usage:       "id of an existing record to overwrite",
						Destination: &cmd.update,
					},
					&cli.StringFlag{
						Name:        "date",
						Usage:       "move the updated record to this date (YYYY-MM-DD), requires --update",
						Destination: &cmd.date,
					},
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "print the API reply as JSON",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

func (cmd *RecordNewCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.date != "" && cmd.update <= 0 {
		return errors.New("--date can only be used with --update")
	}

	p := printer.Ctx(ctx)

	var (
		form validate.RecordForm
		err  error
	)
	if c.IsSet("file") || !term.IsTerminal(int(os.Stdin.Fd())) {
		form, err = cmd.reader.Read()
		if err != nil {
			return fmt.Errorf("read form: %w", err)
		}
	} else {
		form, err = cmd.runForm(ctx)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	var saved record.Saved
	if cmd.update > 0 {
		saved, err = cmd.app.UpdateRecord(ctx, cmd.update, cmd.date, form)
	} else {
		saved, err = cmd.app.SubmitRecord(ctx, form)
	}
	if err != nil {
		var fieldErrs criterio.FieldErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				p.Errorf("%s: %s", fe.Field, styles.FieldErrorStyle.Render(fe.Err.Error()))
			}
			return cli.Exit("", 1)
		}
		return err
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, saved)
	}
	return nil
}

// plantFields holds the raw inputs of one plant while the form runs.
type plantFields struct {
	plant   record.Plant
	height  string
	comment string
	image   string
}

func (cmd *RecordNewCmd) runForm(ctx context.Context) (validate.RecordForm, error) {
	plants, err := cmd.app.API.Plants(ctx)
	if err != nil {
		return validate.RecordForm{}, fmt.Errorf("list plants: %w", err)
	}

	printer.Ctx(ctx).Printf("%s", format.FormatCurrentDate(time.Now()))

	var form validate.RecordForm

	weatherOpts := make([]huh.Option[string], 0, len(record.Weathers))
	for _, w := range record.Weathers {
		label := format.WeatherIcon(string(w)) + " " + format.WeatherLabel(string(w))
		weatherOpts = append(weatherOpts, huh.NewOption(label, string(w)))
	}

	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("天気（てんき）").
				Options(weatherOpts...).
				Value(&form.Weather),
			huh.NewInput().
				Title("気温（きおん）").
				Description("℃").
				Validate(requiredTemperature).
				Value(&form.Temperature),
		),
	}

	fields := make([]*plantFields, 0, len(plants))
	for _, plant := range plants {
		pf := &plantFields{plant: plant}
		fields = append(fields, pf)

		groups = append(groups, huh.NewGroup(
			huh.NewNote().
				Title(format.PlantIcon(plant.Name)+" "+format.PlantNameWithFurigana(plant.Name)),
			huh.NewInput().
				Title("高さ（たかさ）").
				Description("cm").
				Validate(validate.Height).
				Value(&pf.height),
			huh.NewText().
				Title("コメント").
				Value(&pf.comment),
			huh.NewInput().
				Title("写真（しゃしん）").
				Description("画像ファイルのパス").
				Validate(validImagePath).
				Value(&pf.image),
		))
	}

	if err := huh.NewForm(groups...).Run(); err != nil {
		return validate.RecordForm{}, err
	}

	form.PlantRecords = make(map[string]validate.PlantForm, len(fields))
	for _, pf := range fields {
		entry := validate.PlantForm{Height: pf.height, Comment: pf.comment}
		if pf.image != "" {
			entry.Image = &validate.File{Path: pf.image}
		}
		form.PlantRecords[strconv.FormatInt(pf.plant.ID, 10)] = entry
	}

	return form, nil
}

func requiredTemperature(s string) error {
	if err := validate.Required(s, "気温"); err != nil {
		return err
	}
	return validate.Temperature(s)
}

func validImagePath(path string) error {
	if path == "" {
		return nil
	}
	file, err := app.ImageFile(path)
	if err != nil {
		return err
	}
	return validate.Image(&file)
}
