package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/astra-bc/kansatsu/internal/api"
	"github.com/astra-bc/kansatsu/internal/app"
	"github.com/astra-bc/kansatsu/internal/commands"
	"github.com/astra-bc/kansatsu/internal/core/config"
	"github.com/astra-bc/kansatsu/internal/core/logging"
	"github.com/astra-bc/kansatsu/internal/core/notify"
	"github.com/astra-bc/kansatsu/internal/core/styles"
	"github.com/astra-bc/kansatsu/internal/printer"
	"github.com/astra-bc/kansatsu/internal/tui"
	"github.com/astra-bc/kansatsu/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	exitCode := 0
	runErr := newRootCommand().Run(context.Background(), os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}

func newRootCommand() *cli.Command {
	var (
		logCloser func()
		kApp      = &app.App{}
	)

	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "kansatsu",
		Usage:     "Record daily plant observations",
		UsageText: "kansatsu [global options] command [command options]",
		Description: `Kansatsu is a client for the plant observation diary API.

Each day's record holds the weather, the temperature, and for every plant its
height, a comment and a photo.

Run 'kansatsu record new' to write today's record.
Run 'kansatsu records ls' to browse past ones.`,
		Version:               build(),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("KANSATSU_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file, empty logs to stderr",
				Sources:     cli.EnvVars("KANSATSU_LOG_FILE"),
				Value:       commands.DefaultLogFile(),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("KANSATSU_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "api-base",
				Usage:       "base URL of the observation API (overrides config)",
				Sources:     cli.EnvVars("KANSATSU_API_BASE"),
				Destination: &flags.APIBase,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if flags.APIBase != "" {
				overridden := cfg.WithAPIBase(flags.APIBase)
				cfg = &overridden
			}
			flags.Config = cfg

			// config validate reports the findings itself
			if err := cfg.ValidateDeep(flags.ConfigPath); err != nil && !validatesConfig(c.Args().Slice()) {
				return ctx, fmt.Errorf("invalid config: %w", err)
			}

			palette, ok := styles.GetPalette(cfg.Theme)
			if !ok {
				palette, _ = styles.GetPalette(styles.DefaultTheme)
			}
			styles.SetTheme(palette)

			client := api.New(cfg.APIBase, api.WithTimeout(cfg.RequestTimeout.Std()))

			queue := notify.NewQueue(notify.WithDurations(cfg.Notifications.Durations()))
			queue.Subscribe(tui.NewToastPrinter(os.Stderr).Print)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*kApp = *app.New(client, queue, cfg)

			ctx = printer.NewContext(ctx, printer.New(os.Stderr))
			if args := c.Args(); args.Present() {
				ctx = logging.WithCommand(ctx, args.First())
			}

			log.Debug().Str("api_base", cfg.APIBase).Msg("starting")
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			kApp.Close()

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	root = commands.NewPlantsCmd(flags, kApp).Register(root)
	root = commands.NewRecordsCmd(flags, kApp).Register(root)
	root = commands.NewRecordNewCmd(flags, kApp).Register(root)
	root = commands.NewUploadCmd(flags, kApp).Register(root)
	root = commands.NewValidateCmd(flags, kApp).Register(root)
	root = commands.NewConfigValidateCmd(flags).Register(root)

	return root
}

// validatesConfig reports whether args run the config validate command.
func validatesConfig(args []string) bool {
	return len(args) >= 2 && args[0] == "config" && args[1] == "validate"
}
