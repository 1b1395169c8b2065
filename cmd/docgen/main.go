// Command docgen generates CLI reference documentation from the kansatsu
// command definitions. Output is written to docs/cli-reference.md.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	docs "github.com/urfave/cli-docs/v3"
	"github.com/urfave/cli/v3"

	"github.com/astra-bc/kansatsu/internal/app"
	"github.com/astra-bc/kansatsu/internal/commands"
)

func main() {
	flags := &commands.Flags{}
	kApp := &app.App{}

	root := &cli.Command{
		Name:      "kansatsu",
		Usage:     "Record daily plant observations",
		UsageText: "kansatsu [global options] command [command options]",
		Description: `Kansatsu is a client for the plant observation diary API.

Each day's record holds the weather, the temperature, and for every plant its
height, a comment and a photo.

Run 'kansatsu record new' to write today's record.
Run 'kansatsu records ls' to browse past ones.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("KANSATSU_LOG_LEVEL"),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "path to log file, empty logs to stderr",
				Sources: cli.EnvVars("KANSATSU_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Sources: cli.EnvVars("KANSATSU_CONFIG"),
				Value:   commands.DefaultConfigPath(),
			},
			&cli.StringFlag{
				Name:    "api-base",
				Usage:   "base URL of the observation API (overrides config)",
				Sources: cli.EnvVars("KANSATSU_API_BASE"),
			},
		},
	}

	root = commands.NewPlantsCmd(flags, kApp).Register(root)
	root = commands.NewRecordsCmd(flags, kApp).Register(root)
	root = commands.NewRecordNewCmd(flags, kApp).Register(root)
	root = commands.NewUploadCmd(flags, kApp).Register(root)
	root = commands.NewValidateCmd(flags, kApp).Register(root)
	root = commands.NewConfigValidateCmd(flags).Register(root)

	md, err := docs.ToMarkdown(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating docs: %v\n", err)
		os.Exit(1)
	}

	outPath := "docs/cli-reference.md"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating %s: %v\n", filepath.Dir(outPath), err)
		os.Exit(1)
	}

	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
