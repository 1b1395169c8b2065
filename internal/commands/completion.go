package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/astra-bc/kansatsu/internal/app"
	"github.com/astra-bc/kansatsu/internal/core/format"
)

// RecordIDCompleter returns a ShellCompleteFunc that suggests record ids,
// each with its date, as positional completions.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func RecordIDCompleter(a *app.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		records, err := a.API.Records(ctx)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, r := range records {
			_, _ = fmt.Fprintf(w, "%d:%s\n", r.ID, format.FormatDate(r.Date))
		}
	}
}
