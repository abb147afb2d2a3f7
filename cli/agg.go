package cli

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"gator/adapter/rss"
	"gator/app"
)

func aggCmd() *cli.Command {
	return &cli.Command{
		Name:      "agg",
		Usage:     "Run the aggregation loop until interrupted",
		ArgsUsage: "<interval>",
		Description: `Polls one feed per tick, starting with feeds that have never been
fetched, then the feed that has gone longest without a fetch.

The interval is a duration like 1h30m, 45s or 3500ms.`,
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: %s agg <interval>", c.App.Name)
			}
			interval, err := parseInterval(c.Args().Get(0))
			if err != nil {
				return err
			}

			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app.NewScheduler(s.repo, rss.NewHTTPFetcher(), interval).Run(ctx)
			return nil
		},
	}
}

// parseInterval validates the tick period. Bare numbers ("45") carry no unit
// and are rejected, as is anything that does not come out strictly positive.
func parseInterval(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: use forms like 1h30m, 45s or 3500ms", raw)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid duration %q: must be positive", raw)
	}
	return d, nil
}
