// Package cli wires the command surface: thin dispatch over the app services,
// with the session file read at the start of every command.
package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func New() *cli.App {
	return &cli.App{
		Name:  "gator",
		Usage: "Multi-user RSS feed aggregator",
		Description: `gator lets several users subscribe to RSS feeds, polls those feeds in
the background and serves per-user reading views ordered by recency.

Connection details and the active user live in ~/.gatorconfig.json.`,
		Commands: []*cli.Command{
			registerCmd(),
			loginCmd(),
			usersCmd(),
			aggCmd(),
			addFeedCmd(),
			feedsCmd(),
			followCmd(),
			followingCmd(),
			unfollowCmd(),
			browseCmd(),
			resetCmd(),
		},
		CommandNotFound: func(c *cli.Context, command string) {
			fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
			os.Exit(1)
		},
	}
}
