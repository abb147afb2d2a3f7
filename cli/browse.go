package cli

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"gator/app"
)

const defaultBrowseLimit = 2

func browseCmd() *cli.Command {
	return &cli.Command{
		Name:      "browse",
		Usage:     "Show recent posts from feeds you follow (requires login)",
		ArgsUsage: "[limit]",
		Action: func(c *cli.Context) error {
			if c.NArg() > 1 {
				return fmt.Errorf("usage: %s browse [limit]", c.App.Name)
			}
			limit := defaultBrowseLimit
			if c.NArg() == 1 {
				var err error
				limit, err = parseLimit(c.Args().Get(0))
				if err != nil {
					return err
				}
			}

			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			user, err := s.currentUser(c.Context)
			if err != nil {
				return err
			}

			posts, err := app.NewSubscriptions(s.repo).Browse(c.Context, user, limit)
			if err != nil {
				return err
			}

			fmt.Printf("Found %d posts for %s:\n", len(posts), user.Name)
			for _, p := range posts {
				published := "unknown date"
				if p.PublishedAt != nil {
					published = p.PublishedAt.Format("Mon, 02 Jan 2006 15:04")
				}
				fmt.Printf("%s from %s\n", published, p.FeedName)
				fmt.Printf("--- %s ---\n", p.Title)
				fmt.Printf("    %s\n", p.Description)
				fmt.Printf("Link: %s\n", p.URL)
				fmt.Println("=====================================")
			}
			return nil
		},
	}
}

// parseLimit rejects non-numeric and non-positive limits outright rather
// than clamping them.
func parseLimit(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid limit %q: expected a positive number", raw)
	}
	return n, nil
}
