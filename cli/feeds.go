package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"gator/app"
)

func addFeedCmd() *cli.Command {
	return &cli.Command{
		Name:      "addfeed",
		Usage:     "Add a feed and follow it (requires login)",
		ArgsUsage: "<name> <url>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("usage: %s addfeed <name> <url>", c.App.Name)
			}
			name, url := c.Args().Get(0), c.Args().Get(1)

			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			user, err := s.currentUser(c.Context)
			if err != nil {
				return err
			}

			feed, err := app.NewSubscriptions(s.repo).AddFeed(c.Context, user, name, url)
			if err != nil {
				return err
			}
			fmt.Printf("* Feed:    %s\n", feed.Name)
			fmt.Printf("* URL:     %s\n", feed.URL)
			fmt.Printf("* Feed ID: %s\n", feed.ID)
			fmt.Printf("%s now follows %s\n", user.Name, feed.Name)
			return nil
		},
	}
}

func feedsCmd() *cli.Command {
	return &cli.Command{
		Name:  "feeds",
		Usage: "List every feed and who added it",
		Action: func(c *cli.Context) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			feeds, err := s.repo.ListFeeds(c.Context)
			if err != nil {
				return err
			}
			for _, f := range feeds {
				fmt.Printf("* %s\n", f.Name)
				fmt.Printf("  URL:      %s\n", f.URL)
				fmt.Printf("  Added by: %s\n", f.OwnerName)
			}
			return nil
		},
	}
}

func followCmd() *cli.Command {
	return &cli.Command{
		Name:      "follow",
		Usage:     "Follow an existing feed by URL (requires login)",
		ArgsUsage: "<url>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: %s follow <url>", c.App.Name)
			}
			url := c.Args().Get(0)

			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			user, err := s.currentUser(c.Context)
			if err != nil {
				return err
			}

			feed, err := app.NewSubscriptions(s.repo).Follow(c.Context, user, url)
			if err != nil {
				return err
			}
			fmt.Printf("%s now follows %s\n", user.Name, feed.Name)
			return nil
		},
	}
}

func followingCmd() *cli.Command {
	return &cli.Command{
		Name:  "following",
		Usage: "List the feeds you follow (requires login)",
		Action: func(c *cli.Context) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			user, err := s.currentUser(c.Context)
			if err != nil {
				return err
			}

			feeds, err := app.NewSubscriptions(s.repo).Following(c.Context, user)
			if err != nil {
				return err
			}
			for _, f := range feeds {
				fmt.Printf("* %s\n", f.Name)
			}
			return nil
		},
	}
}

func unfollowCmd() *cli.Command {
	return &cli.Command{
		Name:      "unfollow",
		Usage:     "Unfollow a feed by URL (requires login)",
		ArgsUsage: "<url>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: %s unfollow <url>", c.App.Name)
			}
			url := c.Args().Get(0)

			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			user, err := s.currentUser(c.Context)
			if err != nil {
				return err
			}

			if err := app.NewSubscriptions(s.repo).Unfollow(c.Context, user, url); err != nil {
				return err
			}
			fmt.Printf("%s unfollowed %s\n", user.Name, url)
			return nil
		},
	}
}
