package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func registerCmd() *cli.Command {
	return &cli.Command{
		Name:      "register",
		Usage:     "Create a new user and log in as them",
		ArgsUsage: "<name>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: %s register <name>", c.App.Name)
			}
			name := c.Args().Get(0)

			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			user, err := s.repo.CreateUser(c.Context, name)
			if err != nil {
				return err
			}
			if err := s.cfg.SetUser(user.Name); err != nil {
				return err
			}
			fmt.Println("User has been created:")
			fmt.Printf("* ID:      %s\n", user.ID)
			fmt.Printf("* Name:    %s\n", user.Name)
			fmt.Printf("* Created: %s\n", user.CreatedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func loginCmd() *cli.Command {
	return &cli.Command{
		Name:      "login",
		Usage:     "Set the active user",
		ArgsUsage: "<name>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: %s login <name>", c.App.Name)
			}
			name := c.Args().Get(0)

			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			user, err := s.repo.GetUserByName(c.Context, name)
			if err != nil {
				return err
			}
			if err := s.cfg.SetUser(user.Name); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s\n", user.Name)
			return nil
		},
	}
}

func usersCmd() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "List all registered users",
		Action: func(c *cli.Context) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			users, err := s.repo.ListUsers(c.Context)
			if err != nil {
				return err
			}
			for _, u := range users {
				if u.Name == s.cfg.CurrentUserName {
					fmt.Printf("* %s (current)\n", u.Name)
				} else {
					fmt.Printf("* %s\n", u.Name)
				}
			}
			return nil
		},
	}
}

func resetCmd() *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Delete all users, feeds, follows and posts",
		Action: func(c *cli.Context) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.repo.DeleteAllUsers(c.Context); err != nil {
				return err
			}
			fmt.Println("Database has been reset")
			return nil
		},
	}
}
