package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// TestCommand creates the test command, verifying connectivity
func TestCommand() *cli.Command {
	return &cli.Command{
		Name:  "test",
		Usage: "Verify the instance URL and session token work",
		Action: func(ctx context.Context, c *cli.Command) error {
			client, cfg, err := newClient(c)
			if err != nil {
				return err
			}

			if !client.TestConnection(ctx) {
				return fmt.Errorf("connection to %s failed; check the session token", cfg.InstanceURL)
			}
			fmt.Printf("Connected to %s (API v%s)\n", cfg.InstanceURL, cfg.APIVersion)
			return nil
		},
	}
}
