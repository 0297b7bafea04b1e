package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// CountCommand creates the count command
func CountCommand() *cli.Command {
	return &cli.Command{
		Name:  "count",
		Usage: "Count debug logs matching a filter",
		Flags: filterFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			client, _, err := newClient(c)
			if err != nil {
				return err
			}

			count, exact, err := client.CountLogs(ctx, buildFilter(c))
			if err != nil {
				return err
			}

			if exact {
				fmt.Printf("%d logs\n", count)
			} else {
				// The fallback reports one sample page's length, so a
				// full page means "at least this many".
				fmt.Printf("~%d logs (estimate, aggregate count unavailable)\n", count)
			}
			return nil
		},
	}
}
