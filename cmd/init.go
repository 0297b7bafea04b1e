package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/config"
)

// InitCommand creates the init command
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a commented configuration template",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing configuration file",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			configPath := c.String("config")

			if _, err := os.Stat(configPath); err == nil && !c.Bool("force") {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", configPath)
			}

			if err := config.SaveTemplateConfig(configPath); err != nil {
				return err
			}
			fmt.Printf("Wrote config template to %s\n", configPath)
			fmt.Println("Fill in instance_url and session_token, or set SF_INSTANCE_URL and SF_SESSION_TOKEN.")
			return nil
		},
	}
}
