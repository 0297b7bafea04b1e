package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/Sebasslaf/salesforce-debug-log-downloader/cmd"
	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/config"
	applog "github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/log"
)

func main() {
	app := &cli.Command{
		Name:  "sf-log-downloader",
		Usage: "Search and download Salesforce Apex debug logs",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: getDefaultConfigPathOrExit(),
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			applog.SetGlobalDebug(c.Bool("debug"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmd.InitCommand(),
			cmd.TestCommand(),
			cmd.SearchCommand(),
			cmd.DownloadCommand(),
			cmd.GetCommand(),
			cmd.CountCommand(),
			cmd.VersionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func getDefaultConfigPathOrExit() string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		log.Fatalf("Failed to get default config path: %v", err)
	}
	return path
}
