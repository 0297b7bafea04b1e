package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/files"
	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/pipeline"
)

// GetCommand creates the get command, downloading logs by explicit id
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Download specific logs by id, no search involved",
		ArgsUsage: "ID [ID...]",
		Flags:     downloadFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			ids := c.Args().Slice()
			if len(ids) == 0 {
				return fmt.Errorf("at least one log id is required")
			}

			client, cfg, err := newClient(c)
			if err != nil {
				return err
			}

			downloader := pipeline.NewDownloader(client, files.NewDiskStore())
			report, err := downloader.DownloadByIDs(ctx, ids, buildDownloadRequest(c, cfg.OutputDir))
			if err != nil {
				return err
			}

			printDownloadReport(report)
			return nil
		},
	}
}
