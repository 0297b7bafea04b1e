package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/files"
	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/pipeline"
)

// downloadFlags are shared by the download and get commands.
func downloadFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output directory (defaults to output_dir from the config)",
		},
		&cli.BoolFlag{
			Name:  "metadata",
			Usage: "Write a .meta.json sidecar per log",
			Value: true,
		},
		&cli.BoolFlag{
			Name:  "summary",
			Usage: "Write an aggregate download-summary.json",
			Value: true,
		},
		&cli.BoolFlag{
			Name:  "compress",
			Usage: "Gzip log bodies (.log.gz)",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Log each file as it is written",
		},
	}
}

func buildDownloadRequest(c *cli.Command, defaultDir string) pipeline.DownloadRequest {
	outputDir := c.String("output")
	if outputDir == "" {
		outputDir = defaultDir
	}
	return pipeline.DownloadRequest{
		OutputDir:     outputDir,
		WriteMetadata: c.Bool("metadata"),
		WriteSummary:  c.Bool("summary"),
		Compress:      c.Bool("compress"),
		Verbose:       c.Bool("verbose"),
	}
}

// DownloadCommand creates the download command
func DownloadCommand() *cli.Command {
	return &cli.Command{
		Name:  "download",
		Usage: "Search debug logs and save the matching ones to disk",
		Flags: append(searchFlags(), downloadFlags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			patterns, err := queryPatterns(c)
			if err != nil {
				return err
			}
			if len(patterns) != 1 {
				return fmt.Errorf("download supports exactly one --query")
			}

			client, cfg, err := newClient(c)
			if err != nil {
				return err
			}

			sreq := buildSearchRequest(c)
			sreq.Query = patterns[0]

			downloader := pipeline.NewDownloader(client, files.NewDiskStore())
			report, err := downloader.SearchAndDownload(ctx, sreq, buildDownloadRequest(c, cfg.OutputDir))
			if err != nil {
				return err
			}

			printDownloadReport(report)
			return nil
		},
	}
}

func printDownloadReport(report *pipeline.DownloadReport) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("Download report for %q", report.Query)))
	fmt.Printf("Logs searched:  %d\n", report.LogsSearched)
	fmt.Printf("Logs matched:   %d\n", report.LogsMatched)
	fmt.Printf("Downloaded:     %d\n", report.Downloaded)
	fmt.Printf("Estimated size: %s\n", formatBytes(report.EstimatedBytes))

	if report.Downloaded > 0 {
		fmt.Printf("Output:         %s\n", report.OutputDir)
	}
	if len(report.FailedIDs) > 0 {
		fmt.Println(errorStyle.Render(fmt.Sprintf("Failed ids (%d):", len(report.FailedIDs))))
		for _, id := range report.FailedIDs {
			fmt.Printf("  %s\n", id)
		}
	}
	if report.LogsMatched == 0 {
		fmt.Println(noDataStyle.Render("Nothing matched; no files were written"))
	}
}
