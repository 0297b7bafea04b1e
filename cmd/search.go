package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/pipeline"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search debug log bodies for text",
		Flags: searchFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			patterns, err := queryPatterns(c)
			if err != nil {
				return err
			}

			client, _, err := newClient(c)
			if err != nil {
				return err
			}

			searcher := pipeline.NewSearcher(client)
			reports, err := searcher.SearchMultiple(ctx, buildSearchRequest(c), patterns)
			if err != nil {
				return err
			}

			for _, report := range reports {
				printSearchReport(report)
			}
			return nil
		},
	}
}

func printSearchReport(report *pipeline.SearchReport) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("Results for %q", report.Query)))

	if len(report.Results) == 0 {
		fmt.Println(noDataStyle.Render(fmt.Sprintf("No matches in %d logs searched", report.LogsSearched)))
		return
	}

	totalMatches := 0
	for _, result := range report.Results {
		totalMatches += len(result.Matches)

		fmt.Println(recordHeader(result.Record))
		fmt.Printf("  %s (user %s)\n", result.Record.ID, result.Record.LogUserID)

		for _, match := range result.Matches {
			fmt.Println("  " + matchStyle.Render(fmt.Sprintf("%d: %s", match.LineNumber, match.Line)))
			for _, ctxLine := range match.Context {
				fmt.Println("    " + contextStyle.Render(ctxLine))
			}
		}
		fmt.Println()
	}

	fmt.Println(summaryStyle.Render(fmt.Sprintf(
		"%d matches in %d of %d logs", totalMatches, len(report.Results), report.LogsSearched)))
}
