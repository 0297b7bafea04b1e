package cmd

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/config"
	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/pipeline"
	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/salesforce"
)

// newClient loads the configuration and builds an authenticated client.
// Missing credentials are reported before any network call.
func newClient(c *cli.Command) (*salesforce.Client, *config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return salesforce.NewClient(cfg.InstanceURL, cfg.SessionToken, cfg.APIVersion), cfg, nil
}

// filterFlags are the server-side filters shared by every query command.
func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "user",
			Usage: "Only logs owned by this user id",
		},
		&cli.StringFlag{
			Name:  "from",
			Usage: "Only logs starting on or after this date (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:  "to",
			Usage: "Only logs starting on or before this date (YYYY-MM-DD)",
		},
	}
}

// searchFlags extends filterFlags with the search-specific options.
func searchFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "Text to search for; repeat for multiple patterns (each runs a full cycle)",
		},
		&cli.BoolFlag{
			Name:  "case-sensitive",
			Usage: "Match case exactly",
		},
		&cli.IntFlag{
			Name:  "max",
			Usage: "Maximum number of logs to examine (0 = default bound, unlimited with --all)",
		},
		&cli.BoolFlag{
			Name:  "all",
			Usage: "Page through every matching log instead of one bounded query",
		},
	}
	return append(flags, filterFlags()...)
}

func buildFilter(c *cli.Command) salesforce.LogFilter {
	return salesforce.LogFilter{
		UserID:   c.String("user"),
		DateFrom: c.String("from"),
		DateTo:   c.String("to"),
	}
}

func buildSearchRequest(c *cli.Command) pipeline.SearchRequest {
	return pipeline.SearchRequest{
		CaseSensitive: c.Bool("case-sensitive"),
		MaxResults:    int(c.Int("max")),
		SearchAll:     c.Bool("all"),
		UserID:        c.String("user"),
		DateFrom:      c.String("from"),
		DateTo:        c.String("to"),
	}
}

func queryPatterns(c *cli.Command) ([]string, error) {
	patterns := c.StringSlice("query")
	if len(patterns) == 0 {
		return nil, fmt.Errorf("at least one --query is required")
	}
	return patterns, nil
}
