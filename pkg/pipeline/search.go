// Package pipeline orchestrates log retrieval, matching, and download. The
// search side processes logs strictly one at a time; concurrency lives in
// the store's bulk body fetch, used only when downloading.
package pipeline

import (
	"context"

	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/log"
	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/matcher"
	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/salesforce"
)

// LogStore is the retrieval surface the pipelines depend on. Implemented by
// salesforce.Client; tests substitute fakes.
type LogStore interface {
	FetchLogs(ctx context.Context, filter salesforce.LogFilter, limit int) ([]salesforce.LogRecord, error)
	FetchAllLogs(ctx context.Context, filter salesforce.LogFilter, maxLogs int) ([]salesforce.LogRecord, error)
	FetchLogBody(ctx context.Context, id string) (string, error)
	FetchLogBodiesBatch(ctx context.Context, ids []string) map[string]string
}

// defaultFetchLimit bounds a non-exhaustive search when the request does
// not cap results itself.
const defaultFetchLimit = 50

// SearchRequest configures one search run.
type SearchRequest struct {
	// Query is the substring to look for. Required for single-pattern search.
	Query string

	CaseSensitive bool

	// MaxResults caps how many logs are examined. Zero means unlimited
	// for exhaustive search and the default bound otherwise.
	MaxResults int

	// SearchAll pages through every matching log instead of one bounded
	// query.
	SearchAll bool

	// Optional filters, applied server side.
	UserID   string
	DateFrom string
	DateTo   string
}

// Filter derives the server-side filter from the request.
func (r SearchRequest) Filter() salesforce.LogFilter {
	return salesforce.LogFilter{
		UserID:   r.UserID,
		DateFrom: r.DateFrom,
		DateTo:   r.DateTo,
	}
}

// SearchResult pairs one log record with its matches. Matches is never
// empty; logs without matches are not reported.
type SearchResult struct {
	Record  salesforce.LogRecord
	Matches []matcher.Match
}

// SearchReport is the outcome of one search run. LogsSearched counts the
// records actually examined, which may fall short of the requested set when
// end-of-data or a page failure was hit, or when individual bodies could
// not be fetched.
type SearchReport struct {
	Query        string
	Results      []SearchResult
	LogsSearched int
}

// Searcher runs the retrieval-plus-matching pipeline.
type Searcher struct {
	store  LogStore
	logger *log.Logger
}

func NewSearcher(store LogStore) *Searcher {
	return &Searcher{
		store:  store,
		logger: log.ForComponent("search"),
	}
}

// Search fetches the record set selected by req, scans each log's body for
// the query, and returns the logs with at least one match, in retrieval
// order. A log whose body cannot be fetched is logged and skipped; one bad
// record never aborts the search.
func (s *Searcher) Search(ctx context.Context, req SearchRequest) (*SearchReport, error) {
	if req.Query == "" {
		return nil, &salesforce.ValidationError{Field: "query", Value: "", Msg: "search text is required"}
	}
	if err := req.Filter().Validate(); err != nil {
		return nil, err
	}

	records, err := s.fetchRecords(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Infof("searching %d logs for %q", len(records), req.Query)

	report := &SearchReport{Query: req.Query}
	for _, record := range records {
		body, err := s.store.FetchLogBody(ctx, record.ID)
		if err != nil {
			s.logger.Warnf("skipping log %s: %v", record.ID, err)
			continue
		}
		report.LogsSearched++

		matches := matcher.Search(body, req.Query, req.CaseSensitive)
		if len(matches) == 0 {
			continue
		}
		report.Results = append(report.Results, SearchResult{
			Record:  record,
			Matches: matches,
		})
	}

	s.logger.Infof("found matches in %d of %d logs", len(report.Results), report.LogsSearched)
	return report, nil
}

// SearchMultiple repeats the whole retrieval-and-search cycle once per
// pattern, independently re-fetching logs from the store each time. Reports
// are returned in pattern order.
func (s *Searcher) SearchMultiple(ctx context.Context, req SearchRequest, patterns []string) ([]*SearchReport, error) {
	reports := make([]*SearchReport, 0, len(patterns))
	for _, pattern := range patterns {
		perPattern := req
		perPattern.Query = pattern
		report, err := s.Search(ctx, perPattern)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (s *Searcher) fetchRecords(ctx context.Context, req SearchRequest) ([]salesforce.LogRecord, error) {
	if req.SearchAll {
		return s.store.FetchAllLogs(ctx, req.Filter(), req.MaxResults)
	}
	limit := req.MaxResults
	if limit <= 0 {
		limit = defaultFetchLimit
	}
	return s.store.FetchLogs(ctx, req.Filter(), limit)
}
