package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/files"
	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/log"
	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/matcher"
	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/salesforce"
)

// FileStore is the persistence surface the download pipeline writes
// through. Implemented by files.DiskStore; tests substitute fakes.
type FileStore interface {
	EnsureDirectory(path string) error
	WriteFile(path string, content []byte) error
	WriteJSON(path string, v any) error
	EstimateAndCheckSpace(records []salesforce.LogRecord, dir string) (files.SpaceEstimate, error)
}

// recentMetadataCap bounds the single recent page used to recover metadata
// for explicit-id downloads. The Tooling API has no batch get-by-id lookup,
// so ids older than the most recent page of this size lose their metadata
// and are written under a synthesized filename if their body still fetches.
const recentMetadataCap = 1000

// directDownloadQuery is the sentinel recorded in reports and summaries
// when logs were downloaded by explicit id rather than found by a search.
const directDownloadQuery = "(direct download)"

// failedReason is the generic tag attached to failed ids in the summary.
const failedReason = "body_unavailable"

// DownloadRequest configures where and how matched logs are written.
type DownloadRequest struct {
	OutputDir     string
	WriteMetadata bool
	WriteSummary  bool
	Compress      bool
	Verbose       bool
}

// DownloadReport summarizes one download session.
type DownloadReport struct {
	Query          string
	LogsSearched   int
	LogsMatched    int
	Downloaded     int
	FailedIDs      []string
	OutputDir      string
	EstimatedBytes int64
}

type logMetadata struct {
	Record  salesforce.LogRecord `json:"record"`
	Matches []matcher.Match      `json:"matches,omitempty"`
}

type summaryFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type downloadSummary struct {
	SessionID      string           `json:"sessionId"`
	Query          string           `json:"query"`
	GeneratedAt    time.Time        `json:"generatedAt"`
	LogsSearched   int              `json:"logsSearched"`
	LogsMatched    int              `json:"logsMatched"`
	Downloaded     int              `json:"downloaded"`
	Failed         []summaryFailure `json:"failed"`
	EstimatedBytes int64            `json:"estimatedBytes"`
}

// Downloader materializes logs and metadata to disk through a FileStore.
type Downloader struct {
	store    LogStore
	files    FileStore
	searcher *Searcher
	logger   *log.Logger
}

func NewDownloader(store LogStore, fileStore FileStore) *Downloader {
	return &Downloader{
		store:    store,
		files:    fileStore,
		searcher: NewSearcher(store),
		logger:   log.ForComponent("download"),
	}
}

// SearchAndDownload runs a search and persists every matching log. With
// zero matches it returns immediately without creating the output directory
// or fetching any bodies.
func (d *Downloader) SearchAndDownload(ctx context.Context, sreq SearchRequest, dreq DownloadRequest) (*DownloadReport, error) {
	searchReport, err := d.searcher.Search(ctx, sreq)
	if err != nil {
		return nil, err
	}

	report := &DownloadReport{
		Query:        searchReport.Query,
		LogsSearched: searchReport.LogsSearched,
		LogsMatched:  len(searchReport.Results),
		OutputDir:    dreq.OutputDir,
	}
	if len(searchReport.Results) == 0 {
		d.logger.Infof("no logs matched %q, nothing to download", sreq.Query)
		return report, nil
	}

	records := make([]salesforce.LogRecord, len(searchReport.Results))
	matchesByID := make(map[string][]matcher.Match, len(searchReport.Results))
	for i, result := range searchReport.Results {
		records[i] = result.Record
		matchesByID[result.Record.ID] = result.Matches
	}

	if err := d.persist(ctx, records, matchesByID, dreq, report); err != nil {
		return nil, err
	}
	return report, nil
}

// DownloadByIDs fetches and persists the logs with the given ids. Metadata
// is recovered by filtering one large recent page, since the API exposes no
// direct get-record-by-id lookup; ids without recoverable metadata still
// download under a synthesized filename when their body is available, but
// are excluded from the size estimate and get no metadata sidecar.
func (d *Downloader) DownloadByIDs(ctx context.Context, ids []string, dreq DownloadRequest) (*DownloadReport, error) {
	report := &DownloadReport{
		Query:     directDownloadQuery,
		OutputDir: dreq.OutputDir,
	}
	if len(ids) == 0 {
		return report, nil
	}

	recent, err := d.store.FetchLogs(ctx, salesforce.LogFilter{}, recentMetadataCap)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]salesforce.LogRecord, len(recent))
	for _, r := range recent {
		byID[r.ID] = r
	}

	records := make([]salesforce.LogRecord, 0, len(ids))
	for _, id := range ids {
		if record, ok := byID[id]; ok {
			records = append(records, record)
			continue
		}
		d.logger.Warnf("no metadata found for log %s in the %d most recent logs", id, recentMetadataCap)
		records = append(records, salesforce.LogRecord{ID: id})
	}

	report.LogsMatched = len(records)
	if err := d.persist(ctx, records, nil, dreq, report); err != nil {
		return nil, err
	}
	return report, nil
}

// persist is the shared bulk-fetch-then-write path. records drives the
// iteration order; matchesByID may be nil for direct-id downloads.
func (d *Downloader) persist(ctx context.Context, records []salesforce.LogRecord, matchesByID map[string][]matcher.Match, dreq DownloadRequest, report *DownloadReport) error {
	withMetadata := make([]salesforce.LogRecord, 0, len(records))
	for _, r := range records {
		if !r.StartTime.IsZero() || r.LogLength > 0 {
			withMetadata = append(withMetadata, r)
		}
	}

	estimate, err := d.files.EstimateAndCheckSpace(withMetadata, dreq.OutputDir)
	if err != nil {
		return err
	}
	report.EstimatedBytes = estimate.EstimatedBytes
	if !estimate.OK {
		return fmt.Errorf("not enough free disk space for an estimated %d bytes in %s", estimate.EstimatedBytes, dreq.OutputDir)
	}

	if err := d.files.EnsureDirectory(dreq.OutputDir); err != nil {
		return err
	}

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	bodies := d.store.FetchLogBodiesBatch(ctx, ids)

	for _, record := range records {
		body, ok := bodies[record.ID]
		if !ok {
			report.FailedIDs = append(report.FailedIDs, record.ID)
			continue
		}

		name := logFilename(record, dreq.Compress)
		path := filepath.Join(dreq.OutputDir, name)
		if err := d.files.WriteFile(path, []byte(body)); err != nil {
			d.logger.Warnf("failed to write log %s: %v", record.ID, err)
			report.FailedIDs = append(report.FailedIDs, record.ID)
			continue
		}
		report.Downloaded++
		if dreq.Verbose {
			d.logger.Infof("wrote %s (%d bytes)", name, len(body))
		}

		if dreq.WriteMetadata && !record.StartTime.IsZero() {
			meta := logMetadata{Record: record}
			if matchesByID != nil {
				meta.Matches = matchesByID[record.ID]
			}
			metaPath := path + ".meta.json"
			if err := d.files.WriteJSON(metaPath, meta); err != nil {
				d.logger.Warnf("failed to write metadata for log %s: %v", record.ID, err)
			}
		}
	}

	if dreq.WriteSummary {
		summary := downloadSummary{
			SessionID:      uuid.New().String(),
			Query:          report.Query,
			GeneratedAt:    time.Now().UTC(),
			LogsSearched:   report.LogsSearched,
			LogsMatched:    report.LogsMatched,
			Downloaded:     report.Downloaded,
			Failed:         make([]summaryFailure, 0, len(report.FailedIDs)),
			EstimatedBytes: report.EstimatedBytes,
		}
		for _, id := range report.FailedIDs {
			summary.Failed = append(summary.Failed, summaryFailure{ID: id, Reason: failedReason})
		}
		summaryPath := filepath.Join(dreq.OutputDir, "download-summary.json")
		if err := d.files.WriteJSON(summaryPath, summary); err != nil {
			d.logger.Warnf("failed to write download summary: %v", err)
		}
	}

	d.logger.Infof("downloaded %d of %d logs to %s", report.Downloaded, len(records), dreq.OutputDir)
	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// logFilename builds the deterministic name for one persisted log:
// timestamp, sanitized operation, first eight characters of the id. The id
// prefix keeps names collision-resistant even when two logs share a
// timestamp and operation. Records without recovered metadata get the
// current time and an "unknown" operation.
func logFilename(record salesforce.LogRecord, compress bool) string {
	ts := record.StartTime.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	op := record.Operation
	if op == "" {
		op = "unknown"
	}
	op = unsafeFilenameChars.ReplaceAllString(op, "_")

	idPrefix := record.ID
	if len(idPrefix) > 8 {
		idPrefix = idPrefix[:8]
	}

	name := fmt.Sprintf("%s_%s_%s.log", ts.Format("2006-01-02_15-04-05"), op, idPrefix)
	if compress {
		name += ".gz"
	}
	return name
}
