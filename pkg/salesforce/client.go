// Package salesforce talks to the Salesforce Tooling API to list ApexLog
// records and fetch their bodies. It owns query pagination and the
// bounded-concurrency bulk body fetch; callers never see raw HTTP.
package salesforce

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/oauth2"

	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/log"
)

const (
	// PageSize is the number of records requested per page by FetchAllLogs.
	PageSize = 200

	// maxQueryLimit caps a single bounded query. The Tooling API accepts
	// larger LIMITs but this is as far as we ever need to reach back.
	maxQueryLimit = 1000

	// bodyBatchSize is how many log bodies are fetched concurrently
	// within one group.
	bodyBatchSize = 10

	// courtesyDelay is inserted between pagination pages and between
	// body-fetch groups. It is a fixed rate-limiting courtesy, not a
	// backoff.
	courtesyDelay = 100 * time.Millisecond
)

const recordFields = "Id, LogUserId, LogLength, LastModifiedDate, Request, Operation, Application, Status, DurationMilliseconds, StartTime, Location"

// Client wraps authenticated access to one Salesforce org's Tooling API.
type Client struct {
	httpClient  *http.Client
	instanceURL string
	apiVersion  string
	logger      *log.Logger
}

// NewClient builds a client for the given org. The session token is a
// pre-obtained bearer credential; the client performs no token refresh.
func NewClient(instanceURL, sessionToken, apiVersion string) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: sessionToken})
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = 60 * time.Second

	return &Client{
		httpClient:  httpClient,
		instanceURL: strings.TrimRight(instanceURL, "/"),
		apiVersion:  apiVersion,
		logger:      log.ForComponent("salesforce"),
	}
}

type queryResponse struct {
	TotalSize int         `json:"totalSize"`
	Done      bool        `json:"done"`
	Records   []LogRecord `json:"records"`
}

func (c *Client) query(ctx context.Context, soql string) (*queryResponse, error) {
	endpoint := fmt.Sprintf("%s/services/data/v%s/tooling/query?q=%s",
		c.instanceURL, c.apiVersion, url.QueryEscape(soql))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	c.logger.Debugf("query: %s", soql)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warnf("failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	var qr queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return nil, fmt.Errorf("decoding query response: %w", err)
	}

	return &qr, nil
}

func logQuery(filter LogFilter, limit, offset int) string {
	q := "SELECT " + recordFields + " FROM ApexLog" + filter.whereClause() +
		" ORDER BY StartTime DESC LIMIT " + strconv.Itoa(limit)
	if offset > 0 {
		q += " OFFSET " + strconv.Itoa(offset)
	}
	return q
}

func (c *Client) fetchLogsPage(ctx context.Context, filter LogFilter, limit, offset int) ([]LogRecord, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}

	qr, err := c.query(ctx, logQuery(filter, limit, offset))
	if err != nil {
		return nil, &RemoteError{Op: "fetch logs", Filter: filter.String(), Err: err}
	}
	return qr.Records, nil
}

// FetchLogs issues a single bounded query for the most recent logs matching
// filter, newest first. The limit is clamped to [1, 1000].
func (c *Client) FetchLogs(ctx context.Context, filter LogFilter, limit int) ([]LogRecord, error) {
	return c.fetchLogsPage(ctx, filter, limit, 0)
}

// FetchAllLogs pages through all logs matching filter, accumulating up to
// maxLogs records (0 means unlimited). The offset always advances by the
// number of records actually returned, so an under-full page that is not
// end-of-data never skips records. A failed page breaks the loop and the
// logs accumulated so far are returned; partial results are still useful.
func (c *Client) FetchAllLogs(ctx context.Context, filter LogFilter, maxLogs int) ([]LogRecord, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var accumulated []LogRecord
	offset := 0

	for {
		pageLimit := PageSize
		if maxLogs > 0 {
			if remaining := maxLogs - len(accumulated); remaining < pageLimit {
				pageLimit = remaining
			}
		}

		page, err := c.fetchLogsPage(ctx, filter, pageLimit, offset)
		if err != nil {
			c.logger.Warnf("page fetch at offset %d failed, keeping %d logs fetched so far: %v",
				offset, len(accumulated), err)
			break
		}

		accumulated = append(accumulated, page...)
		offset += len(page)

		if len(page) < pageLimit {
			break
		}
		if maxLogs > 0 && len(accumulated) >= maxLogs {
			break
		}

		time.Sleep(courtesyDelay)
	}

	c.logger.Debugf("fetched %d logs total", len(accumulated))
	return accumulated, nil
}

// FetchLogBody retrieves the raw text body of one log.
func (c *Client) FetchLogBody(ctx context.Context, id string) (string, error) {
	endpoint := fmt.Sprintf("%s/services/data/v%s/tooling/sobjects/ApexLog/%s/Body",
		c.instanceURL, c.apiVersion, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", &RemoteError{Op: "fetch log body", ID: id, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &RemoteError{Op: "fetch log body", ID: id, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warnf("failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", &RemoteError{Op: "fetch log body", ID: id,
			Err: fmt.Errorf("API request failed with status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &RemoteError{Op: "fetch log body", ID: id, Err: err}
	}
	return string(body), nil
}

// FetchLogBodiesBatch fetches the bodies for ids in groups of ten. All
// fetches within a group run concurrently, each writing its own result
// slot; the short courtesy delay separates successive groups. An id whose
// fetch fails is logged and omitted from the returned map, never aborting
// the batch.
func (c *Client) FetchLogBodiesBatch(ctx context.Context, ids []string) map[string]string {
	bodies := make(map[string]string, len(ids))

	for start := 0; start < len(ids); start += bodyBatchSize {
		end := min(start+bodyBatchSize, len(ids))
		group := ids[start:end]

		type fetchResult struct {
			body string
			err  error
		}
		results := make([]fetchResult, len(group))

		var wg sync.WaitGroup
		for i, id := range group {
			wg.Add(1)
			go func(i int, id string) {
				defer wg.Done()
				results[i].body, results[i].err = c.FetchLogBody(ctx, id)
			}(i, id)
		}
		wg.Wait()

		for i, id := range group {
			if results[i].err != nil {
				c.logger.Warnf("skipping body for log %s: %v", id, results[i].err)
				continue
			}
			bodies[id] = results[i].body
		}

		if end < len(ids) {
			time.Sleep(courtesyDelay)
		}
	}

	return bodies
}

// CountLogs returns the number of logs matching filter and whether that
// number is exact. When the aggregate COUNT() query fails it falls back to
// fetching one sample page and reporting its length; a full sample page
// means the true count is at least that large, so callers must present the
// inexact value as an estimate.
func (c *Client) CountLogs(ctx context.Context, filter LogFilter) (int, bool, error) {
	if err := filter.Validate(); err != nil {
		return 0, false, err
	}

	qr, err := c.query(ctx, "SELECT COUNT() FROM ApexLog"+filter.whereClause())
	if err == nil {
		return qr.TotalSize, true, nil
	}

	c.logger.Warnf("aggregate count failed, estimating from a sample page: %v", err)
	page, err := c.fetchLogsPage(ctx, filter, PageSize, 0)
	if err != nil {
		return 0, false, err
	}
	return len(page), false, nil
}

// TestConnection issues a minimal one-row query and reports whether it
// succeeded. All errors are swallowed.
func (c *Client) TestConnection(ctx context.Context) bool {
	_, err := c.fetchLogsPage(ctx, LogFilter{}, 1, 0)
	return err == nil
}
