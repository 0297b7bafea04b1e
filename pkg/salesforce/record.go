package salesforce

import (
	"fmt"
	"strings"
	"time"
)

// Timestamp handles the Salesforce JSON datetime format, which uses a
// four-digit zone offset without a colon ("2024-05-03T12:34:56.000+0000")
// and therefore fails RFC 3339 parsing.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	time.RFC3339,
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unparsable Salesforce timestamp %q", s)
}

// LogRecord is the metadata of one ApexLog entry as returned by the Tooling
// API. Records are immutable once fetched; the body is retrieved separately.
type LogRecord struct {
	ID           string    `json:"Id"`
	LogUserID    string    `json:"LogUserId"`
	LogLength    int64     `json:"LogLength"`
	LastModified Timestamp `json:"LastModifiedDate"`
	Request      string    `json:"Request"`
	Operation    string    `json:"Operation"`
	Application  string    `json:"Application"`
	Status       string    `json:"Status"`
	DurationMs   int64     `json:"DurationMilliseconds"`
	StartTime    Timestamp `json:"StartTime"`
	Location     string    `json:"Location"`
}
