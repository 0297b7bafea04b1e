package salesforce

import (
	"fmt"
	"strings"
	"time"
)

// LogFilter narrows a log query. The zero value matches all logs.
// UserID filters by the owning user; DateFrom/DateTo are inclusive
// ISO-8601 dates (YYYY-MM-DD) applied to the log's start time.
type LogFilter struct {
	UserID   string
	DateFrom string
	DateTo   string
}

// Validate checks the filter's date strings before any network call.
func (f LogFilter) Validate() error {
	if f.DateFrom != "" {
		if _, err := time.Parse("2006-01-02", f.DateFrom); err != nil {
			return &ValidationError{Field: "date-from", Value: f.DateFrom, Msg: "expected YYYY-MM-DD"}
		}
	}
	if f.DateTo != "" {
		if _, err := time.Parse("2006-01-02", f.DateTo); err != nil {
			return &ValidationError{Field: "date-to", Value: f.DateTo, Msg: "expected YYYY-MM-DD"}
		}
	}
	return nil
}

// whereClause renders the filter as a SOQL WHERE clause, or an empty
// string when the filter is empty. Validate must have been called first.
func (f LogFilter) whereClause() string {
	var conds []string
	if f.UserID != "" {
		conds = append(conds, fmt.Sprintf("LogUserId = '%s'", escapeSOQL(f.UserID)))
	}
	if f.DateFrom != "" {
		conds = append(conds, fmt.Sprintf("StartTime >= %sT00:00:00Z", f.DateFrom))
	}
	if f.DateTo != "" {
		conds = append(conds, fmt.Sprintf("StartTime <= %sT23:59:59Z", f.DateTo))
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// String describes the filter for error reporting.
func (f LogFilter) String() string {
	var parts []string
	if f.UserID != "" {
		parts = append(parts, "user="+f.UserID)
	}
	if f.DateFrom != "" {
		parts = append(parts, "from="+f.DateFrom)
	}
	if f.DateTo != "" {
		parts = append(parts, "to="+f.DateTo)
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// escapeSOQL escapes single quotes and backslashes in SOQL string literals.
func escapeSOQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
