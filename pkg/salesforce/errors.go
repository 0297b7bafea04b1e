package salesforce

import "fmt"

// RemoteError wraps any transport or HTTP failure reaching the Salesforce
// Tooling API. Op identifies the operation that failed; ID or Filter carries
// the request context so callers can report which request failed.
type RemoteError struct {
	Op     string
	ID     string
	Filter string
	Err    error
}

func (e *RemoteError) Error() string {
	switch {
	case e.ID != "":
		return fmt.Sprintf("salesforce: %s (log %s): %v", e.Op, e.ID, e.Err)
	case e.Filter != "":
		return fmt.Sprintf("salesforce: %s (filter %s): %v", e.Op, e.Filter, e.Err)
	default:
		return fmt.Sprintf("salesforce: %s: %v", e.Op, e.Err)
	}
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// ValidationError reports malformed input detected before any network call,
// such as an unparsable date filter.
type ValidationError struct {
	Field string
	Value string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Msg)
}
