package lookup

import "fmt"

// LookupError reports a failed call to the nutrition database: a transport
// failure, an unexpected payload or a non-2xx status.
type LookupError struct {
	Message    string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *LookupError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("nutrition lookup failed (status %d): %s", e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("nutrition lookup failed: %s: %v", e.Message, e.Err)
	}
	return "nutrition lookup failed: " + e.Message
}

func (e *LookupError) Unwrap() error { return e.Err }

// NoResultsError means the database answered but matched nothing.
type NoResultsError struct {
	Query string
}

func (e *NoResultsError) Error() string {
	return fmt.Sprintf("no food items found for %q", e.Query)
}
