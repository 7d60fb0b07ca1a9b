package swapi

import "fmt"

// UnavailableError reports a failed upstream request: either the HTTP call
// itself failed, or the catalog answered with a non-2xx status. The status
// code and a capped copy of the body are kept for diagnostics.
type UnavailableError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream catalog unavailable: %v", e.Err)
	}
	return fmt.Sprintf("upstream catalog returned status %d: %s", e.StatusCode, e.Body)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// MalformedRecordError reports an upstream payload that decoded but did not
// carry the expected fields, or a record whose url/release_date could not be
// normalized.
type MalformedRecordError struct {
	URL    string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("malformed upstream payload: %s", e.Reason)
	}
	return fmt.Sprintf("malformed film record %q: %s", e.URL, e.Reason)
}
