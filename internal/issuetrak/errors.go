package issuetrak

import "fmt"

// TransportError reports a failed call to the Issuetrak API: the request could
// not be sent, the server answered with a non-success status, or the body
// could not be decoded. The whole run should be retried later.
type TransportError struct {
	Op         string // e.g. "POST /issues/search/"
	StatusCode int    // 0 when no response was received
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: Issuetrak API returned %d: %s", e.Op, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": transport failure"
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IntegrityError reports a response whose reported total disagrees with the
// records actually received.
type IntegrityError struct {
	Domain   string
	Reported int
	Parsed   int
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: server reported %d entries but %d were received", e.Domain, e.Reported, e.Parsed)
}
