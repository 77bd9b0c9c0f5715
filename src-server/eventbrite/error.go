package eventbrite

import "fmt"

// AuthError means the API token itself was rejected. The session that
// carries the token is no longer usable and the user has to sign in
// again with a fresh one.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("eventbrite: token rejected, status %d", e.Status)
}

// TransientError covers failures that can succeed on a later retry with
// the same token: hourly rate limiting and transport-level errors.
type TransientError struct {
	Detail string
	Err    error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("eventbrite: %s: %s", e.Detail, e.Err.Error())
	}
	return "eventbrite: " + e.Detail
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// UpstreamError is any other unexpected reply. Status code and a body
// snippet are kept so the failure can be shown verbatim.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("eventbrite: unexpected status %d: %s", e.Status, e.Body)
}
