package gmail

import "fmt"

// AuthError means the refresh-token exchange could not produce a bearer
// token: either a credential component is absent or the token endpoint
// rejected the grant. Fatal for the current run.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gmail auth failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("gmail auth failed: %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// TransportError means a search or fetch call returned a non-success status.
// Callers decide whether to skip the item or abort the run.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gmail %s failed (status %d): %v", e.Op, e.StatusCode, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SendError means the provider rejected an outbound message.
type SendError struct {
	StatusCode int
	Err        error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("gmail send failed (status %d): %v", e.StatusCode, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }
