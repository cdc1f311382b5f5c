// README: Typed failures for the upstream venue-data service.
package venueapi

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout means the upstream call did not complete within the
	// per-call deadline. Never retried here.
	ErrTimeout = errors.New("upstream request timed out")

	// ErrData means the upstream answered 2xx but the body was malformed
	// or missing a required field.
	ErrData = errors.New("malformed upstream venue data")

	// ErrUnreachable covers transport failures that are not deadline
	// expiry (refused connection, DNS failure, reset mid-body).
	ErrUnreachable = errors.New("upstream service unreachable")
)

// StatusError is a non-2xx answer from the upstream service.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Code)
}
