package messaging

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks precondition violations by the caller.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMissingViewer means the caller is not authenticated yet. It is an
	// ErrInvalidArgument, never an empty result.
	ErrMissingViewer = fmt.Errorf("%w: viewer identity is required", ErrInvalidArgument)

	// ErrUpstreamUnavailable wraps failures of the message store or profile
	// directory. Callers may retry.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

func invalidArgument(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
}

func upstream(action string, err error) error {
	if errors.Is(err, ErrUpstreamUnavailable) {
		return fmt.Errorf("%s: %w", action, err)
	}
	return fmt.Errorf("%s: %w: %w", action, ErrUpstreamUnavailable, err)
}
