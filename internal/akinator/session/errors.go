package session

import (
	"errors"
	"fmt"

	"akinator-client/internal/akinator/bootstrap"
	"akinator-client/internal/akinator/region"
	"akinator-client/internal/akinator/response"
)

var (
	ErrInvalidRegion      = region.ErrInvalidRegion
	ErrBootstrapFailure   = bootstrap.ErrBootstrapFailure
	ErrNoGuessesAvailable = errors.New("no guesses available")
	ErrAlreadyStarted     = errors.New("session already started")
	ErrNotStarted         = errors.New("session not started")
	ErrNothingToCancel    = errors.New("nothing to cancel")
	ErrInvalidAnswer      = errors.New("invalid answer")
)

type (
	RequestFailure      = response.RequestFailure
	OpaqueResponseError = response.OpaqueResponseError
)

// InvalidGuessIndexError is returned when a guess is selected outside of the
// guesses accumulated so far.
type InvalidGuessIndexError struct {
	Index int
	Count int
}

func (e *InvalidGuessIndexError) Error() string {
	return fmt.Sprintf("invalid guess index %d: %d guess(es) available", e.Index, e.Count)
}
