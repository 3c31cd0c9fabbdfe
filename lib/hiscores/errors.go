package hiscores

import (
	"errors"
	"fmt"
)

// ErrNotOnHiscores marks the permanent outcome: the remote endpoint
// returned 404 for the player (renamed, banned, or deranked below the
// tracking threshold). Callers branch on it with errors.Is, never by
// matching message text.
var ErrNotOnHiscores = errors.New("player is not on the hiscores")

// TransportError is returned once every retry attempt has failed
// transiently. It wraps the error of the final attempt.
type TransportError struct {
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("all %d fetch attempts failed: %s", e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports a structurally invalid skill block. The fetch
// itself succeeded, so retrying is pointless; it signals response
// corruption or a remote layout change.
type DecodeError struct {
	Row    int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid hiscore payload at row %d: %s", e.Row, e.Reason)
}
