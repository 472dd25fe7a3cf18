package stats

import "fmt"

// InvalidQueryError reports a bad user-supplied query parameter. Callers
// should reprompt rather than abort.
type InvalidQueryError struct {
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query: %s", e.Reason)
}

// PlayerNotFoundError reports a player that never appears in the delivery
// table for the requested role.
type PlayerNotFoundError struct {
	Player string
}

func (e *PlayerNotFoundError) Error() string {
	return fmt.Sprintf("no deliveries found for player %q", e.Player)
}
