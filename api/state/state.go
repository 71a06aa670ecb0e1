/* state.go
 * Contains the tournament progression state and the reducer that moves it between Idle, Loading, InProgress,
 * Completed and Failed. Apply is pure: it never performs I/O and returns the input state unchanged on error
 * Authors: Zachary Bower
 */

package state

import (
	"errors"
	"fmt"
	"jcup-bot/api/shared"
)

var ErrBusy = errors.New("a request is already in flight")
var ErrInvalidTransition = errors.New("invalid transition")
var ErrRetryDisabled = errors.New("retry is not available for this failure")

type Status string

const (
	StatusIdle       Status = "idle"
	StatusLoading    Status = "loading"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Operation is the remote call a Loading state is waiting on, or the call a Failed state failed on
type Operation string

const (
	OpNone Operation = ""
	OpInit Operation = "init"
	OpPlay Operation = "play"
)

// Failure is the error overlay shown on top of the last good state
type Failure struct {
	Message     string
	Recoverable bool
	Err         error
}

// State is the whole client-side view of the tournament.
// Fixtures are the matches of the upcoming round. Results and Highlights belong to the most recently completed
// round (the final round once Completed). Under Loading and Failed the data of Previous is kept untouched
type State struct {
	Status     Status
	Previous   Status
	Operation  Operation
	Fixtures   []shared.Fixture
	Results    []string
	Highlights []shared.Highlight
	Winner     *shared.Team
	Failure    *Failure
	Round      int
}

// New returns the initial Idle state
func New() State {
	return State{Status: StatusIdle, Previous: StatusIdle}
}

// Settled returns the last non-transient status, i.e. the state whose data is on display
func (s State) Settled() Status {
	if s.Status == StatusLoading || s.Status == StatusFailed {
		return s.Previous
	}
	return s.Status
}

// IsLoading reports whether a request is in flight
func (s State) IsLoading() bool {
	return s.Status == StatusLoading
}

// CanRetry reports whether the failed operation may be re-issued
func (s State) CanRetry() bool {
	return s.Status == StatusFailed && s.Failure != nil && s.Failure.Recoverable
}

// Apply transitions s by ev.
// Preconditions: Receives the current state and an event
// Postconditions: Returns the next state, or the unchanged state and ErrBusy / ErrInvalidTransition /
// ErrRetryDisabled if the event is not valid in the current state
func Apply(s State, ev Event) (State, error) {
	switch e := ev.(type) {
	case StartRequested:
		switch s.Status {
		case StatusLoading:
			return s, ErrBusy
		case StatusIdle, StatusCompleted, StatusFailed:
			return s.begin(OpInit), nil
		}
		return s, fmt.Errorf("%w: cannot restart while %s", ErrInvalidTransition, s.Status)

	case NextRoundRequested:
		switch s.Status {
		case StatusLoading:
			return s, ErrBusy
		case StatusInProgress:
			return s.begin(OpPlay), nil
		case StatusFailed:
			// The action button re-issues play when a round failed mid tournament. A failed restart
			// can only be retried or restarted again
			if s.Previous != StatusInProgress {
				return s, fmt.Errorf("%w: no round to play", ErrInvalidTransition)
			}
			if s.Operation != OpPlay {
				return s, fmt.Errorf("%w: the failed request was a restart, retry or restart it", ErrInvalidTransition)
			}
			if !s.CanRetry() {
				return s, ErrRetryDisabled
			}
			return s.begin(OpPlay), nil
		}
		return s, fmt.Errorf("%w: cannot play a round while %s", ErrInvalidTransition, s.Status)

	case RetryRequested:
		switch s.Status {
		case StatusLoading:
			return s, ErrBusy
		case StatusFailed:
			if !s.CanRetry() {
				return s, ErrRetryDisabled
			}
			return s.begin(s.Operation), nil
		}
		return s, fmt.Errorf("%w: nothing to retry while %s", ErrInvalidTransition, s.Status)

	case RoundStarted:
		if s.Status != StatusLoading {
			return s, fmt.Errorf("%w: unexpected round start while %s", ErrInvalidTransition, s.Status)
		}
		return State{
			Status:     StatusInProgress,
			Previous:   StatusInProgress,
			Fixtures:   e.Fixtures,
			Results:    []string{},
			Highlights: []shared.Highlight{},
		}, nil

	case RoundCompleted:
		if s.Status != StatusLoading {
			return s, fmt.Errorf("%w: unexpected round result while %s", ErrInvalidTransition, s.Status)
		}
		return State{
			Status:     StatusInProgress,
			Previous:   StatusInProgress,
			Fixtures:   e.NextFixtures,
			Results:    e.Results,
			Highlights: e.Highlights,
			Round:      s.Round + 1,
		}, nil

	case TournamentFinished:
		if s.Status != StatusLoading {
			return s, fmt.Errorf("%w: unexpected tournament result while %s", ErrInvalidTransition, s.Status)
		}
		winner := e.Winner
		return State{
			Status:     StatusCompleted,
			Previous:   StatusCompleted,
			Fixtures:   []shared.Fixture{},
			Results:    e.Results,
			Highlights: e.Highlights,
			Winner:     &winner,
			Round:      s.Round + 1,
		}, nil

	case RequestFailed:
		if s.Status != StatusLoading {
			return s, fmt.Errorf("%w: unexpected failure while %s", ErrInvalidTransition, s.Status)
		}
		next := s
		next.Status = StatusFailed
		next.Failure = &Failure{Message: e.Message, Recoverable: e.Recoverable, Err: e.Err}
		return next, nil
	}

	return s, fmt.Errorf("%w: unsupported event %T", ErrInvalidTransition, ev)
}

// begin moves into Loading for op, freezing the displayed data
func (s State) begin(op Operation) State {
	next := s
	next.Previous = s.Settled()
	next.Status = StatusLoading
	next.Operation = op
	next.Failure = nil
	return next
}
