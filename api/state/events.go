/* events.go
 * Contains the events accepted by the progression reducer. Request events come from the user (or the hosting
 * shell), outcome events come from the normalised responses of the JCup service
 * Authors: Zachary Bower
 */

package state

import "jcup-bot/api/shared"

// Event is anything Apply knows how to handle
type Event interface{ isEvent() }

// StartRequested (re)starts the tournament with an init request
type StartRequested struct{}

// NextRoundRequested asks the service to play the upcoming round
type NextRoundRequested struct{}

// RetryRequested re-issues the operation that failed
type RetryRequested struct{}

// RoundStarted carries the opening fixtures of a new tournament
type RoundStarted struct {
	Fixtures []shared.Fixture
}

// RoundCompleted carries the outcome of a round when more rounds remain
type RoundCompleted struct {
	Results      []string
	Highlights   []shared.Highlight
	NextFixtures []shared.Fixture
}

// TournamentFinished carries the outcome of the final round
type TournamentFinished struct {
	Results    []string
	Highlights []shared.Highlight
	Winner     shared.Team
}

// RequestFailed reports a transport or normalisation failure for the operation in flight
type RequestFailed struct {
	Message     string
	Recoverable bool
	Err         error
}

func (StartRequested) isEvent()     {}
func (NextRoundRequested) isEvent() {}
func (RetryRequested) isEvent()     {}
func (RoundStarted) isEvent()       {}
func (RoundCompleted) isEvent()     {}
func (TournamentFinished) isEvent() {}
func (RequestFailed) isEvent()      {}
