/* normalize.go
 * Contains the logic for turning JCup service payloads into progression events. The service has signalled the end
 * of a tournament in three different ways over time (empty fixture list, a single bye fixture and a sentinel
 * string), all of them are checked on every response
 * Authors: Zachary Bower
 */

package logic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"jcup-bot/api/external"
	"jcup-bot/api/shared"
	"jcup-bot/api/state"
)

// FinishedSentinel is sent by older service versions in place of the next round fixtures
const FinishedSentinel = "Tournament finished, initializing new tournament."

// NormalizationError is returned when a payload breaks the contract in a way that cannot be defaulted
type NormalizationError struct {
	Reason string
	Err    error
}

func (e *NormalizationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected tournament data: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("unexpected tournament data: %s", e.Reason)
}

func (e *NormalizationError) Unwrap() error {
	return e.Err
}

// NormalizeInit converts an init payload into the opening round.
// Preconditions: Receives the decoded init payload (may be nil)
// Postconditions: Returns RoundStarted with the first round of fixtures, or no fixtures if none were sent
func NormalizeInit(payload *external.InitPayload) state.RoundStarted {
	if payload == nil || len(payload.Fixtures) == 0 {
		return state.RoundStarted{Fixtures: []shared.Fixture{}}
	}
	return state.RoundStarted{Fixtures: toFixtures(payload.Fixtures[0])}
}

// NormalizePlay converts a play payload into either RoundCompleted or TournamentFinished.
// Preconditions: Receives the decoded play payload
// Postconditions: Returns the progression event, or a *NormalizationError if the tournament is over without a
// winner or nextRoundFixtures has an unknown shape
func NormalizePlay(payload *external.PlayPayload) (state.Event, error) {
	results := &external.PlayResults{}
	if payload != nil && payload.Results != nil {
		results = payload.Results
	}

	roundResults := results.RoundResults
	if roundResults == nil {
		roundResults = []string{}
	}
	highlights := results.Highlights
	if highlights == nil {
		highlights = []shared.Highlight{}
	}

	next, sentinel, err := decodeNextFixtures(results.NextRoundFixtures)
	if err != nil {
		return nil, err
	}

	if sentinel || isFinalRound(next) {
		if results.Winner == nil {
			return nil, &NormalizationError{Reason: "tournament finished without a winner"}
		}
		return state.TournamentFinished{
			Results:    roundResults,
			Highlights: highlights,
			Winner:     *results.Winner,
		}, nil
	}

	return state.RoundCompleted{
		Results:      roundResults,
		Highlights:   highlights,
		NextFixtures: next,
	}, nil
}

// isFinalRound reports whether no further round can be played: nothing left, or a lone team with a bye
func isFinalRound(next []shared.Fixture) bool {
	return len(next) == 0 || (len(next) == 1 && next[0].IsBye())
}

// decodeNextFixtures reads nextRoundFixtures, which is either a fixture list or the finished sentinel.
// Absent and null are treated as an empty list
func decodeNextFixtures(raw json.RawMessage) ([]shared.Fixture, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []shared.Fixture{}, false, nil
	}

	switch raw[0] {
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, false, &NormalizationError{Reason: "invalid nextRoundFixtures string", Err: err}
		}
		if text != FinishedSentinel {
			return nil, false, &NormalizationError{Reason: fmt.Sprintf("unknown nextRoundFixtures message %q", text)}
		}
		return []shared.Fixture{}, true, nil

	case '[':
		var fixtures []external.RawFixture
		if err := json.Unmarshal(raw, &fixtures); err != nil {
			return nil, false, &NormalizationError{Reason: "invalid nextRoundFixtures list", Err: err}
		}
		return toFixtures(fixtures), false, nil
	}

	return nil, false, &NormalizationError{Reason: fmt.Sprintf("nextRoundFixtures has unsupported value %s", raw)}
}

// toFixtures copies wire fixtures into the shared model. A missing team1 becomes an unnamed team so that a
// fixture always has a first team
func toFixtures(raw []external.RawFixture) []shared.Fixture {
	fixtures := make([]shared.Fixture, 0, len(raw))
	for _, r := range raw {
		var fixture shared.Fixture
		if r.Team1 != nil {
			fixture.Team1 = *r.Team1
		}
		if r.Team2 != nil {
			team2 := *r.Team2
			fixture.Team2 = &team2
		}
		fixtures = append(fixtures, fixture)
	}
	return fixtures
}
