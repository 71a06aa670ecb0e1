/* models.go
 * This file contains the models used by the external package when fetching data from the JCup service
 * Authors: Zachary Bower
 */

package external

import (
	"encoding/json"
	"fmt"
	"jcup-bot/api/shared"
)

// CauseParseError is the TransportError cause used when a response body does not match the documented shape
const CauseParseError = "parse-error"

// CauseTimeout is the TransportError cause used when the request timed out before a response arrived
const CauseTimeout = "timeout"

// InitPayload is the body of GET /api/jcup/init. Only the first round of Fixtures is consumed
type InitPayload struct {
	Fixtures [][]RawFixture `json:"fixtures"`
}

// RawFixture mirrors a fixture on the wire, where either team may be null
type RawFixture struct {
	Team1 *shared.Team `json:"team1"`
	Team2 *shared.Team `json:"team2"`
}

// PlayPayload is the body of GET /api/jcup/play
type PlayPayload struct {
	Results *PlayResults `json:"results"`
}

// PlayResults holds the outcome of one simulated round.
// NextRoundFixtures is kept raw because the service has sent it as a fixture list, an empty list and a
// sentinel string over time
type PlayResults struct {
	RoundResults      []string           `json:"roundResults"`
	Highlights        []shared.Highlight `json:"highlights"`
	NextRoundFixtures json.RawMessage    `json:"nextRoundFixtures"`
	Winner            *shared.Team       `json:"winner"`
}

// TransportError is returned for every failed call to the JCup service: non-2xx status, network failure or
// an unparsable body. Status is 0 when no HTTP response was received
type TransportError struct {
	Status int
	Cause  string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("jcup service returned status %d: %s", e.Status, e.Cause)
	}
	return fmt.Sprintf("jcup service request failed: %s", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether the service answered but the body could not be decoded
func (e *TransportError) IsParseError() bool {
	return e.Cause == CauseParseError
}
