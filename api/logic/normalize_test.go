/* normalize_test.go
 * Contains unit tests for normalize.go
 * Authors: Zachary Bower
 */

package logic

import (
	"encoding/json"
	"errors"
	"jcup-bot/api/external"
	"jcup-bot/api/shared"
	"jcup-bot/api/state"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodePlay decodes a play body the same way the transport client does
func decodePlay(t *testing.T, body string) *external.PlayPayload {
	t.Helper()
	var payload external.PlayPayload
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	return &payload
}

func decodeInit(t *testing.T, body string) *external.InitPayload {
	t.Helper()
	var payload external.InitPayload
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	return &payload
}

// region NormalizeInit tests

func TestNormalizeInit_FirstRoundOnly(t *testing.T) {
	payload := decodeInit(t, `{"fixtures":[[{"team1":{"name":"A"},"team2":{"name":"B"}}],[{"team1":{"name":"X"},"team2":{"name":"Y"}}]]}`)

	event := NormalizeInit(payload)

	require.Len(t, event.Fixtures, 1)
	assert.Equal(t, "A", event.Fixtures[0].Team1.Name)
	assert.Equal(t, "B", event.Fixtures[0].Team2.Name)
}

func TestNormalizeInit_MissingFixtures(t *testing.T) {
	event := NormalizeInit(decodeInit(t, `{}`))

	assert.NotNil(t, event.Fixtures)
	assert.Empty(t, event.Fixtures)
}

func TestNormalizeInit_NilPayload(t *testing.T) {
	event := NormalizeInit(nil)

	assert.Empty(t, event.Fixtures)
}

func TestNormalizeInit_NullTeam1BecomesUnnamedTeam(t *testing.T) {
	event := NormalizeInit(decodeInit(t, `{"fixtures":[[{"team1":null,"team2":{"name":"B"}}]]}`))

	require.Len(t, event.Fixtures, 1)
	assert.Equal(t, "", event.Fixtures[0].Team1.Name)
	assert.False(t, event.Fixtures[0].IsBye())
}

// endregion

// region NormalizePlay tests

func TestNormalizePlay_RoundCompleted(t *testing.T) {
	payload := decodePlay(t, `{"results":{"roundResults":["A beat B 3-1","C beat D 2-0"],"highlights":[["A scores early"],["C holds on"]],"nextRoundFixtures":[{"team1":{"name":"A"},"team2":{"name":"C"}}]}}`)

	event, err := NormalizePlay(payload)

	require.NoError(t, err)
	completed, ok := event.(state.RoundCompleted)
	require.True(t, ok, "expected RoundCompleted, got %T", event)
	assert.Equal(t, []string{"A beat B 3-1", "C beat D 2-0"}, completed.Results)
	assert.Len(t, completed.Highlights, 2)
	require.Len(t, completed.NextFixtures, 1)
	assert.Equal(t, "C", completed.NextFixtures[0].Team2.Name)
}

func TestNormalizePlay_ByeAmongSeveralFixturesIsNotTerminal(t *testing.T) {
	payload := decodePlay(t, `{"results":{"nextRoundFixtures":[{"team1":{"name":"A"},"team2":{"name":"C"}},{"team1":{"name":"E"},"team2":null}]}}`)

	event, err := NormalizePlay(payload)

	require.NoError(t, err)
	completed, ok := event.(state.RoundCompleted)
	require.True(t, ok)
	assert.True(t, completed.NextFixtures[1].IsBye())
	assert.Empty(t, completed.Results)
	assert.NotNil(t, completed.Results)
	assert.NotNil(t, completed.Highlights)
}

func TestNormalizePlay_TerminalEncodings(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty list", `{"results":{"roundResults":["Final: C wins"],"nextRoundFixtures":[],"winner":{"name":"C"}}}`},
		{"single bye", `{"results":{"roundResults":["Final: C wins"],"nextRoundFixtures":[{"team1":{"name":"C"},"team2":null}],"winner":{"name":"C"}}}`},
		{"single bye without team2 key", `{"results":{"roundResults":["Final: C wins"],"nextRoundFixtures":[{"team1":{"name":"C"}}],"winner":{"name":"C"}}}`},
		{"sentinel string", `{"results":{"roundResults":["Final: C wins"],"nextRoundFixtures":"Tournament finished, initializing new tournament.","winner":{"name":"C"}}}`},
		{"null", `{"results":{"roundResults":["Final: C wins"],"nextRoundFixtures":null,"winner":{"name":"C"}}}`},
		{"absent", `{"results":{"roundResults":["Final: C wins"],"winner":{"name":"C"}}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			event, err := NormalizePlay(decodePlay(t, tc.body))

			require.NoError(t, err)
			finished, ok := event.(state.TournamentFinished)
			require.True(t, ok, "expected TournamentFinished, got %T", event)
			assert.Equal(t, "C", finished.Winner.Name)
			assert.Equal(t, []string{"Final: C wins"}, finished.Results)
		})
	}
}

func TestNormalizePlay_TerminalWithoutWinner(t *testing.T) {
	cases := []string{
		`{"results":{"roundResults":["A beat B 3-1"],"nextRoundFixtures":[]}}`,
		`{"results":{"nextRoundFixtures":[{"team1":{"name":"A"},"team2":null}]}}`,
		`{"results":{"nextRoundFixtures":"Tournament finished, initializing new tournament.","winner":null}}`,
	}

	for _, body := range cases {
		event, err := NormalizePlay(decodePlay(t, body))

		assert.Nil(t, event)
		var normErr *NormalizationError
		require.True(t, errors.As(err, &normErr), body)
		assert.Contains(t, normErr.Error(), "without a winner")
	}
}

func TestNormalizePlay_UnknownString(t *testing.T) {
	_, err := NormalizePlay(decodePlay(t, `{"results":{"nextRoundFixtures":"Round postponed","winner":{"name":"C"}}}`))

	var normErr *NormalizationError
	require.True(t, errors.As(err, &normErr))
	assert.Contains(t, normErr.Error(), "Round postponed")
}

func TestNormalizePlay_UnsupportedType(t *testing.T) {
	_, err := NormalizePlay(decodePlay(t, `{"results":{"nextRoundFixtures":{"team1":{"name":"A"}}}}`))

	var normErr *NormalizationError
	assert.True(t, errors.As(err, &normErr))
}

func TestNormalizePlay_MalformedFixtureList(t *testing.T) {
	_, err := NormalizePlay(decodePlay(t, `{"results":{"nextRoundFixtures":[1,2,3]}}`))

	var normErr *NormalizationError
	require.True(t, errors.As(err, &normErr))
	assert.NotNil(t, errors.Unwrap(normErr))
}

func TestNormalizePlay_NilResultsTreatedAsEmpty(t *testing.T) {
	_, err := NormalizePlay(&external.PlayPayload{})

	var normErr *NormalizationError
	assert.True(t, errors.As(err, &normErr))
}

func TestNormalizePlay_KeepsTeamID(t *testing.T) {
	event, err := NormalizePlay(decodePlay(t, `{"results":{"nextRoundFixtures":[],"winner":{"name":"C","id":42}}}`))

	require.NoError(t, err)
	finished := event.(state.TournamentFinished)
	assert.Equal(t, shared.Team{Name: "C", ID: float64(42)}, finished.Winner)
}

// endregion
