/* test_mocks.go
 * Contains mock structures and helpers for testing the API package
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"jcup-bot/api/external"
	"jcup-bot/api/logic"
	"jcup-bot/api/shared"
	"jcup-bot/api/store"
	"sync"
)

// InitResponse is one scripted answer to InitTournament
type InitResponse struct {
	Payload *external.InitPayload
	Err     error
}

// PlayResponse is one scripted answer to PlayRound
type PlayResponse struct {
	Payload *external.PlayPayload
	Err     error
}

// MockTransport implements the Transport interface for testing.
// Responses are consumed in order; the last one is repeated once the others are used up
type MockTransport struct {
	mu            sync.Mutex
	InitResponses []InitResponse
	PlayResponses []PlayResponse
	InitCalls     int
	PlayCalls     int

	// When Gate is set every call signals Entered (if set) and blocks until Gate is closed or ctx is done
	Gate    chan struct{}
	Entered chan struct{}
}

// InitTournament mock implementation
func (m *MockTransport) InitTournament(ctx context.Context) (*external.InitPayload, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitCalls++
	if len(m.InitResponses) == 0 {
		return nil, fmt.Errorf("no scripted init response")
	}
	res := m.InitResponses[0]
	if len(m.InitResponses) > 1 {
		m.InitResponses = m.InitResponses[1:]
	}
	return res.Payload, res.Err
}

// PlayRound mock implementation
func (m *MockTransport) PlayRound(ctx context.Context) (*external.PlayPayload, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlayCalls++
	if len(m.PlayResponses) == 0 {
		return nil, fmt.Errorf("no scripted play response")
	}
	res := m.PlayResponses[0]
	if len(m.PlayResponses) > 1 {
		m.PlayResponses = m.PlayResponses[1:]
	}
	return res.Payload, res.Err
}

// wait blocks on Gate like a slow service would, giving up when ctx is cancelled
func (m *MockTransport) wait(ctx context.Context) error {
	if m.Gate == nil {
		return nil
	}
	if m.Entered != nil {
		select {
		case m.Entered <- struct{}{}:
		default:
		}
	}
	select {
	case <-m.Gate:
	case <-ctx.Done():
	}
	if err := ctx.Err(); err != nil {
		return &external.TransportError{Cause: err.Error(), Err: err}
	}
	return nil
}

// MockStore implements the store.Interface for testing
type MockStore struct {
	Records []store.TournamentRecord

	// Error injection for testing error paths
	StoreTournamentError error
	FetchHistoryError    error
}

// mockDatabase implements the minimal Database interface needed for tests
type mockDatabase struct {
	name string
}

func (m *mockDatabase) Name() string {
	return m.name
}

// mockClient implements the minimal Client interface needed for tests
type mockClient struct{}

func (m *mockClient) Disconnect(ctx context.Context) error {
	return nil
}

// StoreTournament mock implementation
func (m *MockStore) StoreTournament(record store.TournamentRecord) error {
	if m.StoreTournamentError != nil {
		return m.StoreTournamentError
	}
	m.Records = append(m.Records, record)
	return nil
}

// FetchHistory mock implementation, returns the most recently stored records first
func (m *MockStore) FetchHistory(limit int) ([]store.TournamentRecord, error) {
	if m.FetchHistoryError != nil {
		return nil, m.FetchHistoryError
	}
	if limit <= 0 {
		limit = store.DefaultHistoryLimit
	}

	records := []store.TournamentRecord{}
	for i := len(m.Records) - 1; i >= 0 && len(records) < limit; i-- {
		records = append(records, m.Records[i])
	}
	return records, nil
}

// GetDatabase mock implementation
func (m *MockStore) GetDatabase() interface{ Name() string } {
	return &mockDatabase{name: "test_db"}
}

// GetClient mock implementation
func (m *MockStore) GetClient() interface{ Disconnect(context.Context) error } {
	return &mockClient{}
}

// Ensure MockStore implements store.Interface
var _ store.Interface = (*MockStore)(nil)

// region payload helpers

// Match builds a wire fixture, an empty team2 means a bye
func Match(team1 string, team2 string) external.RawFixture {
	fixture := external.RawFixture{Team1: &shared.Team{Name: team1}}
	if team2 != "" {
		fixture.Team2 = &shared.Team{Name: team2}
	}
	return fixture
}

// InitOf builds an init payload whose first round is the given fixtures
func InitOf(fixtures ...external.RawFixture) *external.InitPayload {
	return &external.InitPayload{Fixtures: [][]external.RawFixture{fixtures}}
}

// RoundOf builds a play payload for a round that is followed by the given fixtures
func RoundOf(results []string, next ...external.RawFixture) *external.PlayPayload {
	if next == nil {
		next = []external.RawFixture{}
	}
	raw, _ := json.Marshal(next)
	return &external.PlayPayload{Results: &external.PlayResults{
		RoundResults:      results,
		Highlights:        []shared.Highlight{{"highlight"}},
		NextRoundFixtures: raw,
	}}
}

// FinalOf builds a play payload that ends the tournament with the sentinel string. An empty winner omits it
func FinalOf(results []string, winner string) *external.PlayPayload {
	raw, _ := json.Marshal(logic.FinishedSentinel)
	payload := &external.PlayPayload{Results: &external.PlayResults{
		RoundResults:      results,
		NextRoundFixtures: raw,
	}}
	if winner != "" {
		payload.Results.Winner = &shared.Team{Name: winner}
	}
	return payload
}

// endregion
