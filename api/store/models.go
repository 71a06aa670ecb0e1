/* models.go
 * This file contain the structs and helper functions that relate to DB objects
 * Authors: Zachary Bower
 */

package store

import (
	"jcup-bot/api/shared"
	"sort"
	"time"

	"github.com/google/uuid"
)

// TournamentRecord is the archived outcome of one finished tournament
type TournamentRecord struct {
	ID           string             `bson:"_id"`
	Winner       shared.Team        `bson:"winner"`
	FinalResults []string           `bson:"finalResults,omitempty"`
	Highlights   []shared.Highlight `bson:"highlights,omitempty"`
	Rounds       int                `bson:"rounds"`
	CompletedAt  time.Time          `bson:"completedAt"`
}

// ChampionTally is the number of tournaments a team has won
type ChampionTally struct {
	Team string
	Wins int
}

// NewTournamentRecord creates a record with a fresh id
// Preconditions: Receives the tournament id (generated if empty), winner, final round results and highlights, number
// of rounds played and completion time
// Postconditions: Returns the record ready to be inserted in the db
func NewTournamentRecord(id string, winner shared.Team, finalResults []string, highlights []shared.Highlight, rounds int, completedAt time.Time) TournamentRecord {
	if id == "" {
		id = uuid.NewString()
	}
	return TournamentRecord{
		ID:           id,
		Winner:       winner,
		FinalResults: finalResults,
		Highlights:   highlights,
		Rounds:       rounds,
		CompletedAt:  completedAt.UTC(),
	}
}

// FinalScore returns the last result of the final round, or an empty string if none was recorded
func (r TournamentRecord) FinalScore() string {
	if len(r.FinalResults) == 0 {
		return ""
	}
	return r.FinalResults[len(r.FinalResults)-1]
}

// TallyChampions counts the wins per team, most wins first and ties broken by name
func TallyChampions(records []TournamentRecord) []ChampionTally {
	counts := make(map[string]int)
	for _, record := range records {
		name := record.Winner.Name
		if name == "" {
			name = "Unknown"
		}
		counts[name]++
	}

	tallies := make([]ChampionTally, 0, len(counts))
	for team, wins := range counts {
		tallies = append(tallies, ChampionTally{Team: team, Wins: wins})
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].Wins != tallies[j].Wins {
			return tallies[i].Wins > tallies[j].Wins
		}
		return tallies[i].Team < tallies[j].Team
	})
	return tallies
}
