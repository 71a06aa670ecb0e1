/* view.go
 * Contains the presentation adapter: it derives everything a shell needs to display from the tournament state.
 * DeriveView has no side effects and never fails, missing data is replaced with placeholders
 * Authors: Zachary Bower
 */

package view

import (
	"fmt"
	"jcup-bot/api/shared"
	"jcup-bot/api/state"
)

const (
	Title            = "JCup Tournament"
	UnknownTeam      = "Unknown"
	LoadingText      = "Loading..."
	NoFixturesText   = "No fixtures to display."
	NoResultsText    = "No results to display."
	NoFinalScoreText = "No final score available."

	LabelStartRound      = "Start Round"
	LabelNextRound       = "Next Round"
	LabelStartTournament = "Start Tournament"
	LabelRestart         = "Restart Tournament"
)

// Button describes one action control
type Button struct {
	Label    string `json:"label"`
	Visible  bool   `json:"visible"`
	Disabled bool   `json:"disabled"`
}

// ViewModel is the displayable form of a state.State
type ViewModel struct {
	Title          string             `json:"title"`
	Status         state.Status       `json:"status"`
	Loading        bool               `json:"loading"`
	Round          int                `json:"round"`
	Fixtures       []string           `json:"fixtures"`
	Results        []string           `json:"results"`
	Highlights     []shared.Highlight `json:"highlights"`
	ShowHighlights bool               `json:"showHighlights"`
	Completed      bool               `json:"completed"`
	Champion       string             `json:"champion,omitempty"`
	FinalScore     string             `json:"finalScore,omitempty"`
	Error          string             `json:"error,omitempty"`
	CanRetry       bool               `json:"canRetry"`
	Play           Button             `json:"play"`
	Restart        Button             `json:"restart"`
}

// TeamName returns the display name of a team
func TeamName(team shared.Team) string {
	if team.Name == "" {
		return UnknownTeam
	}
	return team.Name
}

// FixtureText returns "A vs B", or "A has a bye" when there is no opponent
func FixtureText(fixture shared.Fixture) string {
	if fixture.Team2 == nil {
		return fmt.Sprintf("%s has a bye", TeamName(fixture.Team1))
	}
	return fmt.Sprintf("%s vs %s", TeamName(fixture.Team1), TeamName(*fixture.Team2))
}

// FinalScore returns the last result of the final round, or a placeholder when there is none
func FinalScore(finalResults []string) string {
	if len(finalResults) == 0 {
		return NoFinalScoreText
	}
	return finalResults[len(finalResults)-1]
}

// DeriveView builds the view model for s
func DeriveView(s state.State) ViewModel {
	settled := s.Settled()
	failed := s.Status == state.StatusFailed && s.Failure != nil

	vm := ViewModel{
		Title:      Title,
		Status:     s.Status,
		Loading:    s.IsLoading(),
		Round:      s.Round,
		Fixtures:   make([]string, 0, len(s.Fixtures)),
		Results:    make([]string, 0, len(s.Results)),
		Highlights: make([]shared.Highlight, 0, len(s.Highlights)),
		Completed:  settled == state.StatusCompleted,
	}

	for _, fixture := range s.Fixtures {
		vm.Fixtures = append(vm.Fixtures, FixtureText(fixture))
	}
	vm.Results = append(vm.Results, s.Results...)

	// Only the most recent round's highlights are kept in state, empty sets are dropped
	for _, highlight := range s.Highlights {
		if len(highlight) > 0 {
			vm.Highlights = append(vm.Highlights, highlight)
		}
	}
	vm.ShowHighlights = len(vm.Highlights) > 0

	if vm.Completed {
		vm.FinalScore = FinalScore(s.Results)
		if s.Winner != nil {
			vm.Champion = TeamName(*s.Winner)
		} else {
			vm.Champion = UnknownTeam
		}
	}

	if failed {
		vm.Error = s.Failure.Message
		vm.CanRetry = s.CanRetry()
	}

	// Play button: only meaningful while a tournament is under way, and only re-issues a failed play
	vm.Play = Button{
		Label:    LabelStartRound,
		Visible:  settled == state.StatusInProgress,
		Disabled: vm.Loading || (failed && (!s.Failure.Recoverable || s.Operation != state.OpPlay)),
	}
	if len(s.Results) > 0 {
		vm.Play.Label = LabelNextRound
	}

	// Restart button: offered when there is nothing to play, or after any failure so a lockout is impossible
	vm.Restart = Button{
		Label:    LabelStartTournament,
		Visible:  settled == state.StatusIdle || settled == state.StatusCompleted || failed,
		Disabled: vm.Loading,
	}
	if settled != state.StatusIdle {
		vm.Restart.Label = LabelRestart
	}

	return vm
}
