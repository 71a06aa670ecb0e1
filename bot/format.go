/* format.go
 * Contains the functions that turn view models and history into discord messages. Nothing here reads the
 * tournament state directly, everything comes from view.ViewModel
 * Authors: Zachary Bower
 */

package bot

import (
	"fmt"
	"jcup-bot/api/api"
	"jcup-bot/api/view"
	"strings"
)

// formatView renders a view model as a discord message
// Preconditions: Receives the view model to render
// Postconditions: Returns the message text, including the commands that are currently available
func formatView(vm view.ViewModel) string {
	var res strings.Builder
	res.WriteString(fmt.Sprintf("**%s**\n", vm.Title))

	if vm.Loading {
		res.WriteString(view.LoadingText + "\n")
		return res.String()
	}

	if vm.Error != "" {
		res.WriteString(fmt.Sprintf("Error: %s\n", vm.Error))
	}

	if vm.Completed {
		res.WriteString(fmt.Sprintf("Champion: %s\n", vm.Champion))
		res.WriteString(fmt.Sprintf("Final score: %s\n", vm.FinalScore))
	} else if vm.Play.Visible {
		if vm.Round > 0 {
			res.WriteString(fmt.Sprintf("Round %d complete\n", vm.Round))
		}
		res.WriteString("Upcoming fixtures:\n")
		writeList(&res, vm.Fixtures, view.NoFixturesText)
	}

	if vm.Completed {
		res.WriteString("Final round results:\n")
		writeList(&res, vm.Results, view.NoResultsText)
	} else if len(vm.Results) > 0 {
		res.WriteString("Results:\n")
		writeList(&res, vm.Results, view.NoResultsText)
	}

	if vm.ShowHighlights {
		res.WriteString("Highlights:\n")
		for _, highlight := range vm.Highlights {
			res.WriteString(fmt.Sprintf("- %s\n", strings.Join(highlight, ", ")))
		}
	}

	res.WriteString(formatActions(vm))
	return res.String()
}

// formatActions lists the commands matching the visible and enabled buttons
func formatActions(vm view.ViewModel) string {
	actions := []string{}
	if vm.Play.Visible && !vm.Play.Disabled {
		actions = append(actions, fmt.Sprintf("`$next` to %s", strings.ToLower(vm.Play.Label)))
	}
	if vm.CanRetry {
		actions = append(actions, "`$retry` to try again")
	}
	if vm.Restart.Visible && !vm.Restart.Disabled {
		actions = append(actions, fmt.Sprintf("`$start` to %s", strings.ToLower(vm.Restart.Label)))
	}
	if len(actions) == 0 {
		return ""
	}
	return fmt.Sprintf("Use %s\n", strings.Join(actions, ", "))
}

func writeList(res *strings.Builder, items []string, placeholder string) {
	if len(items) == 0 {
		res.WriteString(placeholder + "\n")
		return
	}
	for _, item := range items {
		res.WriteString(fmt.Sprintf("- %s\n", item))
	}
}

// formatChampions renders the champion tallies and the most recent finals
func formatChampions(summary api.ChampionSummary) string {
	if len(summary.Recent) == 0 {
		return "No tournaments have been completed yet"
	}

	var res strings.Builder
	res.WriteString(fmt.Sprintf("Champions of the last %d tournaments:\n", len(summary.Recent)))
	for _, tally := range summary.Tallies {
		res.WriteString(fmt.Sprintf("- %s: %d\n", tally.Team, tally.Wins))
	}
	res.WriteString("Recent finals:\n")
	for _, record := range summary.Recent {
		score := record.FinalScore()
		if score == "" {
			score = view.NoFinalScoreText
		}
		res.WriteString(fmt.Sprintf("- %s (%s): %s\n", view.TeamName(record.Winner), record.CompletedAt.Format("2006-01-02"), score))
	}
	return res.String()
}
