/* input_processing.go
 * Contains the logic for processing user input and matching it against the teams in the tournament
 * Authors: Zachary Bower
 */

package logic

import (
	"fmt"
	"jcup-bot/api/shared"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// FindTeam matches a (possibly misspelt) team name against a list of known team names.
// Preconditions: receives the user's query and the list of valid team names
// Postconditions: returns the correctly formatted team name, or an error if nothing matches
func FindTeam(query string, validTeams []string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("team name cannot be empty")
	}

	// Convert valid teams to lowercase for better matching
	lookup := make(map[string]string)
	var validTeamsLower []string
	for _, name := range validTeams {
		lower := strings.ToLower(name)
		if _, ok := lookup[lower]; ok {
			continue
		}
		lookup[lower] = name
		validTeamsLower = append(validTeamsLower, lower)
	}

	lowerQuery := strings.ToLower(query)
	if name, ok := lookup[lowerQuery]; ok {
		return name, nil
	}

	fuzzyResults := fuzzy.RankFind(lowerQuery, validTeamsLower)
	if len(fuzzyResults) == 0 {
		return "", fmt.Errorf("no team matching '%s'", query)
	}
	// Closest match first
	sort.Sort(fuzzyResults)
	return lookup[fuzzyResults[0].Target], nil
}

// TeamNames returns the distinct team names appearing in the fixtures, in fixture order
func TeamNames(fixtures []shared.Fixture) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(team shared.Team) {
		if team.Name == "" || seen[team.Name] {
			return
		}
		seen[team.Name] = true
		names = append(names, team.Name)
	}
	for _, fixture := range fixtures {
		add(fixture.Team1)
		if fixture.Team2 != nil {
			add(*fixture.Team2)
		}
	}
	return names
}

// DescribeTeamFixture reports what a team does in the upcoming round.
// Preconditions: receives the user's query and the upcoming fixtures
// Postconditions: returns a sentence such as "A plays B" or "A has a bye", or an error if the team is not in the round
func DescribeTeamFixture(query string, fixtures []shared.Fixture) (string, error) {
	team, err := FindTeam(query, TeamNames(fixtures))
	if err != nil {
		return "", err
	}

	for _, fixture := range fixtures {
		switch {
		case fixture.Team1.Name == team && fixture.Team2 == nil:
			return fmt.Sprintf("%s has a bye", team), nil
		case fixture.Team1.Name == team:
			return fmt.Sprintf("%s plays %s", team, displayName(fixture.Team2.Name)), nil
		case fixture.Team2 != nil && fixture.Team2.Name == team:
			return fmt.Sprintf("%s plays %s", team, displayName(fixture.Team1.Name)), nil
		}
	}
	return "", fmt.Errorf("'%s' is not in the upcoming round", team)
}

func displayName(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}
