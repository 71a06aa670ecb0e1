/* models.go
 * This file contain the interfaces, structs and helper functions that are shared between sub packages
 * Authors: Zachary Bower
 */

package shared

// Team is a participant as reported by the JCup service. ID is opaque to the client
type Team struct {
	Name string `json:"name" bson:"name,omitempty"`
	ID   any    `json:"id,omitempty" bson:"id,omitempty"`
}

// Fixture is a scheduled pairing for an upcoming round. A nil Team2 means Team1 has a bye
type Fixture struct {
	Team1 Team  `json:"team1" bson:"team1"`
	Team2 *Team `json:"team2" bson:"team2,omitempty"`
}

// IsBye reports whether the fixture has no opponent
func (f Fixture) IsBye() bool {
	return f.Team2 == nil
}

// Highlight is the ordered set of snippets for one match of a round
type Highlight []string
