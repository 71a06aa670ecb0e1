/* test_helpers.go
 * Contains test helper functions for store package tests
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"jcup-bot/api/shared"
	"time"
)

// CreateTestStore creates a Store connected to a test database.
// Returns the store and a cleanup function.
func CreateTestStore(mongoURI string) (*Store, func(), error) {
	store, err := NewStore("test_jcup", mongoURI)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if store.Client != nil {
			// Drop test database
			store.Database.Drop(context.TODO())
			// Disconnect client
			store.Client.Disconnect(context.TODO())
		}
	}

	return store, cleanup, nil
}

// CreateSampleRecord creates a sample TournamentRecord for testing.
func CreateSampleRecord(winner string, completedAt time.Time) TournamentRecord {
	return NewTournamentRecord("", shared.Team{Name: winner}, []string{"Semi: " + winner + " beat A", "Final: " + winner + " wins"}, []shared.Highlight{{winner + " lifts the cup"}}, 3, completedAt)
}
