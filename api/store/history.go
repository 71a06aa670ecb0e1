/* history.go
 * Contains the methods for interacting with the tournament_history collection
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultHistoryLimit is used when FetchHistory is called with a non-positive limit
const DefaultHistoryLimit = 10

// StoreTournament archives a finished tournament
// Preconditions: Receives receiver pointer for Store and the TournamentRecord to be stored
// Postconditions: Inserts the record into the history collection and returns nil, or an error if it occurs
func (s *Store) StoreTournament(record TournamentRecord) error {
	if record.ID == "" {
		return fmt.Errorf("tournament record must have an id")
	}

	_, err := s.Collections.History.InsertOne(context.TODO(), record)
	if err != nil {
		return fmt.Errorf("failed to insert tournament record: %w", err)
	}
	return nil
}

// FetchHistory returns the most recently finished tournaments, newest first
// Preconditions: Receives receiver pointer for Store and the maximum number of records to return
// Postconditions: Returns slice of TournamentRecord, or an error if it occurs
func (s *Store) FetchHistory(limit int) ([]TournamentRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "completedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.Collections.History.Find(context.TODO(), bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tournament history: %w", err)
	}
	defer cursor.Close(context.TODO())

	records := []TournamentRecord{}
	if err := cursor.All(context.TODO(), &records); err != nil {
		return nil, fmt.Errorf("failed to decode tournament history: %w", err)
	}
	return records, nil
}
