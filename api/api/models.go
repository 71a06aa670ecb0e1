/* models.go
 * Contains the interfaces, config and errors used by the api package
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"jcup-bot/api/external"
	"jcup-bot/api/store"
	"time"

	"go.uber.org/zap"
)

var ErrRoundLimit = errors.New("round limit reached before the tournament finished")

// Transport is the part of external.Client the api depends on
type Transport interface {
	InitTournament(ctx context.Context) (*external.InitPayload, error)
	PlayRound(ctx context.Context) (*external.PlayPayload, error)
}

// Ensure external.Client implements Transport
var _ Transport = (*external.Client)(nil)

// Config holds everything NewAPI needs. Store and Logger are optional
type Config struct {
	Transport  Transport
	Store      store.Interface
	Logger     *zap.Logger
	AllowRetry bool
	Now        func() time.Time
}

// ChampionSummary is the champion tally over the most recently finished tournaments, newest first
type ChampionSummary struct {
	Tallies []store.ChampionTally
	Recent  []store.TournamentRecord
}
