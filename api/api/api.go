/* api.go
 * This file contains the public methods for driving a tournament. The API owns the only tournament state: a
 * trigger is applied under the lock (moving to Loading), the remote call runs outside of it and the outcome is
 * applied afterwards, so a second trigger while a request is in flight is rejected with state.ErrBusy.
 * Shells (bot, web) should only talk to this package
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"fmt"
	"jcup-bot/api/logic"
	"jcup-bot/api/shared"
	"jcup-bot/api/state"
	"jcup-bot/api/store"
	"jcup-bot/api/view"
	"math/bits"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// API provides methods for playing a JCup tournament
type API struct {
	Transport  Transport
	Store      store.Interface // nil when history is disabled
	Logger     *zap.Logger
	AllowRetry bool

	mu           sync.Mutex
	state        state.State
	tournamentID string
	now          func() time.Time
}

// NewAPI creates a new API instance in the Idle state
// Preconditions: Receives Config with a non nil Transport
// Postconditions: Returns pointer to API, or an error if the config is invalid
func NewAPI(cfg Config) (*API, error) {
	if cfg.Transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &API{
		Transport:  cfg.Transport,
		Store:      cfg.Store,
		Logger:     logger,
		AllowRetry: cfg.AllowRetry,
		state:      state.New(),
		now:        now,
	}, nil
}

// State returns a snapshot of the current tournament state
func (a *API) State() state.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// View returns the view model of the current tournament state
func (a *API) View() view.ViewModel {
	return view.DeriveView(a.State())
}

// Start (re)starts the tournament by requesting the opening round.
// Preconditions: Receives context for the remote call
// Postconditions: Returns the resulting view. The error is state.ErrBusy / state.ErrInvalidTransition if the trigger
// was rejected, or the cause of the failure if the request failed (the view then carries the error message)
func (a *API) Start(ctx context.Context) (view.ViewModel, error) {
	return a.dispatch(ctx, state.StartRequested{})
}

// NextRound plays the upcoming round
// Preconditions: Receives context for the remote call
// Postconditions: Same as Start
func (a *API) NextRound(ctx context.Context) (view.ViewModel, error) {
	return a.dispatch(ctx, state.NextRoundRequested{})
}

// Retry re-issues the operation that failed
// Preconditions: Receives context for the remote call
// Postconditions: Same as Start, state.ErrRetryDisabled if the failure cannot be retried
func (a *API) Retry(ctx context.Context) (view.ViewModel, error) {
	return a.dispatch(ctx, state.RetryRequested{})
}

// PlayToCompletion plays rounds until the tournament is Completed.
// Preconditions: Receives context and the maximum number of rounds to play (<= 0 derives it from the bracket size)
// Postconditions: Returns the final view, ErrRoundLimit if the tournament did not finish in time, or the first
// error returned by NextRound. Starts the tournament first unless one is under way or can be retried
func (a *API) PlayToCompletion(ctx context.Context, maxRounds int) (view.ViewModel, error) {
	current := a.State()
	resumable := current.Status == state.StatusInProgress ||
		(current.Settled() == state.StatusInProgress && current.Operation == state.OpPlay && current.CanRetry())
	if !resumable {
		vm, err := a.Start(ctx)
		if err != nil {
			return vm, err
		}
		current = a.State()
	}

	if maxRounds <= 0 {
		maxRounds = RoundLimit(len(logic.TeamNames(current.Fixtures)))
	}

	vm := view.DeriveView(current)
	for played := 0; !vm.Completed; played++ {
		if played >= maxRounds {
			return vm, fmt.Errorf("%w (%d rounds)", ErrRoundLimit, maxRounds)
		}
		if err := ctx.Err(); err != nil {
			return vm, err
		}

		var err error
		vm, err = a.NextRound(ctx)
		if err != nil {
			return vm, err
		}
	}
	return vm, nil
}

// RoundLimit is the number of rounds a bracket of the given size needs, plus slack for byes
func RoundLimit(teams int) int {
	return bits.Len(uint(teams)) + 2
}

// FindTeam looks up a team in the upcoming round
// Preconditions: Receives the (possibly partial) team name
// Postconditions: Returns a description of the team's next fixture, or an error if no team matches
func (a *API) FindTeam(query string) (string, error) {
	current := a.State()
	if len(current.Fixtures) == 0 {
		return "", fmt.Errorf("there are no upcoming fixtures")
	}
	return logic.DescribeTeamFixture(query, current.Fixtures)
}

// History returns the most recently finished tournaments
// Preconditions: Receives maximum number of records
// Postconditions: Returns records newest first, or an error if history is disabled or cannot be fetched
func (a *API) History(limit int) ([]store.TournamentRecord, error) {
	if a.Store == nil {
		return nil, fmt.Errorf("tournament history is not configured")
	}
	return a.Store.FetchHistory(limit)
}

// Champions returns the number of wins per team over the most recently finished tournaments
// Preconditions: Receives maximum number of tournaments to count
// Postconditions: Returns the tallies and the tournaments they were counted from, or an error if History fails
func (a *API) Champions(limit int) (ChampionSummary, error) {
	records, err := a.History(limit)
	if err != nil {
		return ChampionSummary{}, err
	}
	return ChampionSummary{Tallies: store.TallyChampions(records), Recent: records}, nil
}

// dispatch applies a trigger event, performs the remote call it asks for and applies the outcome
func (a *API) dispatch(ctx context.Context, trigger state.Event) (view.ViewModel, error) {
	a.mu.Lock()
	next, err := state.Apply(a.state, trigger)
	if err != nil {
		current := a.state
		a.mu.Unlock()
		a.Logger.Debug("trigger rejected", zap.String("trigger", fmt.Sprintf("%T", trigger)), zap.Error(err))
		return view.DeriveView(current), err
	}
	a.state = next
	op := next.Operation
	a.mu.Unlock()

	// An issued request runs to completion, the client timeout is its only deadline
	outcome := a.perform(context.WithoutCancel(ctx), op)

	a.mu.Lock()
	settled, err := state.Apply(a.state, outcome)
	if err != nil {
		// Only this goroutine can leave Loading, so this is a programming error
		current := a.state
		a.mu.Unlock()
		a.Logger.Error("failed to apply outcome", zap.Error(err))
		return view.DeriveView(current), err
	}
	a.state = settled
	if op == state.OpInit && settled.Status == state.StatusInProgress {
		a.tournamentID = uuid.NewString()
	}
	tournamentID := a.tournamentID
	a.mu.Unlock()

	logger := a.Logger.With(zap.String("tournament", tournamentID), zap.String("operation", string(op)))
	switch e := outcome.(type) {
	case state.RequestFailed:
		logger.Warn("request failed", zap.Bool("recoverable", e.Recoverable), zap.Error(e.Err))
		return view.DeriveView(settled), e.Err
	case state.TournamentFinished:
		logger.Info("tournament finished", zap.String("winner", e.Winner.Name), zap.Int("rounds", settled.Round))
		a.archive(logger, tournamentID, settled)
	default:
		logger.Debug("round applied", zap.Int("round", settled.Round), zap.Int("fixtures", len(settled.Fixtures)))
	}
	return view.DeriveView(settled), nil
}

// perform issues op against the transport and normalises the response into an outcome event
func (a *API) perform(ctx context.Context, op state.Operation) state.Event {
	switch op {
	case state.OpInit:
		payload, err := a.Transport.InitTournament(ctx)
		if err != nil {
			return a.transportFailure("failed to start the tournament", err)
		}
		return logic.NormalizeInit(payload)

	case state.OpPlay:
		payload, err := a.Transport.PlayRound(ctx)
		if err != nil {
			return a.transportFailure("failed to play the round", err)
		}
		event, err := logic.NormalizePlay(payload)
		if err != nil {
			return state.RequestFailed{Message: err.Error(), Recoverable: false, Err: err}
		}
		return event
	}

	err := fmt.Errorf("unknown operation %q", op)
	return state.RequestFailed{Message: err.Error(), Recoverable: false, Err: err}
}

func (a *API) transportFailure(action string, err error) state.RequestFailed {
	message := fmt.Sprintf("%s: %v, make sure the backend is reachable", action, err)
	return state.RequestFailed{Message: message, Recoverable: a.AllowRetry, Err: err}
}

// archive stores the finished tournament. Failures are only logged, the tournament state is already final
func (a *API) archive(logger *zap.Logger, tournamentID string, finished state.State) {
	if a.Store == nil {
		return
	}

	winner := shared.Team{}
	if finished.Winner != nil {
		winner = *finished.Winner
	}
	record := store.NewTournamentRecord(tournamentID, winner, finished.Results, finished.Highlights, finished.Round, a.now())
	if err := a.Store.StoreTournament(record); err != nil {
		logger.Error("failed to archive tournament", zap.Error(err))
		return
	}
	logger.Info("tournament archived", zap.String("record", record.ID))
}
