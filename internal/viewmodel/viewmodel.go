package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"padel-connect/internal/domain"
	"padel-connect/internal/identity"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrCannotJoin    = errors.New("cannot join: match full or already joined")
	ErrCannotLeave   = errors.New("cannot leave")
	ErrMatchNotFound = errors.New("match not found")
)

// MatchLedger is the authoritative match store the view model reads through.
type MatchLedger interface {
	CreateMatch(ctx context.Context, params domain.CreateMatchParams) (domain.Match, error)
	GetMatch(ctx context.Context, id string) (domain.Match, bool, error)
	ListMatches(ctx context.Context) ([]domain.Match, error)
	JoinMatch(ctx context.Context, id, userID string) (bool, error)
	LeaveMatch(ctx context.Context, id, userID string) (bool, error)
}

// State is what presentation renders: the cached list plus loading and error banners.
type State struct {
	Matches []domain.Match
	Loading bool
	Err     string
}

// CreateMatchInput is the create form; the creator is always the caller.
type CreateMatchInput struct {
	ClubName    string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
	TotalSpots  int
	Description string
	SkillLevel  domain.SkillLevel
}

type MatchViewModel struct {
	ledger   MatchLedger
	identity identity.Provider
	logger   zerolog.Logger

	// ops serialises operations; state guards the fields below.
	ops     sync.Mutex
	state   sync.RWMutex
	matches []domain.Match
	loading bool
	errMsg  string
}

func New(ledger MatchLedger, idp identity.Provider, logger zerolog.Logger) *MatchViewModel {
	return &MatchViewModel{
		ledger:   ledger,
		identity: idp,
		logger:   logger,
		matches:  []domain.Match{},
	}
}

// CallerFirst orders the caller's own matches before everyone else's, each
// group by ascending start time.
func CallerFirst(callerID string) func(a, b domain.Match) int {
	return func(a, b domain.Match) int {
		aMine, bMine := a.CreatedBy == callerID, b.CreatedBy == callerID
		switch {
		case aMine && !bMine:
			return -1
		case !aMine && bMine:
			return 1
		}
		return a.StartTime.Compare(b.StartTime)
	}
}

func (vm *MatchViewModel) State() State {
	vm.state.RLock()
	defer vm.state.RUnlock()

	matches := make([]domain.Match, len(vm.matches))
	for i, m := range vm.matches {
		matches[i] = m.Clone()
	}
	return State{Matches: matches, Loading: vm.loading, Err: vm.errMsg}
}

func (vm *MatchViewModel) DismissError() {
	vm.state.Lock()
	vm.errMsg = ""
	vm.state.Unlock()
}

// Refresh reloads the list from the ledger. A failed fetch keeps the previous
// list and records the error instead of returning it.
func (vm *MatchViewModel) Refresh(ctx context.Context) {
	vm.ops.Lock()
	defer vm.ops.Unlock()

	vm.begin()
	vm.refresh(ctx)
	vm.finish()
}

func (vm *MatchViewModel) Create(ctx context.Context, in CreateMatchInput) (domain.Match, error) {
	vm.ops.Lock()
	defer vm.ops.Unlock()

	vm.begin()
	defer vm.finish()

	params := domain.CreateMatchParams{
		ClubName:    in.ClubName,
		Location:    in.Location,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		TotalSpots:  in.TotalSpots,
		CreatedBy:   vm.identity.CurrentUserID(),
		Description: in.Description,
		SkillLevel:  in.SkillLevel,
	}
	if err := params.Validate(); err != nil {
		vm.setErr(err)
		return domain.Match{}, err
	}

	match, err := vm.ledger.CreateMatch(ctx, params)
	if err != nil {
		vm.logger.Error().Err(err).Str("club", in.ClubName).Msg("failed to create match")
		err = fmt.Errorf("failed to create match: %w", err)
		vm.setErr(err)
		return domain.Match{}, err
	}

	vm.refresh(ctx)
	return match, nil
}

func (vm *MatchViewModel) Join(ctx context.Context, id string) error {
	return vm.mutate(ctx, id, "join", vm.ledger.JoinMatch, ErrCannotJoin)
}

func (vm *MatchViewModel) Leave(ctx context.Context, id string) error {
	return vm.mutate(ctx, id, "leave", vm.ledger.LeaveMatch, ErrCannotLeave)
}

// GetByID always asks the ledger so detail views see current seat counts.
func (vm *MatchViewModel) GetByID(ctx context.Context, id string) (domain.Match, bool, error) {
	m, ok, err := vm.ledger.GetMatch(ctx, id)
	if err != nil {
		vm.logger.Error().Err(err).Str("match_id", id).Msg("failed to load match")
		err = fmt.Errorf("failed to load match: %w", err)
		vm.setErr(err)
		return domain.Match{}, false, err
	}
	return m, ok, nil
}

func (vm *MatchViewModel) mutate(
	ctx context.Context,
	id, action string,
	op func(ctx context.Context, id, userID string) (bool, error),
	rejected error,
) error {
	vm.ops.Lock()
	defer vm.ops.Unlock()

	vm.begin()
	defer vm.finish()

	userID := vm.identity.CurrentUserID()
	ok, err := op(ctx, id, userID)
	if err != nil {
		vm.logger.Error().Err(err).Str("match_id", id).Str("action", action).Msg("ledger call failed")
		err = fmt.Errorf("failed to %s match: %w", action, err)
		vm.setErr(err)
		return err
	}
	if !ok {
		vm.logger.Info().Str("match_id", id).Str("user_id", userID).Str("action", action).Msg("rejected by ledger")
		vm.setErr(rejected)
		return rejected
	}

	vm.refresh(ctx)
	return nil
}

// refresh must be called with ops held.
func (vm *MatchViewModel) refresh(ctx context.Context) {
	matches, err := vm.ledger.ListMatches(ctx)
	if err != nil {
		vm.logger.Warn().Err(err).Msg("failed to refresh matches, keeping cached list")
		vm.setErr(fmt.Errorf("failed to load matches: %w", err))
		return
	}

	slices.SortStableFunc(matches, CallerFirst(vm.identity.CurrentUserID()))

	vm.state.Lock()
	vm.matches = matches
	vm.state.Unlock()

	vm.logger.Debug().Int("count", len(matches)).Msg("matches refreshed")
}

func (vm *MatchViewModel) begin() {
	vm.state.Lock()
	vm.loading = true
	vm.errMsg = ""
	vm.state.Unlock()
}

func (vm *MatchViewModel) finish() {
	vm.state.Lock()
	vm.loading = false
	vm.state.Unlock()
}

func (vm *MatchViewModel) setErr(err error) {
	vm.state.Lock()
	vm.errMsg = err.Error()
	vm.state.Unlock()
}
