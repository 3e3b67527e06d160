package ledger

import (
	"context"
	"errors"
	"fmt"
	"padel-connect/internal/domain"
	"slices"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

var ErrInvalidTotalSpots = errors.New("total spots must be at least 1")

// Ledger is the authoritative in-memory store of matches and the only writer
// of seat accounting. Matches are never removed.
type Ledger struct {
	mu      sync.RWMutex
	matches []domain.Match
	index   map[string]int

	now     func() time.Time
	newID   func() (string, error)
	latency time.Duration
	logger  zerolog.Logger
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithIDGenerator(newID func() (string, error)) Option {
	return func(l *Ledger) { l.newID = newID }
}

// WithLatency delays every call by d before it touches the ledger.
func WithLatency(d time.Duration) Option {
	return func(l *Ledger) { l.latency = d }
}

func New(logger zerolog.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		index:  make(map[string]int),
		now:    time.Now,
		newID:  func() (string, error) { return gonanoid.New() },
		logger: logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ByStartTime is the ledger's canonical order: earliest start first.
func ByStartTime(a, b domain.Match) int {
	return a.StartTime.Compare(b.StartTime)
}

func (l *Ledger) CreateMatch(ctx context.Context, params domain.CreateMatchParams) (domain.Match, error) {
	if err := l.wait(ctx); err != nil {
		return domain.Match{}, err
	}
	if params.TotalSpots < 1 {
		return domain.Match{}, fmt.Errorf("%w: got %d", ErrInvalidTotalSpots, params.TotalSpots)
	}
	if params.SkillLevel != "" && !params.SkillLevel.Valid() {
		return domain.Match{}, fmt.Errorf("%w: unknown skill level %q", domain.ErrInvalidMatch, params.SkillLevel)
	}

	id, err := l.newID()
	if err != nil {
		return domain.Match{}, fmt.Errorf("failed to generate match id: %w", err)
	}

	match := domain.Match{
		ID:             id,
		ClubName:       params.ClubName,
		Location:       params.Location,
		StartTime:      params.StartTime,
		EndTime:        params.EndTime,
		TotalSpots:     params.TotalSpots,
		AvailableSpots: params.TotalSpots - 1,
		CreatedBy:      params.CreatedBy,
		CreatedAt:      l.now(),
		JoinedUsers:    []string{},
		Description:    params.Description,
		SkillLevel:     params.SkillLevel,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.index[id]; exists {
		return domain.Match{}, fmt.Errorf("failed to create match: duplicate id %s", id)
	}
	l.insertLocked(match)

	l.logger.Info().
		Str("match_id", id).
		Str("club", match.ClubName).
		Str("created_by", match.CreatedBy).
		Int("total_spots", match.TotalSpots).
		Msg("match created")

	return match.Clone(), nil
}

// GetMatch returns a copy of the match; ok is false when id is unknown.
func (l *Ledger) GetMatch(ctx context.Context, id string) (domain.Match, bool, error) {
	if err := l.wait(ctx); err != nil {
		return domain.Match{}, false, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	i, ok := l.index[id]
	if !ok {
		return domain.Match{}, false, nil
	}
	return l.matches[i].Clone(), true, nil
}

func (l *Ledger) ListMatches(ctx context.Context) ([]domain.Match, error) {
	if err := l.wait(ctx); err != nil {
		return nil, err
	}

	l.mu.RLock()
	out := make([]domain.Match, len(l.matches))
	for i, m := range l.matches {
		out[i] = m.Clone()
	}
	l.mu.RUnlock()

	slices.SortStableFunc(out, ByStartTime)
	return out, nil
}

// JoinMatch gives userID one seat. It returns false without touching state
// when the match is unknown, userID is the creator or already joined, or no
// seat is left.
func (l *Ledger) JoinMatch(ctx context.Context, id, userID string) (bool, error) {
	if err := l.wait(ctx); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[id]
	if !ok {
		l.logger.Debug().Str("match_id", id).Msg("join rejected: match not found")
		return false, nil
	}
	m := &l.matches[i]

	switch {
	case m.IsCreator(userID):
		l.logger.Debug().Str("match_id", id).Str("user_id", userID).Msg("join rejected: creator")
		return false, nil
	case slices.Contains(m.JoinedUsers, userID):
		l.logger.Debug().Str("match_id", id).Str("user_id", userID).Msg("join rejected: already joined")
		return false, nil
	case m.AvailableSpots <= 0:
		l.logger.Debug().Str("match_id", id).Str("user_id", userID).Msg("join rejected: match full")
		return false, nil
	}

	m.JoinedUsers = append(m.JoinedUsers, userID)
	m.AvailableSpots--

	l.logger.Info().
		Str("match_id", id).
		Str("user_id", userID).
		Int("available_spots", m.AvailableSpots).
		Msg("user joined match")
	return true, nil
}

// LeaveMatch frees userID's seat. The creator can never leave.
func (l *Ledger) LeaveMatch(ctx context.Context, id, userID string) (bool, error) {
	if err := l.wait(ctx); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[id]
	if !ok {
		l.logger.Debug().Str("match_id", id).Msg("leave rejected: match not found")
		return false, nil
	}
	m := &l.matches[i]

	if m.IsCreator(userID) {
		l.logger.Debug().Str("match_id", id).Str("user_id", userID).Msg("leave rejected: creator")
		return false, nil
	}
	pos := slices.Index(m.JoinedUsers, userID)
	if pos < 0 {
		l.logger.Debug().Str("match_id", id).Str("user_id", userID).Msg("leave rejected: not a member")
		return false, nil
	}

	m.JoinedUsers = slices.Delete(m.JoinedUsers, pos, pos+1)
	m.AvailableSpots++

	l.logger.Info().
		Str("match_id", id).
		Str("user_id", userID).
		Int("available_spots", m.AvailableSpots).
		Msg("user left match")
	return true, nil
}

// Reset drops every match.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.matches = nil
	l.index = make(map[string]int)
	l.logger.Debug().Msg("ledger reset")
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.matches)
}

func (l *Ledger) insertLocked(m domain.Match) {
	l.index[m.ID] = len(l.matches)
	l.matches = append(l.matches, m)
}

func (l *Ledger) wait(ctx context.Context) error {
	if l.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(l.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
