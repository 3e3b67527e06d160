package identity

import (
	"context"
	"fmt"
	"padel-connect/internal/config"
	"padel-connect/internal/constants"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	DummyUserID    = "dummy_user_123"
	DummyUserName  = "Dummy User"
	DummyUserEmail = "dummy@padelconnect.com"

	// LoggedInKey is the client storage key holding the login flag.
	LoggedInKey = "padel_connect_logged_in"
)

// Provider supplies the identity of the active caller.
type Provider interface {
	CurrentUserID() string
	CurrentUserName() string
	IsLoggedIn() bool
	// SignIn authenticates the caller; the bool reports whether credentials were accepted.
	SignIn(ctx context.Context, email, password string) (bool, error)
	SignOut(ctx context.Context) error
}

// FlagStore persists boolean flags across process restarts.
type FlagStore interface {
	GetFlag(ctx context.Context, key string) (bool, error)
	SetFlag(ctx context.Context, key string, value bool) error
}

// DummyProvider accepts any credentials and always reports the same user.
type DummyProvider struct {
	store  FlagStore
	delay  time.Duration
	logger zerolog.Logger

	mu       sync.RWMutex
	loggedIn bool
}

var _ Provider = (*DummyProvider)(nil)

func NewDummyProvider(store FlagStore, cfg *config.Config, logger zerolog.Logger) (*DummyProvider, error) {
	delay := constants.SignInDelay
	if cfg.SimulatedLatency == 0 {
		delay = 0
	}
	return NewDummyProviderWithDelay(store, delay, logger)
}

// NewDummyProviderWithDelay restores the persisted login flag from store.
func NewDummyProviderWithDelay(store FlagStore, delay time.Duration, logger zerolog.Logger) (*DummyProvider, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()

	loggedIn, err := store.GetFlag(ctx, LoggedInKey)
	if err != nil {
		return nil, fmt.Errorf("failed to restore login state: %w", err)
	}

	logger.Debug().Bool("logged_in", loggedIn).Msg("login state restored")
	return &DummyProvider{
		store:    store,
		delay:    delay,
		logger:   logger,
		loggedIn: loggedIn,
	}, nil
}

func (p *DummyProvider) CurrentUserID() string {
	return DummyUserID
}

func (p *DummyProvider) CurrentUserName() string {
	return DummyUserName
}

func (p *DummyProvider) IsLoggedIn() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loggedIn
}

func (p *DummyProvider) SignIn(ctx context.Context, email, _ string) (bool, error) {
	if err := sleep(ctx, p.delay); err != nil {
		return false, err
	}
	if err := p.setLoggedIn(ctx, true); err != nil {
		return false, err
	}
	p.logger.Info().Str("email", email).Str("user_id", DummyUserID).Msg("signed in")
	return true, nil
}

func (p *DummyProvider) SignOut(ctx context.Context) error {
	if err := p.setLoggedIn(ctx, false); err != nil {
		return err
	}
	p.logger.Info().Str("user_id", DummyUserID).Msg("signed out")
	return nil
}

func (p *DummyProvider) setLoggedIn(ctx context.Context, v bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.store.SetFlag(ctx, LoggedInKey, v); err != nil {
		return fmt.Errorf("failed to persist login state: %w", err)
	}
	p.loggedIn = v
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
