package fx

import (
	"context"
	"database/sql"
	"fmt"
	"padel-connect/internal/config"
	"padel-connect/internal/constants"
	"padel-connect/internal/database"
	"padel-connect/internal/db"
	"padel-connect/internal/identity"
	"padel-connect/internal/ledger"
	"padel-connect/internal/logger"
	"padel-connect/internal/repository"
	"padel-connect/internal/server"
	"padel-connect/internal/viewmodel"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

// ProvideLedger builds the in-memory ledger and seeds the demo matches when enabled.
func ProvideLedger(cfg *config.Config, idp identity.Provider, logger zerolog.Logger) (*ledger.Ledger, error) {
	l := ledger.New(logger.With().Str("component", "ledger").Logger(), ledger.WithLatency(cfg.SimulatedLatency))
	if !cfg.SeedDemoMatches {
		return l, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.RequestTimeout)
	defer cancel()
	if err := l.Seed(ctx, time.Now(), idp.CurrentUserID()); err != nil {
		return nil, fmt.Errorf("failed to seed matches: %w", err)
	}
	return l, nil
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// storage
	fx.Provide(fx.Annotate(repository.NewStorageRepository, fx.As(new(identity.FlagStore)))),
	// identity
	fx.Provide(fx.Annotate(identity.NewDummyProvider, fx.As(new(identity.Provider)))),
	// matches
	fx.Provide(fx.Annotate(ProvideLedger, fx.As(new(viewmodel.MatchLedger)))),
	fx.Provide(viewmodel.New),
	// server
	fx.Provide(server.NewMatchServer),
	fx.Provide(server.NewAuthServer),
)
