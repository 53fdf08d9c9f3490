// Package daemon composes the message core: config, logging, lock, store,
// state mirror, and the ingest engine, with fx owning the lifecycle.
package daemon

import (
	"context"
	"fmt"

	"github.com/ikidd/vgmms/internal/bus"
	"github.com/ikidd/vgmms/internal/config"
	"github.com/ikidd/vgmms/internal/ingest"
	"github.com/ikidd/vgmms/internal/lock"
	"github.com/ikidd/vgmms/internal/logging"
	"github.com/ikidd/vgmms/internal/modem"
	"github.com/ikidd/vgmms/internal/paths"
	"github.com/ikidd/vgmms/internal/state"
	"github.com/ikidd/vgmms/internal/store"
	"github.com/ikidd/vgmms/internal/types"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds what the binary resolves before composing the app. Sender
// and SIM are the telephony collaborators; either may be nil (no outbound
// transport, subscriber identity must then come from config).
type Params struct {
	ConfigPath string
	Sender     modem.Sender
	SIM        modem.SIM
}

// Identity is the local subscriber resolved at startup.
type Identity struct {
	Self    types.Number
	Country types.Country
	ModemID string
}

// Module returns the fx module composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("vgmmsd",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideDataDir,
			provideLogger,
			provideBus,
			provideLock,
			provideStore,
			provideIdentity,
			provideState,
			provideEngine,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig(p Params) *config.Config {
	path := p.ConfigPath
	if path == "" {
		path = paths.ConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		// A missing config file just means defaults.
		return &config.Config{}
	}
	return cfg
}

func provideDataDir(cfg *config.Config) (DataDir, error) {
	dir := cfg.DataDir
	if dir == "" {
		dir = paths.DataDir()
	}
	if err := paths.EnsureDirs(dir); err != nil {
		return "", fmt.Errorf("create data dirs: %w", err)
	}
	return DataDir(dir), nil
}

// DataDir is the resolved data directory.
type DataDir string

func provideLogger(dir DataDir) (*zap.Logger, error) {
	return logging.New(paths.LogPath(string(dir)))
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideLock(dir DataDir, logger *zap.Logger) (*lock.Lock, error) {
	l, err := lock.Acquire(string(dir))
	if err != nil {
		return nil, err
	}
	logger.Info("data dir lock acquired", zap.String("dir", string(dir)))
	return l, nil
}

func provideStore(dir DataDir, logger *zap.Logger) (*store.DB, error) {
	dbPath := paths.DBPath(string(dir))
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

// provideIdentity resolves the subscriber number and country, preferring
// config over the SIM. Failure here is fatal: the core cannot normalize
// inbound numbers or address outbound sends without them.
func provideIdentity(p Params, cfg *config.Config) (Identity, error) {
	raw := cfg.Number
	if raw == "" && p.SIM != nil {
		var err error
		raw, err = p.SIM.SubscriberNumber(context.Background(), cfg.Modem)
		if err != nil {
			return Identity{}, fmt.Errorf("query subscriber number: %w", err)
		}
	}
	if raw == "" {
		return Identity{}, fmt.Errorf("subscriber number not configured and no SIM available")
	}

	country, ok := types.CountryOf(raw)
	if !ok {
		if cfg.CallingCode == "" {
			return Identity{}, fmt.Errorf("could not determine country of subscriber number %q", raw)
		}
		country = types.Country{CallingCode: cfg.CallingCode}
	}
	self, ok := types.Normalize(raw, country)
	if !ok {
		return Identity{}, fmt.Errorf("could not parse subscriber number %q", raw)
	}
	return Identity{Self: self, Country: country, ModemID: cfg.Modem}, nil
}

func provideState(p Params, db *store.DB, b *bus.Bus, id Identity, dir DataDir, logger *zap.Logger) (*state.State, error) {
	return state.Load(state.Params{
		DB:            db,
		Sender:        p.Sender,
		Bus:           b,
		Logger:        logger,
		Self:          id.Self,
		Country:       id.Country,
		ModemID:       id.ModemID,
		AttachmentDir: paths.AttachmentDir(string(dir)),
	})
}

func provideEngine(st *state.State, b *bus.Bus, logger *zap.Logger) *ingest.Engine {
	return ingest.New(st, b, logger)
}

func registerLifecycle(lc fx.Lifecycle, engine *ingest.Engine, db *store.DB, lk *lock.Lock, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			engine.Start(context.Background())
			logger.Info("ingest engine started")
			return nil
		},
		OnStop: func(_ context.Context) error {
			engine.Stop()
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("daemon stopped")
			return nil
		},
	})
}
