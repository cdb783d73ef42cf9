package app

import (
	"context"

	"github.com/rs/zerolog"

	"sessionkit/internal/crypto"
	"sessionkit/internal/domain"
	"sessionkit/internal/jobqueue"
	identitysvc "sessionkit/internal/services/identity"
	sessionsvc "sessionkit/internal/services/session"
	"sessionkit/internal/store"
)

// Wire bundles all stores, services, and the scheduler for the CLI.
type Wire struct {
	Curve    domain.Curve
	Keys     domain.KeyStore
	Identity domain.IdentityService
	Sessions domain.SessionService
	Queue    *jobqueue.Scheduler[string]
	Logger   zerolog.Logger
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	logger := cfg.Logger

	// Key file store
	keyStore, err := store.NewKeyFileStore(cfg.Home, cfg.KDF)
	if err != nil {
		return nil, err
	}

	// Per-device serialization for session mutations
	queue := jobqueue.New[string](
		jobqueue.WithCompactionLimit(cfg.CompactionLimit),
		jobqueue.WithLogger(logger.With().Str("component", "jobqueue").Logger()),
	)

	// High-level services
	curve := crypto.Curve25519{}
	identitySvc := identitysvc.New(keyStore, curve)
	sessionSvc := sessionsvc.New(
		curve,
		store.NewMemorySessionStore(),
		queue,
		logger.With().Str("component", "session").Logger(),
	)

	return &Wire{
		Curve:    curve,
		Keys:     keyStore,
		Identity: identitySvc,
		Sessions: sessionSvc,
		Queue:    queue,
		Logger:   logger,
	}, nil
}

// Shutdown waits for queued session work to finish or ctx to end.
func (w *Wire) Shutdown(ctx context.Context) error {
	if err := w.Queue.Drain(ctx); err != nil {
		return err
	}
	st := w.Queue.Stats()
	w.Logger.Debug().
		Uint64("submitted", st.Submitted).
		Uint64("failed", st.Failed).
		Uint64("compactions", st.Compactions).
		Msg("job queue drained")
	return nil
}
