package main

import (
	"context"
	"fmt"

	"playground/internal/config"
	"playground/internal/home"
	"playground/internal/journal"
	"playground/internal/logging"
	"playground/internal/mvi"
	"playground/internal/users"

	"go.uber.org/zap"
)

// session is one running home store, journaled when the config asks for it.
type session struct {
	store   *home.Store
	journal *journal.Journal
	rec     *journal.Recorder
}

// openSession wires a home store from cfg. The store lives until ctx is
// cancelled or Close is called.
func openSession(ctx context.Context, cfg *config.Config, log *logging.Logger) (*session, error) {
	policy, err := mvi.ParseEffectPolicy(cfg.Effects.Policy)
	if err != nil {
		return nil, err
	}

	src := users.NewFakeSource(cfg.GetFetchDelay(),
		users.WithRand(users.NewSeededRand(cfg.Fetch.Seed)),
		users.WithLogger(log.For(logging.CategoryUsers)))

	opts := []mvi.Option{
		mvi.WithEffectPolicy(policy),
		mvi.WithEffectBuffer(cfg.Effects.Buffer),
	}

	s := &session{}
	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return nil, err
		}
		rec, err := journal.NewRecorder(ctx, j, home.EncodeAny, log.For(logging.CategoryJournal))
		if err != nil {
			j.Close()
			return nil, fmt.Errorf("failed to start journal session: %w", err)
		}
		s.journal, s.rec = j, rec
		opts = append(opts, mvi.WithObserver(rec.Observe))
	}

	s.store = home.NewStore(ctx, src, log.For(logging.CategoryStore), opts...)
	log.For(logging.CategoryBoot).Info("session started",
		zap.String("session", s.ID()),
		zap.Stringer("effect_policy", policy),
		zap.Duration("fetch_delay", cfg.GetFetchDelay()))
	return s, nil
}

// ID returns the journal session id, or "" when journaling is off.
func (s *session) ID() string {
	if s.rec == nil {
		return ""
	}
	return s.rec.Session()
}

// Close stops the store, then the journal. The store's error wins.
func (s *session) Close() error {
	err := s.store.Close()
	if s.journal != nil {
		if cerr := s.journal.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
