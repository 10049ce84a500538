package kvauth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/quellcrist/kvauth/kv"
)

const statsKey = "statistics"

// Stats returns the aggregate counters. A store with no statistics record
// yet returns zero values.
func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	if e == nil {
		return Stats{}, ErrEngineNotReady
	}
	return e.loadStats(ctx)
}

// RecordView increments the view counter. Intended for the presentation
// layer; concurrent lost updates here only undercount views.
func (e *Engine) RecordView(ctx context.Context) error {
	if e == nil {
		return ErrEngineNotReady
	}

	return e.mutateStats(ctx, func(s *Stats) {
		s.ViewCount++
	})
}

func (e *Engine) recordLogin(ctx context.Context) error {
	return e.mutateStats(ctx, func(s *Stats) {
		s.LoginCount++
		s.LastLogin = time.Now().UTC()
	})
}

func (e *Engine) loadStats(ctx context.Context) (Stats, error) {
	raw, err := e.store.Get(ctx, statsKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return Stats{}, nil
		}
		return Stats{}, e.storageErr(err)
	}

	var s Stats
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		// A corrupt record restarts the counters rather than wedging
		// every login's stats step.
		return Stats{}, nil
	}
	return s, nil
}

// mutateStats is a read-modify-write; racing writers can lose an update,
// which only weakens the counters, never correctness.
func (e *Engine) mutateStats(ctx context.Context, mutate func(*Stats)) error {
	s, err := e.loadStats(ctx)
	if err != nil {
		return err
	}

	mutate(&s)

	data, err := json.Marshal(s)
	if err != nil {
		return e.storageErr(err)
	}
	if err := e.store.Set(ctx, statsKey, string(data), 0); err != nil {
		return e.storageErr(err)
	}
	return nil
}
