// Package engine implements the investigation rule evaluation: matching
// free-text player actions against evidence triggers, unlocking hypotheses
// through requirement trees, the unlock-notification lifecycle, and verdict
// evaluation with fallacy detection.
//
// Every operation takes an explicit PlayerState value and returns an updated
// copy. The engine holds no session state of its own and performs no I/O, so
// a single Engine can serve any number of sessions concurrently as long as
// each session's state has one writer at a time.
package engine

import (
	"log/slog"
	"time"

	"github.com/myrjola/gumshoe/internal/random"
)

const eventIDLength = 12

type Engine struct {
	logger     *slog.Logger
	now        func() time.Time
	newEventID func(hypothesisID string) string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock, mainly for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithEventIDGenerator replaces the unlock-event id generator.
func WithEventIDGenerator(gen func(hypothesisID string) string) Option {
	return func(e *Engine) {
		e.newEventID = gen
	}
}

func New(logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		logger: logger.With("source", "engine"),
		now:    time.Now,
		newEventID: func(hypothesisID string) string {
			id, err := random.Letters(eventIDLength)
			if err != nil {
				// crypto/rand failing is all but impossible; one event per
				// hypothesis makes this fallback unique within a session.
				return "unlock-" + hypothesisID
			}
			return id
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
