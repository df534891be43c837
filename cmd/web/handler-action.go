package main

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/myrjola/gumshoe/internal/ai"
	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
)

// narrationDeliveryWindow bounds how long a finished narration waits for a
// subscriber before the stream is torn down.
const narrationDeliveryWindow = 30 * time.Second

type submitActionRequest struct {
	Action string `json:"action"`
}

type submitActionResponse struct {
	Result   matchResultView `json:"result"`
	Snapshot snapshotView    `json:"snapshot"`
}

// submitAction matches the player's free-text action against the current
// location's evidence, scans unlocks over the updated state, and persists the
// whole transition before responding. Narration is generated asynchronously
// and delivered over the narration stream.
func (app *application) submitAction(w http.ResponseWriter, r *http.Request) {
	def, ok := app.caseFromRequest(w, r)
	if !ok {
		return
	}

	var req submitActionRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Action) == "" {
		app.clientError(w, r, http.StatusUnprocessableEntity)
		return
	}

	key, err := app.playerKey(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	// One transition per session and case at a time.
	release := app.gate.Acquire(narrationStreamID(key, def.ID))
	defer release()

	state, err := app.loadOrInitState(r, key, def)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	result, next := app.engine.SubmitAction(def, state, req.Action)

	if err = app.playerStates.Save(r.Context(), key, next); err != nil {
		app.serverError(w, r, errors.Wrap(err, "save player state", slog.String("case_id", def.ID)))
		return
	}

	app.narrateAsync(key, def, result, req.Action)

	app.writeJSON(w, r, http.StatusOK, submitActionResponse{
		Result:   newMatchResultView(result),
		Snapshot: newSnapshotView(app.engine.Snapshot(next)),
	})
}

// narrateAsync publishes a narration stream for the action and fills it from
// the language model, falling back to canned prose when the model is
// unavailable. The stream closes once the single narration is delivered or
// nobody subscribes within the delivery window.
func (app *application) narrateAsync(
	playerKey string,
	def *models.CaseDefinition,
	result models.MatchResult,
	action string,
) {
	streamID := narrationStreamID(playerKey, def.ID)
	stream := make(chan string)
	app.narrations.Publish(streamID, stream)

	go func() {
		defer app.narrations.Unpublish(streamID)

		ctx, cancel := context.WithTimeout(context.Background(), app.narrationTimeout)
		text, err := app.narrator.Narrate(ctx, def, result, action)
		cancel()
		if err != nil {
			app.logger.Debug("narration fallback", "case_id", def.ID, errors.SlogError(err))
			text = ai.FallbackNarration(def, result)
		}

		// The delivery window is generous so a subscriber connecting after
		// the model finished still receives the narration.
		delivery, cancelDelivery := context.WithTimeout(context.Background(), narrationDeliveryWindow)
		defer cancelDelivery()
		select {
		case stream <- text:
			close(stream)
		case <-delivery.Done():
		}
	}()
}
