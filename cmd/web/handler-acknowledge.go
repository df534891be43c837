package main

import (
	"log/slog"
	"net/http"

	"github.com/myrjola/gumshoe/internal/errors"
)

// acknowledgeNotification dismisses one pending unlock notification.
// Acknowledging an unknown or already acknowledged event is a no-op, so the
// endpoint is safe to retry.
func (app *application) acknowledgeNotification(w http.ResponseWriter, r *http.Request) {
	def, ok := app.caseFromRequest(w, r)
	if !ok {
		return
	}
	eventID := r.PathValue("eventID")

	key, err := app.playerKey(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	release := app.gate.Acquire(narrationStreamID(key, def.ID))
	defer release()

	state, err := app.loadOrInitState(r, key, def)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	next := app.engine.Acknowledge(state, eventID)

	if err = app.playerStates.Save(r.Context(), key, next); err != nil {
		app.serverError(w, r, errors.Wrap(err, "save player state", slog.String("case_id", def.ID)))
		return
	}

	app.writeJSON(w, r, http.StatusOK, newSnapshotView(app.engine.Snapshot(next)))
}
