package main

import (
	"net/http"
)

// snapshot returns the read-only projection of the player's progress in the
// case. A player who has not started the case gets the initial state.
func (app *application) snapshot(w http.ResponseWriter, r *http.Request) {
	def, ok := app.caseFromRequest(w, r)
	if !ok {
		return
	}

	key, err := app.playerKey(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	state, err := app.loadOrInitState(r, key, def)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, newSnapshotView(app.engine.Snapshot(state)))
}
