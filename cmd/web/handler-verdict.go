package main

import (
	"log/slog"
	"net/http"

	"github.com/myrjola/gumshoe/internal/engine"
	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
)

type submitVerdictRequest struct {
	AccusedID        string   `json:"accusedId"`
	Reasoning        string   `json:"reasoning"`
	CitedEvidenceIDs []string `json:"citedEvidenceIds"`
}

type submitVerdictResponse struct {
	Result   verdictResultView `json:"result"`
	Snapshot snapshotView      `json:"snapshot"`
}

// submitVerdict evaluates an accusation against the case solution. A verdict
// missing the accused or the reasoning is rejected without spending an
// attempt.
func (app *application) submitVerdict(w http.ResponseWriter, r *http.Request) {
	def, ok := app.caseFromRequest(w, r)
	if !ok {
		return
	}

	var req submitVerdictRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}

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

	result, next, err := app.engine.EvaluateVerdict(def, state, models.Accusation{
		AccusedID:        req.AccusedID,
		Reasoning:        req.Reasoning,
		CitedEvidenceIDs: req.CitedEvidenceIDs,
	})
	if err != nil {
		if errors.Is(err, engine.ErrInvalidAccusation) {
			app.clientError(w, r, http.StatusUnprocessableEntity)
			return
		}
		app.serverError(w, r, errors.Wrap(err, "evaluate verdict", slog.String("case_id", def.ID)))
		return
	}

	if err = app.playerStates.Save(r.Context(), key, next); err != nil {
		app.serverError(w, r, errors.Wrap(err, "save player state", slog.String("case_id", def.ID)))
		return
	}

	app.writeJSON(w, r, http.StatusOK, submitVerdictResponse{
		Result:   newVerdictResultView(result),
		Snapshot: newSnapshotView(app.engine.Snapshot(next)),
	})
}
