package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
	"github.com/myrjola/gumshoe/internal/repositories"
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.Debug(http.StatusText(status), "method", method, "uri", uri)
	http.Error(w, http.StatusText(status), status)
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "encode response", errors.SlogError(err))
	}
}

// decodeJSON decodes the request body into v. A false return means the
// request was rejected and the response is already written.
func (app *application) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		app.logger.Debug("malformed request body", "uri", r.URL.RequestURI(), errors.SlogError(err))
		app.clientError(w, r, http.StatusBadRequest)
		return false
	}
	return true
}

// caseFromRequest resolves the {caseID} path value against the loaded cases.
func (app *application) caseFromRequest(w http.ResponseWriter, r *http.Request) (*models.CaseDefinition, bool) {
	def, ok := app.cases[r.PathValue("caseID")]
	if !ok {
		app.clientError(w, r, http.StatusNotFound)
		return nil, false
	}
	return def, true
}

// loadOrInitState fetches the persisted state for the player and case, or
// starts a fresh one when the player has not touched the case yet.
func (app *application) loadOrInitState(
	r *http.Request,
	playerKey string,
	def *models.CaseDefinition,
) (models.PlayerState, error) {
	state, err := app.playerStates.Load(r.Context(), playerKey, def.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.NewPlayerState(def), nil
		}
		return models.PlayerState{}, errors.Wrap(err, "load player state", slog.String("case_id", def.ID))
	}
	return state, nil
}
