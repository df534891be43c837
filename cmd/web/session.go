package main

import (
	"net/http"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/random"
)

const playerKeySessionKey = "playerKey"

// playerKey returns the stable identifier for the player behind the request,
// minting one into the session on first use. Player state snapshots and
// narration streams key off it.
func (app *application) playerKey(r *http.Request) (string, error) {
	key := app.sessionManager.GetString(r.Context(), playerKeySessionKey)
	if key != "" {
		return key, nil
	}

	key, err := random.Letters(32) //nolint:mnd // Long enough to not collide.
	if err != nil {
		return "", errors.Wrap(err, "generate player key")
	}
	app.sessionManager.Put(r.Context(), playerKeySessionKey, key)
	return key, nil
}

// narrationStreamID keys the broker stream for one player's case.
func narrationStreamID(playerKey, caseID string) string {
	return playerKey + "/" + caseID
}
