package main

import (
	"fmt"
	"net/http"
	"strings"
)

// streamNarration serves the narration for the player's latest action over
// Server Sent Events. When no narration is in flight the stream closes
// immediately and the client keeps the persisted action result it already
// has.
func (app *application) streamNarration(w http.ResponseWriter, r *http.Request) {
	def, ok := app.caseFromRequest(w, r)
	if !ok {
		return
	}

	key, err := app.playerKey(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		app.serverError(w, r, fmt.Errorf("response writer does not support flushing"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	streamChannel := app.narrations.Subscribe(narrationStreamID(key, def.ID))

	select {
	case stream, live := <-streamChannel:
		if !live {
			return
		}
		for narration := range stream {
			// Multi-line narrations need one data field per line to stay
			// within the SSE framing.
			for _, line := range strings.Split(narration, "\n") {
				_, _ = fmt.Fprintf(w, "data: %s\n", line)
			}
			_, _ = fmt.Fprint(w, "\n")
			flusher.Flush()
		}
	case <-r.Context().Done():
	}
}
