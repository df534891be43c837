package main

import (
	"net/http"

	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	session := alice.New(app.sessionManager.LoadAndSave)
	sse := alice.New(app.serverSentEventMiddleware)

	mux.HandleFunc("GET /api/healthy", app.healthy)

	mux.Handle("GET /api/cases", session.ThenFunc(app.listCases))
	mux.Handle("GET /api/cases/{caseID}/snapshot", session.ThenFunc(app.snapshot))
	mux.Handle("POST /api/cases/{caseID}/actions", session.ThenFunc(app.submitAction))
	mux.Handle("POST /api/cases/{caseID}/notifications/{eventID}/acknowledge",
		session.ThenFunc(app.acknowledgeNotification))
	mux.Handle("POST /api/cases/{caseID}/verdict", session.ThenFunc(app.submitVerdict))
	mux.Handle("GET /api/cases/{caseID}/narration/stream", sse.ThenFunc(app.streamNarration))

	return app.recoverPanic(app.logRequest(secureHeaders(mux)))
}
