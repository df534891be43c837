package main

import (
	"net/http"
	"sort"
)

type caseSummaryView struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	LocationCount int    `json:"locationCount"`
	WitnessCount  int    `json:"witnessCount"`
}

// listCases returns the loaded case catalogue sorted by id.
func (app *application) listCases(w http.ResponseWriter, r *http.Request) {
	summaries := make([]caseSummaryView, 0, len(app.cases))
	for _, def := range app.cases {
		summaries = append(summaries, caseSummaryView{
			ID:            def.ID,
			Title:         def.Title,
			LocationCount: len(def.Locations),
			WitnessCount:  len(def.Witnesses),
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })

	app.writeJSON(w, r, http.StatusOK, summaries)
}
