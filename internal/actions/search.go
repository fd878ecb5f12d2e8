package actions

import (
	"database/sql"

	"github.com/dotcommander/missionctl/internal/app"
	"github.com/dotcommander/missionctl/internal/search"
)

// PreviewSearch runs the global search with the smaller preview cap,
// as used by the omnibox.
func PreviewSearch(db *sql.DB, queryText string) (*search.Results, error) {
	preview, _ := app.EffectiveSearchLimits()
	return search.Global(db, queryText, search.Options{Limit: preview})
}

// DetailSearch runs the global search with the larger per-kind cap and
// optional exact-match post-filters.
func DetailSearch(db *sql.DB, queryText, actionType, source string) (*search.Results, error) {
	_, detail := app.EffectiveSearchLimits()
	return search.Global(db, queryText, search.Options{
		ActionType: actionType,
		Source:     source,
		Limit:      detail,
	})
}
