package search

import (
	"database/sql"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dotcommander/missionctl/internal/models"
	"github.com/dotcommander/missionctl/internal/store"
)

// Options narrows a search after merging. Zero values mean no
// restriction.
type Options struct {
	// ActionType restricts merged activities to one action type.
	ActionType string
	// Source restricts merged documents to one source.
	Source string
	// Limit caps each underlying field search. <= 0 uses the caller's
	// configured default.
	Limit int
}

// Results is the combined bundle returned by Global.
type Results struct {
	Activities []*models.Activity `json:"activities"`
	Documents  []*models.Document `json:"documents"`
}

// Global searches activities and documents in parallel: two field
// searches per kind, merged per kind with duplicates removed. Title
// matches rank ahead of details matches for activities; content matches
// rank ahead of title matches for documents. A blank query returns an
// empty bundle without touching the store.
func Global(db *sql.DB, queryText string, opts Options) (*Results, error) {
	trimmed := strings.TrimSpace(queryText)
	if trimmed == "" {
		return &Results{Activities: []*models.Activity{}, Documents: []*models.Document{}}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}

	var (
		actByTitle, actByDetails []*models.Activity
		docByContent, docByTitle []*models.Document
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		actByTitle, err = store.SearchActivitiesByTitle(db, trimmed, limit)
		return err
	})
	g.Go(func() error {
		var err error
		actByDetails, err = store.SearchActivitiesByDetails(db, trimmed, limit)
		return err
	})
	g.Go(func() error {
		var err error
		docByContent, err = store.SearchDocumentsByContent(db, trimmed, limit)
		return err
	})
	g.Go(func() error {
		var err error
		docByTitle, err = store.SearchDocumentsByTitle(db, trimmed, limit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	activities := MergeRanked(func(a *models.Activity) string { return a.ID }, actByTitle, actByDetails)
	documents := MergeRanked(func(d *models.Document) string { return d.ID }, docByContent, docByTitle)

	if opts.ActionType != "" {
		filtered := activities[:0]
		for _, a := range activities {
			if a.ActionType == opts.ActionType {
				filtered = append(filtered, a)
			}
		}
		activities = filtered
	}
	if opts.Source != "" {
		filtered := documents[:0]
		for _, d := range documents {
			if d.Source == opts.Source {
				filtered = append(filtered, d)
			}
		}
		documents = filtered
	}

	if activities == nil {
		activities = []*models.Activity{}
	}
	if documents == nil {
		documents = []*models.Document{}
	}
	return &Results{Activities: activities, Documents: documents}, nil
}
