package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dotcommander/missionctl/internal/models"
)

// Full-text search over the FTS5 virtual tables created in migrations.
// Results come back best-match-first via FTS5's bm25 rank. Each search
// targets a single field by restricting MATCH to that column.

// SearchActivitiesByTitle returns activities whose title matches text.
func SearchActivitiesByTitle(db *sql.DB, text string, limit int) ([]*models.Activity, error) {
	return searchActivities(db, "title", text, limit)
}

// SearchActivitiesByDetails returns activities whose details match text.
func SearchActivitiesByDetails(db *sql.DB, text string, limit int) ([]*models.Activity, error) {
	return searchActivities(db, "details", text, limit)
}

func searchActivities(db *sql.DB, field, text string, limit int) ([]*models.Activity, error) {
	match := ftsColumnQuery(field, text)
	if match == "" {
		return nil, nil
	}
	rows, err := db.QueryContext(context.Background(), `
		SELECT a.id, a.timestamp, a.action_type, a.title, a.details, a.status, a.metadata
		FROM activities_fts f
		JOIN activities a ON a.rowid = f.rowid
		WHERE activities_fts MATCH ?
		ORDER BY f.rank
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search activities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.Activity
	for rows.Next() {
		a, scanErr := scanActivity(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", scanErr)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SearchDocumentsByContent returns documents whose content matches text.
func SearchDocumentsByContent(db *sql.DB, text string, limit int) ([]*models.Document, error) {
	return searchDocuments(db, "content", text, limit)
}

// SearchDocumentsByTitle returns documents whose title matches text.
func SearchDocumentsByTitle(db *sql.DB, text string, limit int) ([]*models.Document, error) {
	return searchDocuments(db, "title", text, limit)
}

func searchDocuments(db *sql.DB, field, text string, limit int) ([]*models.Document, error) {
	match := ftsColumnQuery(field, text)
	if match == "" {
		return nil, nil
	}
	rows, err := db.QueryContext(context.Background(), `
		SELECT d.id, d.title, d.content, d.source, d.source_path, d.last_updated
		FROM documents_fts f
		JOIN documents d ON d.rowid = f.rowid
		WHERE documents_fts MATCH ?
		ORDER BY f.rank
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.Document
	for rows.Next() {
		doc, scanErr := scanDocument(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", scanErr)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// ftsColumnQuery builds a single-column FTS5 MATCH expression from raw
// user text. Each whitespace token is double-quoted so FTS5 operator
// characters in the input ("-", "*", parentheses) are treated literally.
// Returns "" when the text contains no tokens.
func ftsColumnQuery(column, text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		quoted = append(quoted, `"`+strings.ReplaceAll(f, `"`, `""`)+`"`)
	}
	// Parenthesize so the column filter applies to every token, not just
	// the first phrase.
	return column + ": (" + strings.Join(quoted, " ") + ")"
}
