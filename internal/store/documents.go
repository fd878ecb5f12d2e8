package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dotcommander/missionctl/internal/models"
)

const documentColumns = `id, title, content, source, source_path, last_updated`

// UpsertDocument inserts a document, or re-ingests an existing one when a
// row with the same source path already exists (replacing title/content
// and bumping last_updated).
func UpsertDocument(db *sql.DB, title, content, source, sourcePath string, now int64) (*models.Document, error) {
	if title == "" {
		return nil, errors.New("document title is required")
	}
	if source == "" {
		return nil, errors.New("document source is required")
	}

	var doc *models.Document
	err := Transact(db, func(tx *sql.Tx) error {
		if sourcePath != "" {
			var existingID string
			err := tx.QueryRowContext(context.Background(),
				`SELECT id FROM documents WHERE source_path = ?`, sourcePath).Scan(&existingID)
			if err == nil {
				_, err = tx.ExecContext(context.Background(), `
					UPDATE documents SET title = ?, content = ?, source = ?, last_updated = ? WHERE id = ?
				`, title, content, source, now, existingID)
				if err != nil {
					return fmt.Errorf("failed to re-ingest document: %w", err)
				}
				doc = &models.Document{ID: existingID, Title: title, Content: content, Source: source, SourcePath: sourcePath, LastUpdated: now}
				return nil
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("failed to look up document by source path: %w", err)
			}
		}

		id := generatePrefixedID("doc")
		var pathVal any
		if sourcePath != "" {
			pathVal = sourcePath
		}
		_, err := tx.ExecContext(context.Background(), `
			INSERT INTO documents (id, title, content, source, source_path, last_updated)
			VALUES (?, ?, ?, ?, ?, ?)
		`, id, title, content, source, pathVal, now)
		if err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
		doc = &models.Document{ID: id, Title: title, Content: content, Source: source, SourcePath: sourcePath, LastUpdated: now}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// GetDocument retrieves one document by ID.
func GetDocument(db *sql.DB, id string) (*models.Document, error) {
	row := db.QueryRowContext(context.Background(), `SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Kind: "document", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns documents most recently updated first, optionally
// filtered by source.
func ListDocuments(db *sql.DB, source string, limit int) ([]*models.Document, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + documentColumns + ` FROM documents`
	var args []any
	if source != "" {
		query += ` WHERE source = ?`
		args = append(args, source)
	}
	query += ` ORDER BY last_updated DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
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

// DeleteDocument removes a document (e.g. when its source file is gone).
func DeleteDocument(db *sql.DB, id string) error {
	return RetryWithBackoff(func() error {
		result, err := db.ExecContext(context.Background(), `DELETE FROM documents WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete document: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return &models.NotFoundError{Kind: "document", ID: id}
		}
		return nil
	})
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var d models.Document
	var path sql.NullString
	err := row.Scan(&d.ID, &d.Title, &d.Content, &d.Source, &path, &d.LastUpdated)
	if err != nil {
		return nil, err
	}
	d.SourcePath = path.String
	return &d, nil
}
