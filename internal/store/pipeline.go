package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dotcommander/missionctl/internal/models"
)

const pipelineColumns = `id, title, content_type, status, target_platform, keywords, word_count,
	quality_score, revision_count, claimed_by, created_at, updated_at, published_at, published_url`

// CreatePipelineItem adds a content idea to the pipeline.
func CreatePipelineItem(db *sql.DB, item *models.PipelineItem) (*models.PipelineItem, error) {
	if item.Title == "" {
		return nil, errors.New("pipeline item title is required")
	}
	if item.ContentType == "" {
		return nil, errors.New("pipeline item content type is required")
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = models.PipelineStatusIdea
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	err := RetryWithBackoff(func() error {
		_, err := db.ExecContext(context.Background(), `
			INSERT INTO content_pipeline (id, title, content_type, status, target_platform,
				keywords, word_count, quality_score, revision_count, claimed_by,
				created_at, updated_at, published_at, published_url)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, item.ID, item.Title, item.ContentType, item.Status, nullString(item.TargetPlatform),
			encodeStringList(item.Keywords), item.WordCount, item.QualityScore, item.RevisionCount,
			nullString(item.ClaimedBy), item.CreatedAt, item.UpdatedAt,
			nullTime(item.PublishedAt), nullString(item.PublishedURL))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert pipeline item: %w", err)
	}
	return item, nil
}

// GetPipelineItem retrieves a pipeline item by ID.
func GetPipelineItem(q Querier, id string) (*models.PipelineItem, error) {
	row := q.QueryRow(`SELECT `+pipelineColumns+` FROM content_pipeline WHERE id = ?`, id)
	item, err := scanPipelineItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Kind: "pipeline item", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query pipeline item: %w", err)
	}
	return item, nil
}

// ListPipelineItems returns pipeline items newest first, optionally
// filtered by status.
func ListPipelineItems(db *sql.DB, status models.PipelineStatus) ([]*models.PipelineItem, error) {
	query := `SELECT ` + pipelineColumns + ` FROM content_pipeline`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pipeline items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.PipelineItem
	for rows.Next() {
		item, scanErr := scanPipelineItem(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan pipeline item row: %w", scanErr)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// PipelineItemUpdate carries the optional fields of a partial update.
type PipelineItemUpdate struct {
	Title          *string
	Status         *models.PipelineStatus
	TargetPlatform *string
	Keywords       []string
	WordCount      *int
	QualityScore   *int
	ClaimedBy      *string
	PublishedURL   *string
}

// UpdatePipelineItem applies the non-nil fields, bumps updated_at, and
// records an event describing the change. Moving into revision bumps
// revision_count; moving into published stamps published_at.
func UpdatePipelineItem(db *sql.DB, id, agent string, update PipelineItemUpdate) (*models.PipelineItem, error) {
	var item *models.PipelineItem
	err := Transact(db, func(tx *sql.Tx) error {
		existing, err := GetPipelineItem(tx, id)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		action := "updated"
		if update.Title != nil {
			existing.Title = *update.Title
		}
		if update.Status != nil && *update.Status != existing.Status {
			action = fmt.Sprintf("moved to %s", *update.Status)
			existing.Status = *update.Status
			if existing.Status == models.PipelineStatusRevision {
				existing.RevisionCount++
			}
			if existing.Status == models.PipelineStatusPublished && existing.PublishedAt == nil {
				existing.PublishedAt = &now
			}
		}
		if update.TargetPlatform != nil {
			existing.TargetPlatform = *update.TargetPlatform
		}
		if update.Keywords != nil {
			existing.Keywords = update.Keywords
		}
		if update.WordCount != nil {
			existing.WordCount = *update.WordCount
		}
		if update.QualityScore != nil {
			existing.QualityScore = *update.QualityScore
		}
		if update.ClaimedBy != nil {
			existing.ClaimedBy = *update.ClaimedBy
		}
		if update.PublishedURL != nil {
			existing.PublishedURL = *update.PublishedURL
		}
		existing.UpdatedAt = now

		_, err = tx.ExecContext(context.Background(), `
			UPDATE content_pipeline SET title = ?, status = ?, target_platform = ?, keywords = ?,
				word_count = ?, quality_score = ?, revision_count = ?, claimed_by = ?,
				updated_at = ?, published_at = ?, published_url = ?
			WHERE id = ?
		`, existing.Title, existing.Status, nullString(existing.TargetPlatform),
			encodeStringList(existing.Keywords), existing.WordCount, existing.QualityScore,
			existing.RevisionCount, nullString(existing.ClaimedBy), existing.UpdatedAt,
			nullTime(existing.PublishedAt), nullString(existing.PublishedURL), id)
		if err != nil {
			return fmt.Errorf("failed to update pipeline item: %w", err)
		}

		if err := insertPipelineEventTx(tx, id, agent, action, "", now); err != nil {
			return err
		}
		item = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RecordPipelineEvent appends a free-form event to an item's history.
func RecordPipelineEvent(db *sql.DB, pipelineID, agent, action, details string) error {
	return Transact(db, func(tx *sql.Tx) error {
		if _, err := GetPipelineItem(tx, pipelineID); err != nil {
			return err
		}
		return insertPipelineEventTx(tx, pipelineID, agent, action, details, time.Now().UTC())
	})
}

func insertPipelineEventTx(tx *sql.Tx, pipelineID, agent, action, details string, now time.Time) error {
	_, err := tx.ExecContext(context.Background(), `
		INSERT INTO pipeline_events (id, pipeline_id, agent, action, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), pipelineID, agent, action, nullString(details), now)
	if err != nil {
		return fmt.Errorf("failed to insert pipeline event: %w", err)
	}
	return nil
}

// ListPipelineEvents returns recent events newest first, each joined to
// its item's title.
func ListPipelineEvents(db *sql.DB, limit int) ([]*models.PipelineEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(context.Background(), `
		SELECT e.id, e.pipeline_id, e.agent, e.action, e.details, e.created_at, p.title
		FROM pipeline_events e
		JOIN content_pipeline p ON p.id = e.pipeline_id
		ORDER BY e.created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pipeline events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.PipelineEvent
	for rows.Next() {
		var e models.PipelineEvent
		var details sql.NullString
		if scanErr := rows.Scan(&e.ID, &e.PipelineID, &e.Agent, &e.Action, &details, &e.CreatedAt, &e.Title); scanErr != nil {
			return nil, fmt.Errorf("failed to scan pipeline event row: %w", scanErr)
		}
		e.Details = details.String
		out = append(out, &e)
	}
	return out, rows.Err()
}

func scanPipelineItem(row rowScanner) (*models.PipelineItem, error) {
	var item models.PipelineItem
	var targetPlatform, claimedBy, publishedURL sql.NullString
	var publishedAt sql.NullTime
	var keywords string
	err := row.Scan(&item.ID, &item.Title, &item.ContentType, &item.Status, &targetPlatform,
		&keywords, &item.WordCount, &item.QualityScore, &item.RevisionCount, &claimedBy,
		&item.CreatedAt, &item.UpdatedAt, &publishedAt, &publishedURL)
	if err != nil {
		return nil, err
	}
	item.TargetPlatform = targetPlatform.String
	item.ClaimedBy = claimedBy.String
	item.PublishedURL = publishedURL.String
	if publishedAt.Valid {
		t := publishedAt.Time
		item.PublishedAt = &t
	}
	list, err := decodeStringList(keywords)
	if err != nil {
		return nil, fmt.Errorf("failed to decode keywords: %w", err)
	}
	item.Keywords = list
	return &item, nil
}
