package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/missionctl/internal/models"
)

func TestPipelineItemLifecycle(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	item, err := CreatePipelineItem(db, &models.PipelineItem{
		Title:       "Go concurrency patterns",
		ContentType: "blog",
		Keywords:    []string{"go", "concurrency"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.PipelineStatusIdea, item.Status)
	assert.Zero(t, item.RevisionCount)

	draft := models.PipelineStatusDraft
	item, err = UpdatePipelineItem(db, item.ID, "writer-1", PipelineItemUpdate{Status: &draft})
	require.NoError(t, err)
	assert.Equal(t, models.PipelineStatusDraft, item.Status)

	// Moving into revision bumps the revision counter.
	revision := models.PipelineStatusRevision
	item, err = UpdatePipelineItem(db, item.ID, "editor-1", PipelineItemUpdate{Status: &revision})
	require.NoError(t, err)
	assert.Equal(t, 1, item.RevisionCount)

	// Publishing stamps published_at once.
	published := models.PipelineStatusPublished
	item, err = UpdatePipelineItem(db, item.ID, "writer-1", PipelineItemUpdate{Status: &published})
	require.NoError(t, err)
	require.NotNil(t, item.PublishedAt)
}

func TestPipelineEventsJoinTitles(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	item, err := CreatePipelineItem(db, &models.PipelineItem{Title: "Launch post", ContentType: "blog"})
	require.NoError(t, err)

	require.NoError(t, RecordPipelineEvent(db, item.ID, "writer-1", "claimed", "taking this one"))

	events, err := ListPipelineEvents(db, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Launch post", events[0].Title)
	assert.Equal(t, "claimed", events[0].Action)
	assert.Equal(t, "writer-1", events[0].Agent)
}

func TestUpdatePipelineItemRecordsEvent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	item, err := CreatePipelineItem(db, &models.PipelineItem{Title: "Post", ContentType: "blog"})
	require.NoError(t, err)

	review := models.PipelineStatusReview
	_, err = UpdatePipelineItem(db, item.ID, "editor-1", PipelineItemUpdate{Status: &review})
	require.NoError(t, err)

	events, err := ListPipelineEvents(db, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "moved to review", events[0].Action)
}
