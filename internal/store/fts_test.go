package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchActivitiesByTitle(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	_, err := CreateActivity(db, now, "deploy", "deploy api to staging", "", "success", nil)
	require.NoError(t, err)
	_, err = CreateActivity(db, now, "build", "compile frontend", "deploy assets mentioned here", "success", nil)
	require.NoError(t, err)

	byTitle, err := SearchActivitiesByTitle(db, "deploy", 20)
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "deploy api to staging", byTitle[0].Title)

	byDetails, err := SearchActivitiesByDetails(db, "deploy", 20)
	require.NoError(t, err)
	require.Len(t, byDetails, 1)
	assert.Equal(t, "compile frontend", byDetails[0].Title)
}

func TestSearchDocumentsFollowsReingestion(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	doc, err := UpsertDocument(db, "runbook", "restart the cache", "manual", "/docs/runbook.md", now)
	require.NoError(t, err)

	hits, err := SearchDocumentsByContent(db, "cache", 20)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	// Re-ingestion replaces the indexed content.
	_, err = UpsertDocument(db, "runbook", "rotate the credentials", "manual", "/docs/runbook.md", now+1)
	require.NoError(t, err)

	stale, err := SearchDocumentsByContent(db, "cache", 20)
	require.NoError(t, err)
	assert.Empty(t, stale)

	fresh, err := SearchDocumentsByContent(db, "credentials", 20)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, doc.ID, fresh[0].ID)
}

func TestSearchIndexDropsDeletedRows(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	activity, err := CreateActivity(db, now, "deploy", "deploy api", "", "success", nil)
	require.NoError(t, err)
	require.NoError(t, DeleteActivity(db, activity.ID))

	hits, err := SearchActivitiesByTitle(db, "deploy", 20)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchMultiTokenQuery(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	_, err := CreateActivity(db, now, "deploy", "deploy api to staging", "", "success", nil)
	require.NoError(t, err)
	_, err = CreateActivity(db, now, "deploy", "deploy frontend", "", "success", nil)
	require.NoError(t, err)

	// All tokens must match the column.
	hits, err := SearchActivitiesByTitle(db, "deploy staging", 20)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "deploy api to staging", hits[0].Title)
}

func TestFTSColumnQuery(t *testing.T) {
	assert.Equal(t, `title: ("deploy" "api")`, ftsColumnQuery("title", "  deploy   api "))
	assert.Equal(t, `title: ("""hi""")`, ftsColumnQuery("title", `"hi"`))
	assert.Empty(t, ftsColumnQuery("title", "   "))
}
