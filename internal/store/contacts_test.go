package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/missionctl/internal/models"
)

func TestCreateAndGetContact(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	created, err := CreateContact(db, &models.Contact{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Company:   "Initech",
		LeadScore: 80,
		Tags:      []string{models.TagTierA, "replied"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, models.ContactStatusNew, created.Status)

	got, err := GetContact(db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.FullName())
	assert.Equal(t, []string{models.TagTierA, "replied"}, got.Tags)
	assert.Nil(t, got.LastContactedAt)
}

func TestUpdateContactPartial(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	created, err := CreateContact(db, &models.Contact{FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)

	qualified := models.ContactStatusQualified
	score := 95
	updated, err := UpdateContact(db, created.ID, ContactUpdate{Status: &qualified, LeadScore: &score})
	require.NoError(t, err)

	assert.Equal(t, models.ContactStatusQualified, updated.Status)
	assert.Equal(t, 95, updated.LeadScore)
	assert.Equal(t, "Ada", updated.FirstName)
}

func TestOutboundActivityStampsLastContacted(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	created, err := CreateContact(db, &models.Contact{FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)

	_, err = LogContactActivity(db, &models.ContactActivity{
		ContactID: created.ID,
		Type:      "email",
		Direction: "outbound",
		Subject:   "intro",
	})
	require.NoError(t, err)

	got, err := GetContact(db, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.LastContactedAt)
}

func TestInboundActivityDoesNotStampLastContacted(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	created, err := CreateContact(db, &models.Contact{FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)

	_, err = LogContactActivity(db, &models.ContactActivity{
		ContactID: created.ID,
		Type:      "email",
		Direction: "inbound",
	})
	require.NoError(t, err)

	got, err := GetContact(db, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LastContactedAt)
}

func TestDeleteContactCascades(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	created, err := CreateContact(db, &models.Contact{FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)

	_, err = CreateDeal(db, &models.Deal{ContactID: created.ID, Title: "Pilot", Value: 5000})
	require.NoError(t, err)

	require.NoError(t, DeleteContact(db, created.ID))

	deals, err := ListDeals(db, created.ID)
	require.NoError(t, err)
	assert.Empty(t, deals)
}

func TestCreateDealDefaults(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	created, err := CreateContact(db, &models.Contact{FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)

	deal, err := CreateDeal(db, &models.Deal{ContactID: created.ID, Title: "Pilot"})
	require.NoError(t, err)
	assert.Equal(t, models.DealStageDiscovery, deal.Stage)
	assert.Equal(t, "EUR", deal.Currency)
}
