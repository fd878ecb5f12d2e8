package crm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dotcommander/missionctl/internal/models"
)

func contact(name string, status models.ContactStatus, tags ...string) *models.Contact {
	return &models.Contact{
		FirstName: name,
		LastName:  "Test",
		Status:    status,
		Tags:      tags,
	}
}

func TestPassesEmptySpecMatchesEverything(t *testing.T) {
	spec := &FilterSpec{}
	assert.True(t, spec.Passes(contact("Ada", models.ContactStatusNew)))
	assert.True(t, spec.Passes(contact("Bo", models.ContactStatusLost, "tier_D")))
}

func TestPassesStatusMembershipIsOr(t *testing.T) {
	spec := &FilterSpec{Statuses: []models.ContactStatus{
		models.ContactStatusQualified, models.ContactStatusClient,
	}}
	assert.True(t, spec.Passes(contact("Ada", models.ContactStatusQualified)))
	assert.True(t, spec.Passes(contact("Bo", models.ContactStatusClient)))
	assert.False(t, spec.Passes(contact("Cy", models.ContactStatusNew)))
}

func TestPassesTierIsOrButRequiredTagsAreAnd(t *testing.T) {
	// One tier match suffices.
	tierSpec := &FilterSpec{Tiers: []string{models.TagTierA, models.TagTierB}}
	assert.True(t, tierSpec.Passes(contact("Ada", models.ContactStatusNew, models.TagTierB)))

	// Every required tag must be present.
	tagSpec := &FilterSpec{RequiredTags: []string{"replied", "has_email"}}
	assert.False(t, tagSpec.Passes(contact("Ada", models.ContactStatusNew, "replied")))
	assert.True(t, tagSpec.Passes(contact("Ada", models.ContactStatusNew, "replied", "has_email")))
}

func TestPassesExclusionWinsOverRequirement(t *testing.T) {
	spec := &FilterSpec{
		RequiredTags: []string{"replied"},
		ExcludedTags: []string{"unsubscribed"},
	}
	assert.True(t, spec.Passes(contact("Ada", models.ContactStatusNew, "replied")))
	assert.False(t, spec.Passes(contact("Bo", models.ContactStatusNew, "replied", "unsubscribed")))
}

func TestPassesNoTagsNeverMatchesTierOrRequired(t *testing.T) {
	bare := contact("Ada", models.ContactStatusNew)

	assert.False(t, (&FilterSpec{Tiers: []string{models.TagTierA}}).Passes(bare))
	assert.False(t, (&FilterSpec{RequiredTags: []string{"replied"}}).Passes(bare))
	assert.True(t, (&FilterSpec{}).Passes(bare))
}

func TestPassesDuplicateTagsDoNotSkewAnd(t *testing.T) {
	spec := &FilterSpec{RequiredTags: []string{"replied", "replied", "has_email"}}
	// "replied" twice must not satisfy the missing "has_email".
	assert.False(t, spec.Passes(contact("Ada", models.ContactStatusNew, "replied", "replied")))
}

func TestPassesCompanyExactCaseInsensitive(t *testing.T) {
	c := contact("Ada", models.ContactStatusNew)
	c.Company = "Initech GmbH"

	assert.True(t, (&FilterSpec{Company: "initech gmbh"}).Passes(c))
	assert.False(t, (&FilterSpec{Company: "Initech"}).Passes(c), "substring must not match")
}

func TestPassesFreeTextSearchesAcrossFields(t *testing.T) {
	c := contact("Ada", models.ContactStatusNew)
	c.Company = "Initech"
	c.Email = "ada@example.com"
	c.Title = "CTO"
	c.Notes = "met at gophercon"

	assert.True(t, (&FilterSpec{Search: "ada t"}).Passes(c), "matches full name")
	assert.True(t, (&FilterSpec{Search: "initech"}).Passes(c))
	assert.True(t, (&FilterSpec{Search: "gophercon"}).Passes(c))
	assert.False(t, (&FilterSpec{Search: "zurich"}).Passes(c))
}

func TestFilterPreservesInputOrder(t *testing.T) {
	contacts := []*models.Contact{
		contact("Ada", models.ContactStatusNew, "replied"),
		contact("Bo", models.ContactStatusNew),
		contact("Cy", models.ContactStatusNew, "replied"),
	}
	got := Filter(contacts, &FilterSpec{RequiredTags: []string{"replied"}})
	assert.Len(t, got, 2)
	assert.Equal(t, "Ada", got[0].FirstName)
	assert.Equal(t, "Cy", got[1].FirstName)
}
