package crm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/missionctl/internal/models"
)

func scored(name string, score int) *models.Contact {
	return &models.Contact{FirstName: name, LeadScore: score}
}

func names(list []*models.Contact) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.FirstName
	}
	return out
}

func TestSortByScoreDescending(t *testing.T) {
	in := []*models.Contact{scored("low", 10), scored("high", 90), scored("mid", 50)}
	got := Sort(in, SortByScore)
	assert.Equal(t, []string{"high", "mid", "low"}, names(got))
}

func TestSortStabilityOnTies(t *testing.T) {
	in := []*models.Contact{scored("first", 50), scored("second", 50), scored("third", 50)}
	got := Sort(in, SortByScore)
	assert.Equal(t, []string{"first", "second", "third"}, names(got))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	in := []*models.Contact{scored("c", 1), scored("a", 3), scored("b", 2)}
	_ = Sort(in, SortByScore)
	assert.Equal(t, []string{"c", "a", "b"}, names(in))
}

func TestSortByCompanyMissingLast(t *testing.T) {
	a := scored("a", 0)
	a.Company = "Acme"
	b := scored("b", 0)
	z := scored("z", 0)
	z.Company = "Zeta"

	got := Sort([]*models.Contact{b, z, a}, SortByCompany)
	assert.Equal(t, []string{"a", "z", "b"}, names(got))
}

func TestSortByLastContactedMissingSortsLast(t *testing.T) {
	recent := scored("recent", 0)
	ts := time.Now()
	recent.LastContactedAt = &ts
	older := scored("older", 0)
	earlier := ts.Add(-48 * time.Hour)
	older.LastContactedAt = &earlier
	never := scored("never", 0)

	got := Sort([]*models.Contact{never, older, recent}, SortByLastContacted)
	assert.Equal(t, []string{"recent", "older", "never"}, names(got))
}

func TestSortByNameAscending(t *testing.T) {
	a := &models.Contact{FirstName: "Ada", LastName: "Lovelace"}
	b := &models.Contact{FirstName: "alan", LastName: "Turing"}
	g := &models.Contact{FirstName: "Grace", LastName: "Hopper"}

	got := Sort([]*models.Contact{g, b, a}, SortByName)
	require.Len(t, got, 3)
	assert.Equal(t, "Ada", got[0].FirstName)
	assert.Equal(t, "alan", got[1].FirstName)
	assert.Equal(t, "Grace", got[2].FirstName)
}

func TestSortUnknownKeyIsStableNoOp(t *testing.T) {
	in := []*models.Contact{scored("c", 1), scored("a", 3), scored("b", 2)}
	got := Sort(in, "bogus")
	assert.Equal(t, []string{"c", "a", "b"}, names(got))
}

func TestFilterThenSortRoundTrip(t *testing.T) {
	ada := scored("Ada", 80)
	ada.Tags = []string{"replied"}
	bo := scored("Bo", 95)
	cy := scored("Cy", 60)
	cy.Tags = []string{"replied"}

	filtered := Filter([]*models.Contact{ada, bo, cy}, &FilterSpec{RequiredTags: []string{"replied"}})
	got := Sort(filtered, SortByScore)

	assert.Equal(t, []string{"Ada", "Cy"}, names(got))
}
