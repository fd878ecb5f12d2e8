package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dotcommander/missionctl/internal/models"
)

func act(id string) *models.Activity { return &models.Activity{ID: id} }

func ids(list []*models.Activity) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.ID
	}
	return out
}

func TestMergeRankedKeepsFirstListOrder(t *testing.T) {
	merged := MergeRanked(func(a *models.Activity) string { return a.ID },
		[]*models.Activity{act("a"), act("b")},
		[]*models.Activity{act("b"), act("c")},
	)
	assert.Equal(t, []string{"a", "b", "c"}, ids(merged))
}

func TestMergeRankedUniqueness(t *testing.T) {
	merged := MergeRanked(func(a *models.Activity) string { return a.ID },
		[]*models.Activity{act("a"), act("b"), act("a")},
		[]*models.Activity{act("a"), act("b")},
		[]*models.Activity{act("c")},
	)
	seen := make(map[string]int)
	for _, a := range merged {
		seen[a.ID]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "id %s duplicated", id)
	}
	assert.Len(t, merged, 3)
}

func TestMergeRankedEmptyInputs(t *testing.T) {
	merged := MergeRanked(func(a *models.Activity) string { return a.ID },
		nil, []*models.Activity{},
	)
	assert.Empty(t, merged)
}
