package crm

import (
	"sort"
	"strings"

	"github.com/dotcommander/missionctl/internal/models"
)

// Sort key names accepted by Sort.
const (
	SortByScore         = "score"
	SortByName          = "name"
	SortByCompany       = "company"
	SortByLastContacted = "last_contacted"
	SortByUpdated       = "updated"
)

// Sort returns a new slice ordered by the named key. Ties keep their
// input order and the input slice is never reordered. An unknown key
// returns an unchanged copy.
func Sort(contacts []*models.Contact, key string) []*models.Contact {
	out := make([]*models.Contact, len(contacts))
	copy(out, contacts)

	var less func(a, b *models.Contact) bool
	switch key {
	case SortByScore:
		// Descending; missing scores are stored as 0 and sort last.
		less = func(a, b *models.Contact) bool { return a.LeadScore > b.LeadScore }
	case SortByName:
		less = func(a, b *models.Contact) bool {
			return strings.ToLower(a.FullName()) < strings.ToLower(b.FullName())
		}
	case SortByCompany:
		// Ascending; contacts without a company sort last.
		less = func(a, b *models.Contact) bool {
			if (a.Company == "") != (b.Company == "") {
				return b.Company == ""
			}
			return strings.ToLower(a.Company) < strings.ToLower(b.Company)
		}
	case SortByLastContacted:
		// Descending; never-contacted is treated as epoch 0 and sorts last.
		less = func(a, b *models.Contact) bool {
			return contactedMs(a) > contactedMs(b)
		}
	case SortByUpdated:
		less = func(a, b *models.Contact) bool { return a.UpdatedAt.After(b.UpdatedAt) }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func contactedMs(c *models.Contact) int64 {
	if c.LastContactedAt == nil {
		return 0
	}
	return c.LastContactedAt.UnixMilli()
}
