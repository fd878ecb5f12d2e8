package actions

import (
	"database/sql"

	"github.com/dotcommander/missionctl/internal/crm"
	"github.com/dotcommander/missionctl/internal/models"
	"github.com/dotcommander/missionctl/internal/store"
)

// ListContactsFiltered loads all contacts, applies the compound filter,
// then orders the survivors by the named sort key.
func ListContactsFiltered(db *sql.DB, spec *crm.FilterSpec, sortKey string) ([]*models.Contact, error) {
	contacts, err := store.ListContacts(db)
	if err != nil {
		return nil, err
	}
	return crm.Sort(crm.Filter(contacts, spec), sortKey), nil
}
