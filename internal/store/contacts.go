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

const contactColumns = `id, first_name, last_name, email, phone, company, title, linkedin_url,
	location, source, status, lead_score, ai_readiness, last_contacted_at, last_response_at,
	next_followup_at, notes, tags, created_at, updated_at`

// CreateContact inserts a new CRM contact. Status defaults to "new".
func CreateContact(db *sql.DB, c *models.Contact) (*models.Contact, error) {
	if c.FirstName == "" && c.LastName == "" {
		return nil, errors.New("contact needs at least a first or last name")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = models.ContactStatusNew
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	err := RetryWithBackoff(func() error {
		_, err := db.ExecContext(context.Background(), `
			INSERT INTO crm_contacts (id, first_name, last_name, email, phone, company, title,
				linkedin_url, location, source, status, lead_score, ai_readiness,
				last_contacted_at, last_response_at, next_followup_at, notes, tags,
				created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, c.ID, c.FirstName, c.LastName, nullString(c.Email), nullString(c.Phone),
			nullString(c.Company), nullString(c.Title), nullString(c.LinkedinURL),
			nullString(c.Location), nullString(c.Source), c.Status, c.LeadScore,
			nullString(c.AIReadiness), nullTime(c.LastContactedAt), nullTime(c.LastResponseAt),
			nullTime(c.NextFollowupAt), nullString(c.Notes), encodeStringList(c.Tags),
			c.CreatedAt, c.UpdatedAt)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert contact: %w", err)
	}
	return c, nil
}

// GetContact retrieves a contact by ID.
func GetContact(q Querier, id string) (*models.Contact, error) {
	row := q.QueryRow(`SELECT `+contactColumns+` FROM crm_contacts WHERE id = ?`, id)
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Kind: "contact", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query contact: %w", err)
	}
	return c, nil
}

// ListContacts returns all contacts. Filtering and sorting happen in
// memory so the comparator set stays independent of SQL collation.
func ListContacts(db *sql.DB) ([]*models.Contact, error) {
	rows, err := db.QueryContext(context.Background(), `SELECT `+contactColumns+` FROM crm_contacts`)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.Contact
	for rows.Next() {
		c, scanErr := scanContact(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", scanErr)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ContactUpdate carries the optional fields of a partial contact update.
type ContactUpdate struct {
	FirstName       *string
	LastName        *string
	Email           *string
	Phone           *string
	Company         *string
	Title           *string
	Status          *models.ContactStatus
	LeadScore       *int
	Notes           *string
	Tags            []string
	LastContactedAt *time.Time
	LastResponseAt  *time.Time
	NextFollowupAt  *time.Time
}

// UpdateContact applies the non-nil fields and bumps updated_at.
func UpdateContact(db *sql.DB, id string, update ContactUpdate) (*models.Contact, error) {
	var contact *models.Contact
	err := Transact(db, func(tx *sql.Tx) error {
		existing, err := GetContact(tx, id)
		if err != nil {
			return err
		}

		if update.FirstName != nil {
			existing.FirstName = *update.FirstName
		}
		if update.LastName != nil {
			existing.LastName = *update.LastName
		}
		if update.Email != nil {
			existing.Email = *update.Email
		}
		if update.Phone != nil {
			existing.Phone = *update.Phone
		}
		if update.Company != nil {
			existing.Company = *update.Company
		}
		if update.Title != nil {
			existing.Title = *update.Title
		}
		if update.Status != nil {
			existing.Status = *update.Status
		}
		if update.LeadScore != nil {
			existing.LeadScore = *update.LeadScore
		}
		if update.Notes != nil {
			existing.Notes = *update.Notes
		}
		if update.Tags != nil {
			existing.Tags = update.Tags
		}
		if update.LastContactedAt != nil {
			existing.LastContactedAt = update.LastContactedAt
		}
		if update.LastResponseAt != nil {
			existing.LastResponseAt = update.LastResponseAt
		}
		if update.NextFollowupAt != nil {
			existing.NextFollowupAt = update.NextFollowupAt
		}
		existing.UpdatedAt = time.Now().UTC()

		_, err = tx.ExecContext(context.Background(), `
			UPDATE crm_contacts SET first_name = ?, last_name = ?, email = ?, phone = ?,
				company = ?, title = ?, status = ?, lead_score = ?, notes = ?, tags = ?,
				last_contacted_at = ?, last_response_at = ?, next_followup_at = ?, updated_at = ?
			WHERE id = ?
		`, existing.FirstName, existing.LastName, nullString(existing.Email), nullString(existing.Phone),
			nullString(existing.Company), nullString(existing.Title), existing.Status,
			existing.LeadScore, nullString(existing.Notes), encodeStringList(existing.Tags),
			nullTime(existing.LastContactedAt), nullTime(existing.LastResponseAt),
			nullTime(existing.NextFollowupAt), existing.UpdatedAt, id)
		if err != nil {
			return fmt.Errorf("failed to update contact: %w", err)
		}
		contact = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contact, nil
}

// DeleteContact removes a contact; activities and deals cascade.
func DeleteContact(db *sql.DB, id string) error {
	return RetryWithBackoff(func() error {
		result, err := db.ExecContext(context.Background(), `DELETE FROM crm_contacts WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete contact: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return &models.NotFoundError{Kind: "contact", ID: id}
		}
		return nil
	})
}

// LogContactActivity records an outreach touchpoint and stamps the
// contact's last_contacted_at for outbound activities.
func LogContactActivity(db *sql.DB, a *models.ContactActivity) (*models.ContactActivity, error) {
	if a.Type == "" {
		return nil, errors.New("activity type is required")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()

	err := Transact(db, func(tx *sql.Tx) error {
		if _, err := GetContact(tx, a.ContactID); err != nil {
			return err
		}
		_, err := tx.ExecContext(context.Background(), `
			INSERT INTO crm_activities (id, contact_id, type, direction, subject, content, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, a.ID, a.ContactID, a.Type, nullString(a.Direction), nullString(a.Subject),
			nullString(a.Content), nullString(a.Status), a.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert contact activity: %w", err)
		}
		if a.Direction == "outbound" {
			_, err = tx.ExecContext(context.Background(), `
				UPDATE crm_contacts SET last_contacted_at = ?, updated_at = ? WHERE id = ?
			`, a.CreatedAt, a.CreatedAt, a.ContactID)
			if err != nil {
				return fmt.Errorf("failed to stamp last_contacted_at: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListContactActivities returns a contact's touchpoints newest first.
func ListContactActivities(db *sql.DB, contactID string) ([]*models.ContactActivity, error) {
	rows, err := db.QueryContext(context.Background(), `
		SELECT id, contact_id, type, direction, subject, content, status, created_at
		FROM crm_activities WHERE contact_id = ? ORDER BY created_at DESC
	`, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact activities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.ContactActivity
	for rows.Next() {
		var a models.ContactActivity
		var direction, subject, content, status sql.NullString
		if scanErr := rows.Scan(&a.ID, &a.ContactID, &a.Type, &direction, &subject, &content, &status, &a.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan contact activity row: %w", scanErr)
		}
		a.Direction = direction.String
		a.Subject = subject.String
		a.Content = content.String
		a.Status = status.String
		out = append(out, &a)
	}
	return out, rows.Err()
}

// CreateDeal attaches a monetary opportunity to a contact.
func CreateDeal(db *sql.DB, d *models.Deal) (*models.Deal, error) {
	if d.Title == "" {
		return nil, errors.New("deal title is required")
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Currency == "" {
		d.Currency = "EUR"
	}
	if d.Stage == "" {
		d.Stage = models.DealStageDiscovery
	}
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	err := Transact(db, func(tx *sql.Tx) error {
		if _, err := GetContact(tx, d.ContactID); err != nil {
			return err
		}
		_, err := tx.ExecContext(context.Background(), `
			INSERT INTO crm_deals (id, contact_id, title, value, currency, stage, probability,
				expected_close_date, notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, d.ID, d.ContactID, d.Title, d.Value, d.Currency, d.Stage, d.Probability,
			nullTime(d.ExpectedCloseDate), nullString(d.Notes), d.CreatedAt, d.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert deal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateDealStage moves a deal to a new stage.
func UpdateDealStage(db *sql.DB, id string, stage models.DealStage) error {
	return RetryWithBackoff(func() error {
		result, err := db.ExecContext(context.Background(), `
			UPDATE crm_deals SET stage = ?, updated_at = ? WHERE id = ?
		`, stage, time.Now().UTC(), id)
		if err != nil {
			return fmt.Errorf("failed to update deal stage: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return &models.NotFoundError{Kind: "deal", ID: id}
		}
		return nil
	})
}

// ListDeals returns deals newest first, optionally scoped to a contact.
func ListDeals(db *sql.DB, contactID string) ([]*models.Deal, error) {
	query := `SELECT id, contact_id, title, value, currency, stage, probability,
		expected_close_date, notes, created_at, updated_at FROM crm_deals`
	var args []any
	if contactID != "" {
		query += ` WHERE contact_id = ?`
		args = append(args, contactID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query deals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.Deal
	for rows.Next() {
		var d models.Deal
		var closeDate sql.NullTime
		var notes sql.NullString
		if scanErr := rows.Scan(&d.ID, &d.ContactID, &d.Title, &d.Value, &d.Currency, &d.Stage,
			&d.Probability, &closeDate, &notes, &d.CreatedAt, &d.UpdatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan deal row: %w", scanErr)
		}
		if closeDate.Valid {
			t := closeDate.Time
			d.ExpectedCloseDate = &t
		}
		d.Notes = notes.String
		out = append(out, &d)
	}
	return out, rows.Err()
}

func scanContact(row rowScanner) (*models.Contact, error) {
	var c models.Contact
	var email, phone, company, title, linkedin, location, source, aiReadiness, notes sql.NullString
	var lastContacted, lastResponse, nextFollowup sql.NullTime
	var tags string
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &email, &phone, &company, &title,
		&linkedin, &location, &source, &c.Status, &c.LeadScore, &aiReadiness,
		&lastContacted, &lastResponse, &nextFollowup, &notes, &tags, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Email = email.String
	c.Phone = phone.String
	c.Company = company.String
	c.Title = title.String
	c.LinkedinURL = linkedin.String
	c.Location = location.String
	c.Source = source.String
	c.AIReadiness = aiReadiness.String
	c.Notes = notes.String
	if lastContacted.Valid {
		t := lastContacted.Time
		c.LastContactedAt = &t
	}
	if lastResponse.Valid {
		t := lastResponse.Time
		c.LastResponseAt = &t
	}
	if nextFollowup.Valid {
		t := nextFollowup.Time
		c.NextFollowupAt = &t
	}
	list, err := decodeStringList(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	c.Tags = list
	return &c, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
