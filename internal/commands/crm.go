package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dotcommander/missionctl/internal/actions"
	"github.com/dotcommander/missionctl/internal/crm"
	"github.com/dotcommander/missionctl/internal/models"
	"github.com/dotcommander/missionctl/internal/output"
	"github.com/dotcommander/missionctl/internal/store"
)

// NewCRMCmd creates the crm command group
func NewCRMCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crm",
		Short: "Manage CRM contacts, activities, and deals",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newCRMAddCmd())
	cmd.AddCommand(newCRMListCmd())
	cmd.AddCommand(newCRMGetCmd())
	cmd.AddCommand(newCRMUpdateCmd())
	cmd.AddCommand(newCRMDeleteCmd())
	cmd.AddCommand(newCRMTouchCmd())
	cmd.AddCommand(newCRMActivitiesCmd())
	cmd.AddCommand(newCRMDealCmd())

	return cmd
}

func newCRMAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		RunE: func(cmd *cobra.Command, args []string) error {
			firstName, _ := cmd.Flags().GetString("first-name")
			lastName, _ := cmd.Flags().GetString("last-name")
			email, _ := cmd.Flags().GetString("email")
			company, _ := cmd.Flags().GetString("company")
			title, _ := cmd.Flags().GetString("title")
			source, _ := cmd.Flags().GetString("source")
			score, _ := cmd.Flags().GetInt("score")
			tags, _ := cmd.Flags().GetStringSlice("tag")
			notes, _ := cmd.Flags().GetString("notes")

			if firstName == "" && lastName == "" {
				return cmdErr(errors.New("--first-name or --last-name is required"))
			}

			contact := &models.Contact{
				FirstName: firstName,
				LastName:  lastName,
				Email:     email,
				Company:   company,
				Title:     title,
				Source:    source,
				LeadScore: score,
				Tags:      tags,
				Notes:     notes,
			}
			if err := withDB(func(db *DB) error {
				c, err := store.CreateContact(db, contact)
				if err != nil {
					return err
				}
				contact = c
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Contact *models.Contact `json:"contact"`
			}
			return output.PrintSuccess(resp{Contact: contact})
		},
	}

	cmd.Flags().String("first-name", "", "First name")
	cmd.Flags().String("last-name", "", "Last name")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("company", "", "Company")
	cmd.Flags().String("title", "", "Job title")
	cmd.Flags().String("source", "", "Lead source")
	cmd.Flags().Int("score", 0, "Lead score 0-100")
	cmd.Flags().StringSlice("tag", nil, "Contact tag (repeatable; tier_A..tier_D encode tiers)")
	cmd.Flags().String("notes", "", "Free-form notes")

	return cmd
}

func newCRMListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts with compound filters and sorting",
		Long:  "Statuses and tiers match any (OR); required tags must all be present (AND); excluded tags must all be absent. Sort keys: score, name, company, last_contacted, updated.",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, _ := cmd.Flags().GetStringSlice("status")
			tiers, _ := cmd.Flags().GetStringSlice("tier")
			requiredTags, _ := cmd.Flags().GetStringSlice("tag")
			excludedTags, _ := cmd.Flags().GetStringSlice("not-tag")
			company, _ := cmd.Flags().GetString("company")
			text, _ := cmd.Flags().GetString("search")
			sortKey, _ := cmd.Flags().GetString("sort")

			spec := &crm.FilterSpec{
				Tiers:        tiers,
				RequiredTags: requiredTags,
				ExcludedTags: excludedTags,
				Company:      company,
				Search:       text,
			}
			for _, s := range statuses {
				spec.Statuses = append(spec.Statuses, models.ContactStatus(s))
			}

			var contacts []*models.Contact
			if err := withDB(func(db *DB) error {
				list, err := actions.ListContactsFiltered(db, spec, sortKey)
				if err != nil {
					return err
				}
				contacts = list
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Contacts []*models.Contact `json:"contacts"`
				Count    int               `json:"count"`
			}
			return output.PrintSuccess(resp{Contacts: contacts, Count: len(contacts)})
		},
	}

	cmd.Flags().StringSlice("status", nil, "Status filter (repeatable, OR)")
	cmd.Flags().StringSlice("tier", nil, "Tier tag filter (repeatable, OR)")
	cmd.Flags().StringSlice("tag", nil, "Required tag (repeatable, AND)")
	cmd.Flags().StringSlice("not-tag", nil, "Excluded tag (repeatable)")
	cmd.Flags().String("company", "", "Exact company match (case-insensitive)")
	cmd.Flags().String("search", "", "Free-text search across name/company/email/title/notes")
	cmd.Flags().String("sort", crm.SortByScore, "Sort key")

	return cmd
}

func newCRMGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get a contact",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			if id == "" {
				return cmdErr(errors.New("--id is required"))
			}

			var contact *models.Contact
			if err := withDB(func(db *DB) error {
				c, err := store.GetContact(db, id)
				if err != nil {
					return err
				}
				contact = c
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Contact *models.Contact `json:"contact"`
			}
			return output.PrintSuccess(resp{Contact: contact})
		},
	}

	cmd.Flags().String("id", "", "Contact ID (required)")

	return cmd
}

func newCRMUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Partially update a contact",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			if id == "" {
				return cmdErr(errors.New("--id is required"))
			}

			var update store.ContactUpdate
			if cmd.Flags().Changed("status") {
				v, _ := cmd.Flags().GetString("status")
				s := models.ContactStatus(v)
				update.Status = &s
			}
			if cmd.Flags().Changed("score") {
				v, _ := cmd.Flags().GetInt("score")
				update.LeadScore = &v
			}
			if cmd.Flags().Changed("notes") {
				v, _ := cmd.Flags().GetString("notes")
				update.Notes = &v
			}
			if cmd.Flags().Changed("tag") {
				v, _ := cmd.Flags().GetStringSlice("tag")
				update.Tags = v
			}
			if cmd.Flags().Changed("company") {
				v, _ := cmd.Flags().GetString("company")
				update.Company = &v
			}
			if cmd.Flags().Changed("email") {
				v, _ := cmd.Flags().GetString("email")
				update.Email = &v
			}

			var contact *models.Contact
			if err := withDB(func(db *DB) error {
				c, err := store.UpdateContact(db, id, update)
				if err != nil {
					return err
				}
				contact = c
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Contact *models.Contact `json:"contact"`
			}
			return output.PrintSuccess(resp{Contact: contact})
		},
	}

	cmd.Flags().String("id", "", "Contact ID (required)")
	cmd.Flags().String("status", "", "New status")
	cmd.Flags().Int("score", 0, "New lead score")
	cmd.Flags().String("notes", "", "New notes")
	cmd.Flags().StringSlice("tag", nil, "Replace tags (repeatable)")
	cmd.Flags().String("company", "", "New company")
	cmd.Flags().String("email", "", "New email")

	return cmd
}

func newCRMDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a contact (activities and deals cascade)",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			if id == "" {
				return cmdErr(errors.New("--id is required"))
			}

			if err := withDB(func(db *DB) error {
				return store.DeleteContact(db, id)
			}); err != nil {
				return err
			}

			type resp struct {
				ID      string `json:"id"`
				Deleted bool   `json:"deleted"`
			}
			return output.PrintSuccess(resp{ID: id, Deleted: true})
		},
	}

	cmd.Flags().String("id", "", "Contact ID (required)")

	return cmd
}

func newCRMTouchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "touch",
		Short: "Log an outreach touchpoint on a contact",
		RunE: func(cmd *cobra.Command, args []string) error {
			contactID, _ := cmd.Flags().GetString("id")
			actType, _ := cmd.Flags().GetString("type")
			direction, _ := cmd.Flags().GetString("direction")
			subject, _ := cmd.Flags().GetString("subject")
			content, _ := cmd.Flags().GetString("content")

			if contactID == "" {
				return cmdErr(errors.New("--id is required"))
			}
			if actType == "" {
				return cmdErr(errors.New("--type is required"))
			}

			activity := &models.ContactActivity{
				ContactID: contactID,
				Type:      actType,
				Direction: direction,
				Subject:   subject,
				Content:   content,
			}
			if err := withDB(func(db *DB) error {
				a, err := store.LogContactActivity(db, activity)
				if err != nil {
					return err
				}
				activity = a
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Activity *models.ContactActivity `json:"activity"`
			}
			return output.PrintSuccess(resp{Activity: activity})
		},
	}

	cmd.Flags().String("id", "", "Contact ID (required)")
	cmd.Flags().String("type", "", "Activity type, e.g. email, dm, call (required)")
	cmd.Flags().String("direction", "", "inbound or outbound")
	cmd.Flags().String("subject", "", "Subject line")
	cmd.Flags().String("content", "", "Activity content")

	return cmd
}

func newCRMActivitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activities",
		Short: "List a contact's touchpoints newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			contactID, _ := cmd.Flags().GetString("id")
			if contactID == "" {
				return cmdErr(errors.New("--id is required"))
			}

			var activities []*models.ContactActivity
			if err := withDB(func(db *DB) error {
				list, err := store.ListContactActivities(db, contactID)
				if err != nil {
					return err
				}
				activities = list
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Activities []*models.ContactActivity `json:"activities"`
				Count      int                       `json:"count"`
			}
			return output.PrintSuccess(resp{Activities: activities, Count: len(activities)})
		},
	}

	cmd.Flags().String("id", "", "Contact ID (required)")

	return cmd
}

func newCRMDealCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deal",
		Short: "Manage deals",
		Args:  cobra.NoArgs,
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Attach a deal to a contact",
		RunE: func(cmd *cobra.Command, args []string) error {
			contactID, _ := cmd.Flags().GetString("contact-id")
			title, _ := cmd.Flags().GetString("title")
			value, _ := cmd.Flags().GetFloat64("value")
			currency, _ := cmd.Flags().GetString("currency")
			probability, _ := cmd.Flags().GetInt("probability")
			notes, _ := cmd.Flags().GetString("notes")

			if contactID == "" {
				return cmdErr(errors.New("--contact-id is required"))
			}
			if title == "" {
				return cmdErr(errors.New("--title is required"))
			}

			deal := &models.Deal{
				ContactID:   contactID,
				Title:       title,
				Value:       value,
				Currency:    currency,
				Probability: probability,
				Notes:       notes,
			}
			if err := withDB(func(db *DB) error {
				d, err := store.CreateDeal(db, deal)
				if err != nil {
					return err
				}
				deal = d
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Deal *models.Deal `json:"deal"`
			}
			return output.PrintSuccess(resp{Deal: deal})
		},
	}
	add.Flags().String("contact-id", "", "Contact ID (required)")
	add.Flags().String("title", "", "Deal title (required)")
	add.Flags().Float64("value", 0, "Deal value")
	add.Flags().String("currency", "", "Currency (default EUR)")
	add.Flags().Int("probability", 0, "Close probability 0-100")
	add.Flags().String("notes", "", "Deal notes")

	stage := &cobra.Command{
		Use:   "stage",
		Short: "Move a deal to a new stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			stageName, _ := cmd.Flags().GetString("stage")

			if id == "" {
				return cmdErr(errors.New("--id is required"))
			}
			if stageName == "" {
				return cmdErr(errors.New("--stage is required"))
			}

			if err := withDB(func(db *DB) error {
				return store.UpdateDealStage(db, id, models.DealStage(stageName))
			}); err != nil {
				return err
			}

			type resp struct {
				ID    string `json:"id"`
				Stage string `json:"stage"`
			}
			return output.PrintSuccess(resp{ID: id, Stage: stageName})
		},
	}
	stage.Flags().String("id", "", "Deal ID (required)")
	stage.Flags().String("stage", "", "New stage (discovery|proposal|negotiation|closed_won|closed_lost)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List deals newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			contactID, _ := cmd.Flags().GetString("contact-id")

			var deals []*models.Deal
			if err := withDB(func(db *DB) error {
				d, err := store.ListDeals(db, contactID)
				if err != nil {
					return err
				}
				deals = d
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Deals []*models.Deal `json:"deals"`
				Count int            `json:"count"`
			}
			return output.PrintSuccess(resp{Deals: deals, Count: len(deals)})
		},
	}
	list.Flags().String("contact-id", "", "Filter by contact ID")

	cmd.AddCommand(add)
	cmd.AddCommand(stage)
	cmd.AddCommand(list)

	return cmd
}
