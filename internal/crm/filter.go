// Package crm filters and sorts CRM contacts in memory. Both operations
// are pure: they never touch the store and never mutate their inputs.
package crm

import (
	"strings"

	"github.com/dotcommander/missionctl/internal/models"
)

// FilterSpec is a compound contact filter. Every non-empty group must
// hold for a contact to pass. Statuses and Tiers are OR within the
// group; RequiredTags is AND; ExcludedTags is NOT. The asymmetry
// between tier membership (any) and required tags (all) is deliberate.
type FilterSpec struct {
	Statuses     []models.ContactStatus
	Tiers        []string
	RequiredTags []string
	ExcludedTags []string
	Company      string
	Search       string
}

// Passes evaluates the contact against every non-empty filter group.
func (f *FilterSpec) Passes(c *models.Contact) bool {
	tags := tagSet(c.Tags)

	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if c.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(f.Tiers) > 0 {
		found := false
		for _, tier := range f.Tiers {
			if _, ok := tags[tier]; ok {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for _, required := range dedupe(f.RequiredTags) {
		if _, ok := tags[required]; !ok {
			return false
		}
	}

	for _, excluded := range f.ExcludedTags {
		if _, ok := tags[excluded]; ok {
			return false
		}
	}

	if f.Company != "" && !strings.EqualFold(c.Company, f.Company) {
		return false
	}

	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		haystacks := []string{c.FullName(), c.Company, c.Email, c.Title, c.Notes}
		found := false
		for _, h := range haystacks {
			if strings.Contains(strings.ToLower(h), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// Filter returns the contacts that pass f, in input order.
func Filter(contacts []*models.Contact, spec *FilterSpec) []*models.Contact {
	out := make([]*models.Contact, 0, len(contacts))
	for _, c := range contacts {
		if spec.Passes(c) {
			out = append(out, c)
		}
	}
	return out
}

// tagSet dedupes tags into a set so duplicates cannot skew the AND
// logic of required-tag checks.
func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}

func dedupe(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
