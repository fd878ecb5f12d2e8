package models

import "time"

// ContactStatus is the pipeline stage of a CRM contact.
type ContactStatus string

// Contact status constants, in pipeline order.
const (
	ContactStatusNew          ContactStatus = "new"
	ContactStatusContacted    ContactStatus = "contacted"
	ContactStatusConnected    ContactStatus = "connected"
	ContactStatusConversation ContactStatus = "conversation"
	ContactStatusQualified    ContactStatus = "qualified"
	ContactStatusProposal     ContactStatus = "proposal"
	ContactStatusClient       ContactStatus = "client"
	ContactStatusLost         ContactStatus = "lost"
	ContactStatusNurture      ContactStatus = "nurture"
)

// ContactStatuses lists all valid contact statuses in pipeline order.
func ContactStatuses() []ContactStatus {
	return []ContactStatus{
		ContactStatusNew, ContactStatusContacted, ContactStatusConnected,
		ContactStatusConversation, ContactStatusQualified, ContactStatusProposal,
		ContactStatusClient, ContactStatusLost, ContactStatusNurture,
	}
}

// Tier tags: convention-encoded lead-quality buckets stored in the same
// tag set as free-form tags ("replied", "dm1_sent", "has_email", ...).
const (
	TagTierA = "tier_A"
	TagTierB = "tier_B"
	TagTierC = "tier_C"
	TagTierD = "tier_D"
)

// Contact is a CRM lead synced from an external sheet.
type Contact struct {
	ID              string        `json:"id"`
	FirstName       string        `json:"first_name"`
	LastName        string        `json:"last_name"`
	Email           string        `json:"email,omitempty"`
	Phone           string        `json:"phone,omitempty"`
	Company         string        `json:"company,omitempty"`
	Title           string        `json:"title,omitempty"`
	LinkedinURL     string        `json:"linkedin_url,omitempty"`
	Location        string        `json:"location,omitempty"`
	Source          string        `json:"source,omitempty"`
	Status          ContactStatus `json:"status"`
	LeadScore       int           `json:"lead_score"`
	AIReadiness     string        `json:"ai_readiness,omitempty"`
	LastContactedAt *time.Time    `json:"last_contacted_at,omitempty"`
	LastResponseAt  *time.Time    `json:"last_response_at,omitempty"`
	NextFollowupAt  *time.Time    `json:"next_followup_at,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	Tags            []string      `json:"tags"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// FullName returns "first last" for display and search.
func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// HasTag reports whether the contact carries the given tag.
func (c *Contact) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// DealStage is the stage of a CRM deal.
type DealStage string

// Deal stage constants.
const (
	DealStageDiscovery   DealStage = "discovery"
	DealStageProposal    DealStage = "proposal"
	DealStageNegotiation DealStage = "negotiation"
	DealStageClosedWon   DealStage = "closed_won"
	DealStageClosedLost  DealStage = "closed_lost"
)

// Deal is a monetary opportunity attached to a contact.
type Deal struct {
	ID                string     `json:"id"`
	ContactID         string     `json:"contact_id"`
	Title             string     `json:"title"`
	Value             float64    `json:"value"`
	Currency          string     `json:"currency"`
	Stage             DealStage  `json:"stage"`
	Probability       int        `json:"probability"`
	ExpectedCloseDate *time.Time `json:"expected_close_date,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ContactActivity is one outreach touchpoint on a contact.
type ContactActivity struct {
	ID        string    `json:"id"`
	ContactID string    `json:"contact_id"`
	Type      string    `json:"type"`
	Direction string    `json:"direction,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Content   string    `json:"content,omitempty"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PipelineStatus is the kanban stage of a content pipeline item.
type PipelineStatus string

// Pipeline status constants, in workflow order.
const (
	PipelineStatusIdea        PipelineStatus = "idea"
	PipelineStatusResearching PipelineStatus = "researching"
	PipelineStatusDraft       PipelineStatus = "draft"
	PipelineStatusReview      PipelineStatus = "review"
	PipelineStatusRevision    PipelineStatus = "revision"
	PipelineStatusApproved    PipelineStatus = "approved"
	PipelineStatusPublished   PipelineStatus = "published"
	PipelineStatusPromoted    PipelineStatus = "promoted"
)

// PipelineItem is one piece of content moving through the workflow.
type PipelineItem struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	ContentType    string         `json:"content_type"`
	Status         PipelineStatus `json:"status"`
	TargetPlatform string         `json:"target_platform,omitempty"`
	Keywords       []string       `json:"keywords,omitempty"`
	WordCount      int            `json:"word_count,omitempty"`
	QualityScore   int            `json:"quality_score,omitempty"`
	RevisionCount  int            `json:"revision_count"`
	ClaimedBy      string         `json:"claimed_by,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	PublishedAt    *time.Time     `json:"published_at,omitempty"`
	PublishedURL   string         `json:"published_url,omitempty"`
}

// PipelineEvent is one append-only log line on a pipeline item.
// Title is joined from the item for display.
type PipelineEvent struct {
	ID         string    `json:"id"`
	PipelineID string    `json:"pipeline_id"`
	Agent      string    `json:"agent"`
	Action     string    `json:"action"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	Title      string    `json:"title,omitempty"`
}
