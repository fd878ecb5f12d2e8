package models

import (
	"encoding/json"
)

// ID Strategy:
// - Fleet entities (agents, tasks, messages, ...) use string IDs in the
//   pattern "<prefix>_<unix_nano>_<hex>" (distributed generation, no
//   coordination needed between agents writing concurrently).
// - CRM and pipeline rows use UUIDs because their IDs originate from an
//   external sheet sync and must round-trip unchanged.
//
// Timestamps on fleet entities are Unix milliseconds (int64), matching the
// wire format agents already emit. CRM rows use RFC 3339 text columns.

// AgentStatus is the self-reported operational state of an agent.
type AgentStatus string

// Agent status constants.
const (
	AgentStatusIdle    AgentStatus = "idle"
	AgentStatusActive  AgentStatus = "active"
	AgentStatusBlocked AgentStatus = "blocked"
)

// AgentLevel is the seniority bucket for an agent.
type AgentLevel string

// Agent level constants.
const (
	AgentLevelIntern     AgentLevel = "intern"
	AgentLevelSpecialist AgentLevel = "specialist"
	AgentLevelLead       AgentLevel = "lead"
)

// Agent is one logical agent in the fleet. SessionKey is the stable
// identity used in all cross-entity references (assignees, mentions,
// message authorship); the row ID is internal to the store.
type Agent struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Role          string      `json:"role"`
	Emoji         string      `json:"emoji"`
	Status        AgentStatus `json:"status"`
	SessionKey    string      `json:"session_key"`
	CurrentTaskID string      `json:"current_task_id,omitempty"`
	LastHeartbeat int64       `json:"last_heartbeat"`
	Level         AgentLevel  `json:"level"`
}

// TaskStatus represents the current state of a task.
type TaskStatus string

// Task status constants. Transitions are free-form except that assigning
// an agent auto-promotes inbox -> assigned.
const (
	TaskStatusInbox      TaskStatus = "inbox"
	TaskStatusAssigned   TaskStatus = "assigned"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusBlocked    TaskStatus = "blocked"
)

// IsTerminal returns true if the task is done.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusDone
}

// TaskPriority is the urgency bucket for a task.
type TaskPriority string

// Task priority constants.
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Task represents a unit of work on the shared board.
type Task struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Status       TaskStatus   `json:"status"`
	Priority     TaskPriority `json:"priority"`
	AssigneeIDs  []string     `json:"assignee_ids"`
	CreatedBy    string       `json:"created_by"`
	CreatedAt    int64        `json:"created_at"`
	UpdatedAt    int64        `json:"updated_at"`
	DueAt        *int64       `json:"due_at,omitempty"`
	Tags         []string     `json:"tags"`
	ParentTaskID string       `json:"parent_task_id,omitempty"`
}

// HasAssignee reports whether sessionKey is among the task's assignees.
func (t *Task) HasAssignee(sessionKey string) bool {
	for _, id := range t.AssigneeIDs {
		if id == sessionKey {
			return true
		}
	}
	return false
}

// IsBlocked returns true if the task status is blocked.
func (t *Task) IsBlocked() bool {
	return t.Status == TaskStatusBlocked
}

// Message is a comment on a task's thread, append-only, ordered by
// timestamp ascending for display.
type Message struct {
	ID            string   `json:"id"`
	TaskID        string   `json:"task_id"`
	FromAgent     string   `json:"from_agent"`
	Content       string   `json:"content"`
	Timestamp     int64    `json:"timestamp"`
	Mentions      []string `json:"mentions"`
	AttachmentIDs []string `json:"attachment_ids,omitempty"`
}

// ThreadSubscription records that an agent follows a task's thread.
// Unique per (task, agent); created implicitly on assignment.
type ThreadSubscription struct {
	TaskID          string `json:"task_id"`
	AgentSessionKey string `json:"agent_session_key"`
	SubscribedAt    int64  `json:"subscribed_at"`
}

// NotificationType classifies why a notification was emitted.
type NotificationType string

// Notification type constants.
const (
	NotificationMention      NotificationType = "mention"
	NotificationAssignment   NotificationType = "assignment"
	NotificationStatusChange NotificationType = "status_change"
	NotificationComment      NotificationType = "comment"
)

// Notification is one outbound alert for one agent.
// Lifecycle: created undelivered -> delivered -> optionally read
// (marking read also marks delivered).
type Notification struct {
	ID          string           `json:"id"`
	TargetAgent string           `json:"target_agent"`
	SourceAgent string           `json:"source_agent"`
	Type        NotificationType `json:"type"`
	Content     string           `json:"content"`
	TaskID      string           `json:"task_id,omitempty"`
	Timestamp   int64            `json:"timestamp"`
	Delivered   bool             `json:"delivered"`
	ReadAt      *int64           `json:"read_at,omitempty"`
}

// IsRead returns true once the notification has been marked read.
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// Activity is one entry in the append-only fleet activity stream.
// Immutable once created except for status.
type Activity struct {
	ID         string          `json:"id"`
	Timestamp  int64           `json:"timestamp"`
	ActionType string          `json:"action_type"`
	Title      string          `json:"title"`
	Details    string          `json:"details,omitempty"`
	Status     string          `json:"status"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
}

// Document is a piece of indexed external knowledge; mutated only by
// re-ingestion, which replaces content and bumps LastUpdated.
type Document struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Source      string `json:"source"`
	SourcePath  string `json:"source_path,omitempty"`
	LastUpdated int64  `json:"last_updated"`
}

// DebateStatus is the lifecycle state of a debate.
type DebateStatus string

// Debate status constants. Resolved is terminal: entries become
// immutable once a debate is resolved.
const (
	DebateStatusOpen     DebateStatus = "open"
	DebateStatusVoting   DebateStatus = "voting"
	DebateStatusResolved DebateStatus = "resolved"
)

// Debate is a structured disagreement between agents about a task.
type Debate struct {
	ID         string       `json:"id"`
	TaskID     string       `json:"task_id"`
	Topic      string       `json:"topic"`
	Status     DebateStatus `json:"status"`
	CreatedBy  string       `json:"created_by"`
	CreatedAt  int64        `json:"created_at"`
	ResolvedAt *int64       `json:"resolved_at,omitempty"`
	Resolution string       `json:"resolution,omitempty"`
	ResolvedBy string       `json:"resolved_by,omitempty"`
}

// IsResolved returns true once the debate reached its terminal state.
func (d *Debate) IsResolved() bool {
	return d.Status == DebateStatusResolved
}

// DebateEntry is one agent's position in a debate. At most one entry per
// (debate, agent): re-submission updates in place.
type DebateEntry struct {
	ID              string `json:"id"`
	DebateID        string `json:"debate_id"`
	AgentSessionKey string `json:"agent_session_key"`
	Position        string `json:"position"`
	Confidence      int    `json:"confidence"`
	Evidence        string `json:"evidence,omitempty"`
	Timestamp       int64  `json:"timestamp"`
	Votes           int    `json:"votes"`
}

// AgentLogType classifies an agent log entry.
type AgentLogType string

// Agent log type constants.
const (
	AgentLogAction      AgentLogType = "action"
	AgentLogThinking    AgentLogType = "thinking"
	AgentLogError       AgentLogType = "error"
	AgentLogHeartbeat   AgentLogType = "heartbeat"
	AgentLogSelfImprove AgentLogType = "self_improve"
)

// AgentLog is one append-only log line emitted by an agent.
type AgentLog struct {
	ID              string          `json:"id"`
	AgentSessionKey string          `json:"agent_session_key"`
	Type            AgentLogType    `json:"type"`
	Content         string          `json:"content"`
	TaskID          string          `json:"task_id,omitempty"`
	Timestamp       int64           `json:"timestamp"`
	Metadata        json.RawMessage `json:"metadata,omitempty"`
}

// ImprovementType classifies a self-improvement proposal.
type ImprovementType string

// Improvement type constants.
const (
	ImprovementSoulUpdate     ImprovementType = "soul_update"
	ImprovementToolSuggestion ImprovementType = "tool_suggestion"
	ImprovementWorkflowChange ImprovementType = "workflow_change"
	ImprovementBugReport      ImprovementType = "bug_report"
	ImprovementEfficiency     ImprovementType = "efficiency"
)

// ImprovementStatus is the review state of a proposal.
type ImprovementStatus string

// Improvement status constants.
const (
	ImprovementProposed    ImprovementStatus = "proposed"
	ImprovementApproved    ImprovementStatus = "approved"
	ImprovementRejected    ImprovementStatus = "rejected"
	ImprovementImplemented ImprovementStatus = "implemented"
)

// Improvement is a self-improvement proposal from an agent.
// Re-review of an already-reviewed proposal is permitted; the latest
// review wins.
type Improvement struct {
	ID              string            `json:"id"`
	AgentSessionKey string            `json:"agent_session_key"`
	Type            ImprovementType   `json:"type"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Status          ImprovementStatus `json:"status"`
	CreatedAt       int64             `json:"created_at"`
	ReviewedBy      string            `json:"reviewed_by,omitempty"`
	ReviewedAt      *int64            `json:"reviewed_at,omitempty"`
}

// IsReviewed returns true once the proposal has left the proposed state.
func (i *Improvement) IsReviewed() bool {
	return i.Status != ImprovementProposed
}

// ModelConfig is the per-agent model routing configuration.
// TokensUsedToday resets whenever more than 24h have elapsed since
// LastReset.
type ModelConfig struct {
	AgentSessionKey     string   `json:"agent_session_key"`
	DefaultModel        string   `json:"default_model"`
	SmartModel          string   `json:"smart_model"`
	UseSmartFor         []string `json:"use_smart_for"`
	MaxTokenBudgetDaily *int64   `json:"max_token_budget_daily,omitempty"`
	TokensUsedToday     int64    `json:"tokens_used_today"`
	LastReset           int64    `json:"last_reset"`
}

// AgentStandup is one agent's slice of the standup report.
// Completed is day-scoped; InProgress and Blocked are point-in-time
// snapshots. That asymmetry is intentional.
type AgentStandup struct {
	AgentName  string   `json:"agent_name"`
	AgentEmoji string   `json:"agent_emoji"`
	Completed  []string `json:"completed"`
	InProgress []string `json:"in_progress"`
	Blocked    []string `json:"blocked"`
	Decisions  []string `json:"decisions"`
}

// IsEmpty reports whether all four sections are empty; empty standups
// are omitted from the report.
func (s *AgentStandup) IsEmpty() bool {
	return len(s.Completed) == 0 && len(s.InProgress) == 0 &&
		len(s.Blocked) == 0 && len(s.Decisions) == 0
}

// ScheduleType says how a scheduled job repeats.
type ScheduleType string

// Schedule type constants.
const (
	ScheduleTypeCron      ScheduleType = "cron"
	ScheduleTypeRecurring ScheduleType = "recurring"
	ScheduleTypeOnce      ScheduleType = "once"
)

// IsRepeating reports whether the job runs on a repeating schedule.
func (t ScheduleType) IsRepeating() bool {
	return t == ScheduleTypeCron || t == ScheduleTypeRecurring
}

// ScheduledTaskStatus is the lifecycle state of a scheduled job.
type ScheduledTaskStatus string

// Scheduled task status constants.
const (
	ScheduledActive    ScheduledTaskStatus = "active"
	ScheduledPaused    ScheduledTaskStatus = "paused"
	ScheduledCompleted ScheduledTaskStatus = "completed"
)

// ScheduledTask is a cron, recurring, or one-shot background job shown
// on the calendar. NextRun is ms epoch; one-shot jobs without a NextRun
// never appear in a week view.
type ScheduledTask struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description,omitempty"`
	ScheduleType ScheduleType        `json:"schedule_type"`
	Schedule     string              `json:"schedule"`
	NextRun      *int64              `json:"next_run,omitempty"`
	TaskType     string              `json:"task_type"`
	Status       ScheduledTaskStatus `json:"status"`
	Metadata     json.RawMessage     `json:"metadata,omitempty"`
}
