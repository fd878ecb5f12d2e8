// Package standup builds the daily per-agent standup report from tasks
// and messages.
package standup

import (
	"strings"
	"time"

	"github.com/dotcommander/missionctl/internal/models"
)

// maxDecisions caps the key-decision list per agent.
const maxDecisions = 3

// DayWindow returns [local midnight, 23:59:59.999] in Unix ms for the
// day containing ts.
func DayWindow(ts time.Time) (start, end int64) {
	year, month, day := ts.Local().Date()
	startOfDay := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
	endOfDay := startOfDay.Add(24*time.Hour - time.Millisecond)
	return startOfDay.UnixMilli(), endOfDay.UnixMilli()
}

// AgentInput is one agent's raw material for the report: their assigned
// tasks and the messages they sent inside the day window.
type AgentInput struct {
	Agent    *models.Agent
	Tasks    []*models.Task
	Messages []*models.Message
}

// Generate produces the standup report for the day containing now.
// Completed counts only tasks finished inside the day window; the
// in-progress and blocked sections are point-in-time snapshots with no
// window restriction. Agents whose sections are all empty are omitted.
func Generate(inputs []*AgentInput, now time.Time) []*models.AgentStandup {
	start, end := DayWindow(now)

	var report []*models.AgentStandup
	for _, in := range inputs {
		s := &models.AgentStandup{
			AgentName:  in.Agent.Name,
			AgentEmoji: in.Agent.Emoji,
		}
		for _, t := range in.Tasks {
			switch t.Status {
			case models.TaskStatusDone:
				if t.UpdatedAt >= start && t.UpdatedAt <= end {
					s.Completed = append(s.Completed, t.Title)
				}
			case models.TaskStatusInProgress:
				s.InProgress = append(s.InProgress, t.Title)
			case models.TaskStatusBlocked:
				s.Blocked = append(s.Blocked, t.Title)
			}
		}
		for _, m := range in.Messages {
			if len(s.Decisions) >= maxDecisions {
				break
			}
			if m.Timestamp < start || m.Timestamp > end {
				continue
			}
			if isKeyDecision(m.Content) {
				s.Decisions = append(s.Decisions, m.Content)
			}
		}
		if !s.IsEmpty() {
			report = append(report, s)
		}
	}
	return report
}

// isKeyDecision flags messages worth surfacing in the standup: anything
// mentioning a decision, or long enough to carry substance.
func isKeyDecision(content string) bool {
	lower := strings.ToLower(content)
	return strings.Contains(lower, "decision") ||
		strings.Contains(lower, "decided") ||
		strings.Contains(lower, "important") ||
		len(content) > 100
}
