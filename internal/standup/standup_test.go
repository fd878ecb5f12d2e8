package standup

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/missionctl/internal/models"
)

var reportDay = time.Date(2026, 3, 14, 15, 0, 0, 0, time.Local)

func agent(name string) *models.Agent {
	return &models.Agent{Name: name, Emoji: "🤖", SessionKey: strings.ToLower(name)}
}

func task(title string, status models.TaskStatus, updatedAt int64) *models.Task {
	return &models.Task{Title: title, Status: status, UpdatedAt: updatedAt}
}

func TestDayWindowBounds(t *testing.T) {
	start, end := DayWindow(reportDay)

	startT := time.UnixMilli(start)
	endT := time.UnixMilli(end)

	assert.Equal(t, 0, startT.Hour())
	assert.Equal(t, 0, startT.Minute())
	assert.Equal(t, 23, endT.Hour())
	assert.Equal(t, 59, endT.Minute())
	assert.Equal(t, start+24*60*60*1000-1, end)
}

func TestGenerateCompletedIsDayScoped(t *testing.T) {
	start, _ := DayWindow(reportDay)
	yesterday := start - 1000

	inputs := []*AgentInput{{
		Agent: agent("Ada"),
		Tasks: []*models.Task{
			task("today's win", models.TaskStatusDone, start+1000),
			task("old win", models.TaskStatusDone, yesterday),
		},
	}}
	report := Generate(inputs, reportDay)

	require.Len(t, report, 1)
	assert.Equal(t, []string{"today's win"}, report[0].Completed)
}

func TestGenerateInProgressAndBlockedAreSnapshots(t *testing.T) {
	start, _ := DayWindow(reportDay)
	lastWeek := start - 7*24*60*60*1000

	inputs := []*AgentInput{{
		Agent: agent("Ada"),
		Tasks: []*models.Task{
			task("stale wip", models.TaskStatusInProgress, lastWeek),
			task("stale blocker", models.TaskStatusBlocked, lastWeek),
		},
	}}
	report := Generate(inputs, reportDay)

	// Unlike completed, these sections ignore the day window.
	require.Len(t, report, 1)
	assert.Equal(t, []string{"stale wip"}, report[0].InProgress)
	assert.Equal(t, []string{"stale blocker"}, report[0].Blocked)
}

func TestGenerateDecisionsHeuristic(t *testing.T) {
	start, _ := DayWindow(reportDay)
	msg := func(content string, offset int64) *models.Message {
		return &models.Message{Content: content, Timestamp: start + offset}
	}

	inputs := []*AgentInput{{
		Agent: agent("Ada"),
		Messages: []*models.Message{
			msg("we decided to ship v2", 1),
			msg("lunch?", 2),
			msg("this is IMPORTANT", 3),
			msg(strings.Repeat("x", 101), 4),
			msg("final decision on infra", 5),
		},
	}}
	report := Generate(inputs, reportDay)

	require.Len(t, report, 1)
	// First three matches in chronological order; the fourth match is
	// dropped by the cap.
	require.Len(t, report[0].Decisions, 3)
	assert.Equal(t, "we decided to ship v2", report[0].Decisions[0])
	assert.Equal(t, "this is IMPORTANT", report[0].Decisions[1])
	assert.Equal(t, strings.Repeat("x", 101), report[0].Decisions[2])
}

func TestGenerateDecisionsExcludeOtherDays(t *testing.T) {
	start, _ := DayWindow(reportDay)

	inputs := []*AgentInput{{
		Agent: agent("Ada"),
		Messages: []*models.Message{
			{Content: "old decision", Timestamp: start - 1},
		},
	}}
	report := Generate(inputs, reportDay)
	assert.Empty(t, report)
}

func TestGenerateOmitsEmptyAgents(t *testing.T) {
	start, _ := DayWindow(reportDay)

	inputs := []*AgentInput{
		{Agent: agent("Quiet")},
		{Agent: agent("Busy"), Tasks: []*models.Task{task("win", models.TaskStatusDone, start + 1)}},
	}
	report := Generate(inputs, reportDay)

	require.Len(t, report, 1)
	assert.Equal(t, "Busy", report[0].AgentName)
}
