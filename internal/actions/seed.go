package actions

import (
	"database/sql"
	"fmt"

	"github.com/dotcommander/missionctl/internal/models"
	"github.com/dotcommander/missionctl/internal/store"
)

// SeedSummary reports what SeedDemoData inserted.
type SeedSummary struct {
	Agents         int `json:"agents"`
	Tasks          int `json:"tasks"`
	Messages       int `json:"messages"`
	Activities     int `json:"activities"`
	Documents      int `json:"documents"`
	ScheduledTasks int `json:"scheduled_tasks"`
}

// SeedDemoData loads a small demo fleet so every command has data to
// show: three agents, a task thread with a mention fan-out, a searchable
// activity stream and document set, and calendar jobs.
func SeedDemoData(db *sql.DB, now int64) (*SeedSummary, error) {
	summary := &SeedSummary{}

	agents := []struct {
		name, role, emoji, key string
		level                  models.AgentLevel
	}{
		{"Scout", "researcher", "🔭", "scout", models.AgentLevelSpecialist},
		{"Forge", "builder", "🔨", "forge", models.AgentLevelLead},
		{"Quill", "writer", "🪶", "quill", models.AgentLevelIntern},
	}
	for _, a := range agents {
		// Re-running the seed keeps existing agent rows.
		if _, err := store.GetAgent(db, a.key); err == nil {
			continue
		}
		if _, err := store.RegisterAgent(db, a.name, a.role, a.emoji, a.key, a.level, now); err != nil {
			return nil, fmt.Errorf("failed to seed agent %s: %w", a.key, err)
		}
		summary.Agents++
	}

	research, err := store.CreateTask(db, "Survey embedding models", "Compare hosted vs local options", "scout", models.TaskPriorityMedium, []string{"research"}, nil, "", now)
	if err != nil {
		return nil, fmt.Errorf("failed to seed task: %w", err)
	}
	build, err := store.CreateTask(db, "Wire ingestion worker", "Stream documents into the search index", "forge", models.TaskPriorityHigh, []string{"infra"}, nil, "", now+1)
	if err != nil {
		return nil, fmt.Errorf("failed to seed task: %w", err)
	}
	summary.Tasks = 2

	if _, err := store.AssignTask(db, research.ID, "scout", now+2); err != nil {
		return nil, fmt.Errorf("failed to seed assignment: %w", err)
	}
	if _, err := store.AssignTask(db, build.ID, "forge", now+2); err != nil {
		return nil, fmt.Errorf("failed to seed assignment: %w", err)
	}

	if _, _, err := store.CreateMessage(db, research.ID, "scout", "Decided to shortlist two local models; hosted latency was the dealbreaker.", []string{"forge"}, nil, now+3); err != nil {
		return nil, fmt.Errorf("failed to seed message: %w", err)
	}
	if _, _, err := store.CreateMessage(db, build.ID, "forge", "Worker skeleton is up, starting on the index writes.", nil, nil, now+4); err != nil {
		return nil, fmt.Errorf("failed to seed message: %w", err)
	}
	summary.Messages = 2

	activities := []struct {
		actionType, title, details, status string
	}{
		{"deploy", "Deployed search service v0.3", "Rolled out to the staging fleet", "completed"},
		{"sync", "Nightly contact sync", "412 rows upserted", "completed"},
		{"ingest", "Ingested Q3 planning docs", "", "in_progress"},
	}
	for i, a := range activities {
		if _, err := store.CreateActivity(db, now+int64(10+i), a.actionType, a.title, a.details, a.status, nil); err != nil {
			return nil, fmt.Errorf("failed to seed activity: %w", err)
		}
		summary.Activities++
	}

	docs := []struct {
		title, content, source, path string
	}{
		{"Search index runbook", "How to rebuild the index and verify rank ordering after ingestion.", "wiki", "ops/search-runbook.md"},
		{"Agent onboarding", "Register with a session key, then heartbeat every interval.", "wiki", "ops/onboarding.md"},
	}
	for _, d := range docs {
		if _, err := store.UpsertDocument(db, d.title, d.content, d.source, d.path, now); err != nil {
			return nil, fmt.Errorf("failed to seed document: %w", err)
		}
		summary.Documents++
	}

	nextRun := now + 3*24*60*60*1000
	jobs := []*models.ScheduledTask{
		{Name: "Nightly standup digest", ScheduleType: models.ScheduleTypeCron, Schedule: "0 9 * * *", TaskType: "standup"},
		{Name: "Weekly CRM sync", ScheduleType: models.ScheduleTypeRecurring, Schedule: "weekly", TaskType: "sync"},
		{Name: "Publish launch post", ScheduleType: models.ScheduleTypeOnce, Schedule: "once", TaskType: "publish", NextRun: &nextRun},
	}
	for _, j := range jobs {
		if _, err := store.CreateScheduledTask(db, j); err != nil {
			return nil, fmt.Errorf("failed to seed scheduled task: %w", err)
		}
		summary.ScheduledTasks++
	}

	return summary, nil
}
