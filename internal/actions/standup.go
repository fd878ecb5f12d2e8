// Package actions orchestrates store reads and the pure core logic into
// the operations the CLI exposes.
package actions

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dotcommander/missionctl/internal/models"
	"github.com/dotcommander/missionctl/internal/standup"
	"github.com/dotcommander/missionctl/internal/store"
)

// GenerateStandup builds the standup report for the day containing now.
func GenerateStandup(db *sql.DB, now time.Time) ([]*models.AgentStandup, error) {
	agents, err := store.ListAgents(db)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}

	start, end := standup.DayWindow(now)
	messages, err := store.ListMessagesInWindow(db, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	byAuthor := make(map[string][]*models.Message)
	for _, m := range messages {
		byAuthor[m.FromAgent] = append(byAuthor[m.FromAgent], m)
	}

	inputs := make([]*standup.AgentInput, 0, len(agents))
	for _, agent := range agents {
		tasks, err := store.ListTasksByAssignee(db, agent.SessionKey)
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks for %s: %w", agent.SessionKey, err)
		}
		inputs = append(inputs, &standup.AgentInput{
			Agent:    agent,
			Tasks:    tasks,
			Messages: byAuthor[agent.SessionKey],
		})
	}

	return standup.Generate(inputs, now), nil
}
