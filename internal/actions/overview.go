package actions

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dotcommander/missionctl/internal/models"
	"github.com/dotcommander/missionctl/internal/status"
	"github.com/dotcommander/missionctl/internal/store"
)

// AgentOverview is one fleet-view row: the agent, its derived liveness,
// and assigned-task pressure.
type AgentOverview struct {
	Agent        *models.Agent `json:"agent"`
	Liveness     status.State  `json:"liveness"`
	TaskCount    int           `json:"task_count"`
	LastActivity *int64        `json:"last_activity,omitempty"`
}

// FleetOverview classifies every agent against the expected heartbeat
// cadence. An agent with no logs and no heartbeat is idle.
func FleetOverview(db *sql.DB, expectedInterval time.Duration, now time.Time) ([]*AgentOverview, error) {
	agents, err := store.ListAgents(db)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}

	out := make([]*AgentOverview, 0, len(agents))
	for _, agent := range agents {
		stats, err := store.GetAgentStats(db, agent.SessionKey)
		if err != nil {
			return nil, err
		}

		var last *time.Time
		var lastMs *int64
		if stats.LastActivity > 0 {
			t := time.UnixMilli(stats.LastActivity)
			last = &t
			ms := stats.LastActivity
			lastMs = &ms
		}

		out = append(out, &AgentOverview{
			Agent:        agent,
			Liveness:     status.Classify(last, expectedInterval, now),
			TaskCount:    stats.TaskCount,
			LastActivity: lastMs,
		})
	}
	return out, nil
}
