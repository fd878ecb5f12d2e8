// Package status derives a coarse liveness state for an agent from its
// most recent matching activity.
package status

import "time"

// State is the derived liveness of an agent.
type State string

// Liveness states, from healthy to silent.
const (
	StateActive  State = "active"
	StateDelayed State = "delayed"
	StateOffline State = "offline"
	StateIdle    State = "idle"
)

// delayedMultiplier is how many expected intervals may elapse before an
// agent counts as delayed.
const delayedMultiplier = 2

// offlineCutoff is the absolute silence threshold past which an agent
// is offline regardless of its cadence.
const offlineCutoff = 24 * time.Hour

// Classify derives the agent's state from the time of its last matching
// activity versus its expected cadence. A nil lastActivity means the
// agent has never reported and is idle. Silence beyond 24h is offline;
// silence beyond twice the expected interval is delayed; anything more
// recent is active.
func Classify(lastActivity *time.Time, expectedInterval time.Duration, now time.Time) State {
	if lastActivity == nil {
		return StateIdle
	}
	elapsed := now.Sub(*lastActivity)
	if elapsed > offlineCutoff {
		return StateOffline
	}
	if elapsed > delayedMultiplier*expectedInterval {
		return StateDelayed
	}
	return StateActive
}
