// Package notify computes notification fan-out for thread events.
//
// The fan-out itself is pure: given a message and the thread's
// subscribers, it decides who gets notified and why. Persistence is the
// store's job. Re-running the fan-out for the same message produces new
// notification values each time (at-least-once, not exactly-once).
package notify

import (
	"fmt"

	"github.com/dotcommander/missionctl/internal/models"
)

// FanOut computes the notifications triggered by a new thread message.
//
// Rules:
//   - every mentioned agent except the author gets a mention notification;
//   - every subscriber except the author and the already-mentioned gets a
//     comment notification.
//
// Mention and comment notifications are mutually exclusive by
// construction, and the author never notifies themselves. All emitted
// notifications start undelivered, stamped with now.
func FanOut(msg *models.Message, subscribers []*models.ThreadSubscription, now int64) []*models.Notification {
	var out []*models.Notification

	mentioned := make(map[string]bool, len(msg.Mentions))
	for _, target := range msg.Mentions {
		if target == msg.FromAgent || mentioned[target] {
			continue
		}
		mentioned[target] = true
		out = append(out, &models.Notification{
			TargetAgent: target,
			SourceAgent: msg.FromAgent,
			Type:        models.NotificationMention,
			Content:     fmt.Sprintf("%s mentioned you in a comment", msg.FromAgent),
			TaskID:      msg.TaskID,
			Timestamp:   now,
			Delivered:   false,
		})
	}

	seen := make(map[string]bool, len(subscribers))
	for _, sub := range subscribers {
		target := sub.AgentSessionKey
		if target == msg.FromAgent || mentioned[target] || seen[target] {
			continue
		}
		seen[target] = true
		out = append(out, &models.Notification{
			TargetAgent: target,
			SourceAgent: msg.FromAgent,
			Type:        models.NotificationComment,
			Content:     fmt.Sprintf("%s commented on a task you're subscribed to", msg.FromAgent),
			TaskID:      msg.TaskID,
			Timestamp:   now,
			Delivered:   false,
		})
	}

	return out
}
