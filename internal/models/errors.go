package models

import "fmt"

// RecoverableError is implemented by enriched errors that carry structured
// context and remediation hints. Both the store and output packages use this
// interface to avoid an import cycle.
type RecoverableError interface {
	error
	ErrorCode() string
	Context() map[string]string
	SuggestedAction() string
}

// NotFoundError is returned when a referenced record does not exist at
// mutation time. Mutations fail fast rather than silently no-op.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}
func (e *NotFoundError) ErrorCode() string { return "NOT_FOUND" }
func (e *NotFoundError) Context() map[string]string {
	return map[string]string{"kind": e.Kind, "id": e.ID}
}
func (e *NotFoundError) SuggestedAction() string {
	return fmt.Sprintf("verify the %s id and retry", e.Kind)
}

// InvalidStateError is returned when an operation targets an entity in a
// state that forbids it (e.g. adding an entry to a resolved debate).
type InvalidStateError struct {
	Kind   string
	ID     string
	State  string
	Action string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s %s %s: status is %s", e.Action, e.Kind, e.ID, e.State)
}
func (e *InvalidStateError) ErrorCode() string { return "INVALID_STATE" }
func (e *InvalidStateError) Context() map[string]string {
	return map[string]string{
		"kind":   e.Kind,
		"id":     e.ID,
		"state":  e.State,
		"action": e.Action,
	}
}
func (e *InvalidStateError) SuggestedAction() string {
	return "reload the record and check its current status"
}
