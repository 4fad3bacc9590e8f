// Package audit defines the append-only audit trail contract.
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	appctx "posledger/internal/core/context"
	"posledger/internal/core/id"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionCreate        Action = "create"
	ActionDelete        Action = "delete"
	ActionUpdateDetails Action = "update_details"
)

// Entry is one audit record. Snapshot holds the JSON state of the entity
// at the time of the action.
type Entry struct {
	EntityType string
	EntityID   id.ID
	Action     Action
	UserID     string
	Snapshot   json.RawMessage
}

// Recorder persists audit entries. Implementations write inside the
// caller's transaction so a rolled back operation leaves no trace.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// NewEntry builds an Entry from v, taking the acting user from ctx.
func NewEntry(ctx context.Context, entityType string, entityID id.ID, action Action, v any) (Entry, error) {
	snapshot, err := json.Marshal(v)
	if err != nil {
		return Entry{}, fmt.Errorf("marshal %s snapshot: %w", entityType, err)
	}
	return Entry{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		UserID:     appctx.GetUserID(ctx),
		Snapshot:   snapshot,
	}, nil
}

// Nop discards entries.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, Entry) error { return nil }
