package domain

import (
	"fmt"
	"time"
)

// ActionType discriminates the PendingAction union. Values match the wire
// names used in persisted queues so existing queue snapshots stay readable.
type ActionType string

const (
	ActionCreateItineraryItem ActionType = "createItineraryItem"
	ActionUpdateItineraryItem ActionType = "updateItineraryItem"
	ActionCreateSuggestion    ActionType = "createSuggestion"
)

// PendingAction is one durably queued mutation awaiting confirmation by the
// remote store. It is a tagged union over three variants:
//
//   - ActionCreateItineraryItem: Item payload plus the LocalID placeholder
//     handed out to the caller.
//   - ActionUpdateItineraryItem: TargetID (real or placeholder) plus Updates.
//   - ActionCreateSuggestion: Suggestion payload plus LocalID.
//
// ID identifies the queue entry itself and is distinct from any entity id.
// The queue preserves insertion order; replay processes it front to back.
type PendingAction struct {
	ID        string     `json:"id"`
	Type      ActionType `json:"type"`
	CreatedAt time.Time  `json:"created_at"`

	// Create variants.
	LocalID    string              `json:"local_id,omitempty"`
	Item       *ItineraryItemDraft `json:"item,omitempty"`
	Suggestion *SuggestionDraft    `json:"suggestion,omitempty"`

	// Update variant.
	TargetID string               `json:"target_id,omitempty"`
	Updates  *ItineraryItemUpdate `json:"updates,omitempty"`
}

// Validate checks that the variant carries the payload its type requires.
func (a PendingAction) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("pending action has no id")
	}
	switch a.Type {
	case ActionCreateItineraryItem:
		if a.Item == nil || a.LocalID == "" {
			return fmt.Errorf("action %s: create-item variant requires item payload and local id", a.ID)
		}
	case ActionUpdateItineraryItem:
		if a.Updates == nil || a.TargetID == "" {
			return fmt.Errorf("action %s: update-item variant requires target id and updates", a.ID)
		}
	case ActionCreateSuggestion:
		if a.Suggestion == nil || a.LocalID == "" {
			return fmt.Errorf("action %s: create-suggestion variant requires suggestion payload and local id", a.ID)
		}
	default:
		return fmt.Errorf("action %s: unknown type %q", a.ID, a.Type)
	}
	return nil
}
