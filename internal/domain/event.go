package domain

import "encoding/json"

// EventInsert is the change-event type emitted for newly created rows.
const EventInsert = "INSERT"

// ChangeEvent is the row-level change payload delivered by the database webhook.
// Record is kept raw so that events for other tables can be ignored without decoding.
type ChangeEvent struct {
	Type      string          `json:"type"`
	Table     string          `json:"table"`
	Schema    string          `json:"schema,omitempty"`
	Record    json.RawMessage `json:"record"`
	OldRecord json.RawMessage `json:"old_record,omitempty"`
}

// ReplyRecord is the inserted story_replies row. UserID is the sender.
type ReplyRecord struct {
	StoryID string `json:"story_id" validate:"required"`
	UserID  string `json:"user_id" validate:"required"`
	Message string `json:"message"`
}
