package models

import "time"

// Binding links a chat member to a game account inside one chat group.
type Binding struct {
	GroupID     int64     `json:"group_id"`
	UserID      int64     `json:"user_id"`
	Tag         string    `json:"tag"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}
