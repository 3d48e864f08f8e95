package model

import "time"

// Channel is a named conversation space. Names are unique across all
// channels. The creator is always a member and holds exclusive mutation
// rights over the channel.
type Channel struct {
	Id          Id              `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	IsPrivate   bool            `json:"isPrivate"`
	Members     []UserReference `json:"members"`
	Creator     UserReference   `json:"creator"`
	CreatedAt   time.Time       `json:"createdAt"`
	EditedAt    *time.Time      `json:"editedAt,omitempty"`
}
