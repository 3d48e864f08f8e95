package model

import "time"

type Message struct {
	Id        Id            `json:"id"`
	ChannelId Id            `json:"channelID"`
	Body      string        `json:"body"`
	Creator   UserReference `json:"creator"`
	CreatedAt time.Time     `json:"createdAt"`
	EditedAt  *time.Time    `json:"editedAt,omitempty"`
}
