package app

import (
	"github.com/ccbrown/messaged/model"
)

// CanView reports whether the user may read the channel and its messages.
// Public channels are visible to everyone.
func CanView(channel *model.Channel, userId int64) bool {
	if !channel.IsPrivate {
		return true
	}
	for _, member := range channel.Members {
		if member.ID == userId {
			return true
		}
	}
	return false
}

// CanMutateChannel reports whether the user may rename, describe, delete, or
// change the membership of the channel. Only the creator may.
func CanMutateChannel(channel *model.Channel, userId int64) bool {
	return channel.Creator.ID == userId
}

// CanMutateMessage reports whether the user may edit or delete the message.
// Only the creator may.
func CanMutateMessage(message *model.Message, userId int64) bool {
	return message.Creator.ID == userId
}

// AudienceFor computes the notification audience for an event on the
// channel: the channel's member id set if it's private, or nil, the
// broadcast-to-everyone sentinel, if it's public.
func AudienceFor(channel *model.Channel) model.Audience {
	if !channel.IsPrivate {
		return nil
	}
	audience := make(model.Audience, 0, len(channel.Members))
	seen := make(map[int64]struct{}, len(channel.Members))
	for _, member := range channel.Members {
		if _, ok := seen[member.ID]; ok {
			continue
		}
		seen[member.ID] = struct{}{}
		audience = append(audience, member.ID)
	}
	return audience
}
