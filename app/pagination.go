package app

import (
	"sort"

	"github.com/ccbrown/messaged/model"
)

const messagePageSize = 100

// sortMessages orders messages newest first. Creation-time ties are broken
// by id so the ordering is deterministic regardless of store iteration
// order.
func sortMessages(messages []*model.Message) {
	sort.Slice(messages, func(i, j int) bool {
		if !messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].CreatedAt.After(messages[j].CreatedAt)
		}
		return messages[j].Id.Before(messages[i].Id)
	})
}

// pageMessages returns up to messagePageSize messages from the sorted
// sequence. The page starts at the message with id beforeId, inclusive. An
// empty or unknown cursor starts the page at the newest message.
func pageMessages(sorted []*model.Message, beforeId model.Id) []*model.Message {
	start := 0
	if beforeId != "" {
		for i, message := range sorted {
			if message.Id == beforeId {
				start = i
				break
			}
		}
	}
	end := start + messagePageSize
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[start:end]
}
