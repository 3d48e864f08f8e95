package queue

import (
	"github.com/pkg/errors"

	"github.com/ccbrown/messaged/model"
)

// Event is a domain mutation notification. Each kind carries a snapshot of
// the entity it concerns, taken at the point the mutation was applied.
type Event interface {
	eventType() string
}

type ChannelCreated struct {
	Channel *model.Channel
}

func (ChannelCreated) eventType() string { return "channel-new" }

type ChannelUpdated struct {
	Channel *model.Channel
}

func (ChannelUpdated) eventType() string { return "channel-update" }

type ChannelDeleted struct {
	Channel *model.Channel
}

func (ChannelDeleted) eventType() string { return "channel-delete" }

type MessageCreated struct {
	Message *model.Message
}

func (MessageCreated) eventType() string { return "message-new" }

type MessageUpdated struct {
	Message *model.Message
}

func (MessageUpdated) eventType() string { return "message-update" }

type MessageDeleted struct {
	Message *model.Message
}

func (MessageDeleted) eventType() string { return "message-delete" }

// envelope is the wire shape read by the downstream notification consumer. A
// nil audience marshals as null, the broadcast sentinel, and must never be
// coerced to an empty array.
type envelope struct {
	Type    string         `json:"type"`
	Channel *model.Channel `json:"channel,omitempty"`
	Message *model.Message `json:"message,omitempty"`
	UserIds model.Audience `json:"userIDs"`
}

func newEnvelope(event Event, audience model.Audience) (*envelope, error) {
	ret := &envelope{
		Type:    event.eventType(),
		UserIds: audience,
	}
	switch event := event.(type) {
	case ChannelCreated:
		ret.Channel = event.Channel
	case ChannelUpdated:
		ret.Channel = event.Channel
	case ChannelDeleted:
		ret.Channel = event.Channel
	case MessageCreated:
		ret.Message = event.Message
	case MessageUpdated:
		ret.Message = event.Message
	case MessageDeleted:
		ret.Message = event.Message
	default:
		return nil, errors.Errorf("unsupported event type: %T", event)
	}
	return ret, nil
}
