package app

import (
	"time"

	"github.com/ccbrown/messaged/model"
	"github.com/ccbrown/messaged/queue"
	"github.com/ccbrown/messaged/store"
)

// CreateMessage posts a message to the channel. The channel must exist and
// be visible to the session's user.
func (s *Session) CreateMessage(channelId model.Id, body string) (*model.Message, SanitizedError) {
	channel, serr := s.GetChannelById(channelId)
	if serr != nil {
		return nil, serr
	}
	if body == "" {
		return nil, s.UserError("A body is required.")
	}

	message := model.Message{
		Id:        model.GenerateId(),
		ChannelId: channel.Id,
		Body:      body,
		Creator:   *s.User,
		CreatedAt: time.Now(),
	}
	if err := s.App.Store.AddMessage(&message); err != nil {
		return nil, s.InternalError(err)
	}

	s.publish(queue.MessageCreated{Message: &message}, AudienceFor(channel))
	return &message, nil
}

// GetChannelMessages returns one page of the channel's messages, newest
// first. The page starts at the message with id beforeId, inclusive; an
// empty or unknown cursor starts at the newest message.
func (s *Session) GetChannelMessages(channelId, beforeId model.Id) ([]*model.Message, SanitizedError) {
	channel, serr := s.GetChannelById(channelId)
	if serr != nil {
		return nil, serr
	}

	messages, err := s.App.Store.GetMessagesByChannelId(channel.Id)
	if err != nil {
		return nil, s.InternalError(err)
	}
	sortMessages(messages)
	return pageMessages(messages, beforeId), nil
}

// UpdateMessage replaces the message's body. Only the message's creator may.
func (s *Session) UpdateMessage(id model.Id, body string) (*model.Message, SanitizedError) {
	message, serr := s.getOwnMessage(id)
	if serr != nil {
		return nil, serr
	}

	now := time.Now()
	updated, err := s.App.Store.UpdateMessage(message.Id, store.MessagePatch{
		Body:     &body,
		EditedAt: &now,
	})
	if err != nil {
		return nil, s.InternalError(err)
	} else if updated == nil {
		return nil, s.NotFoundError("No such message.")
	}

	s.publishMessageEvent(queue.MessageUpdated{Message: updated}, updated)
	return updated, nil
}

// DeleteMessage deletes the message. Only the message's creator may.
func (s *Session) DeleteMessage(id model.Id) SanitizedError {
	message, serr := s.getOwnMessage(id)
	if serr != nil {
		return serr
	}

	deleted, err := s.App.Store.DeleteMessage(message.Id)
	if err != nil {
		return s.InternalError(err)
	} else if deleted == nil {
		return s.NotFoundError("No such message.")
	}

	s.publishMessageEvent(queue.MessageDeleted{Message: deleted}, deleted)
	return nil
}

// getOwnMessage fetches the message and verifies that the session's user is
// its creator.
func (s *Session) getOwnMessage(id model.Id) (*model.Message, SanitizedError) {
	if s.User == nil {
		return nil, s.AuthenticationError()
	}
	message, err := s.App.Store.GetMessageById(id)
	if err != nil {
		return nil, s.InternalError(err)
	}
	if message == nil {
		return nil, s.NotFoundError("No such message.")
	}
	if !CanMutateMessage(message, s.User.ID) {
		return nil, s.ForbiddenError("User is not the creator of the message.")
	}
	return message, nil
}

// publishMessageEvent publishes an event whose audience comes from the
// message's parent channel. If the channel vanished between the mutation and
// the publish there is no longer an audience to compute, and the
// notification is dropped.
func (s *Session) publishMessageEvent(event queue.Event, message *model.Message) {
	channel, err := s.App.Store.GetChannelById(message.ChannelId)
	if err != nil {
		s.Logger.WithError(err).Error("unable to compute event audience")
		return
	}
	if channel == nil {
		return
	}
	s.publish(event, AudienceFor(channel))
}
