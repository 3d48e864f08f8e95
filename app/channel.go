package app

import (
	"time"

	"github.com/ccbrown/messaged/model"
	"github.com/ccbrown/messaged/queue"
	"github.com/ccbrown/messaged/store"
)

// CreateChannel creates a channel from the input's name, description, and
// privacy. The session's user becomes the creator and the sole initial
// member.
func (s *Session) CreateChannel(input *model.Channel) (*model.Channel, SanitizedError) {
	if s.User == nil {
		return nil, s.AuthenticationError()
	}

	channel := *input
	channel.Id = model.GenerateId()
	channel.Creator = *s.User
	channel.Members = []model.UserReference{*s.User}
	channel.CreatedAt = time.Now()
	channel.EditedAt = nil

	if channel.Name == "" {
		return nil, s.UserError("A name is required.")
	} else if err := s.App.Store.AddChannel(&channel); err == store.ErrChannelNameExists {
		return nil, s.ConflictError("That channel name is already in use.")
	} else if err != nil {
		return nil, s.InternalError(err)
	}

	s.publish(queue.ChannelCreated{Channel: &channel}, AudienceFor(&channel))
	return &channel, nil
}

// GetChannelById returns the channel. Nonexistence is reported before
// visibility, so requesting an existing private channel as a non-member
// yields a ForbiddenError rather than a NotFoundError.
func (s *Session) GetChannelById(id model.Id) (*model.Channel, SanitizedError) {
	if s.User == nil {
		return nil, s.AuthenticationError()
	}
	channel, err := s.App.Store.GetChannelById(id)
	if err != nil {
		return nil, s.InternalError(err)
	}
	if channel == nil {
		return nil, s.NotFoundError("No such channel.")
	}
	if !CanView(channel, s.User.ID) {
		return nil, s.ForbiddenError("User is not a member of the private channel.")
	}
	return channel, nil
}

// GetChannels returns all channels the session's user is a member of.
func (s *Session) GetChannels() ([]*model.Channel, SanitizedError) {
	if s.User == nil {
		return nil, s.AuthenticationError()
	}
	channels, err := s.App.Store.GetChannelsByMemberId(s.User.ID)
	return channels, s.InternalError(err)
}

// UpdateChannel updates the channel's name and/or description. Only the
// creator may. The notification audience is computed from the updated
// channel.
func (s *Session) UpdateChannel(id model.Id, name, description *string) (*model.Channel, SanitizedError) {
	channel, serr := s.getOwnChannel(id)
	if serr != nil {
		return nil, serr
	}

	now := time.Now()
	updated, err := s.App.Store.UpdateChannel(channel.Id, store.ChannelPatch{
		Name:        name,
		Description: description,
		EditedAt:    &now,
	})
	if err == store.ErrChannelNameExists {
		return nil, s.ConflictError("That channel name is already in use.")
	} else if err != nil {
		return nil, s.InternalError(err)
	} else if updated == nil {
		return nil, s.NotFoundError("No such channel.")
	}

	s.publish(queue.ChannelUpdated{Channel: updated}, AudienceFor(updated))
	return updated, nil
}

// DeleteChannel deletes the channel and all of its messages. Only the
// creator may. The notification audience is computed from the pre-deletion
// snapshot, since membership no longer exists afterward.
func (s *Session) DeleteChannel(id model.Id) SanitizedError {
	channel, serr := s.getOwnChannel(id)
	if serr != nil {
		return serr
	}

	deleted, err := s.App.Store.DeleteChannel(channel.Id)
	if err != nil {
		return s.InternalError(err)
	} else if deleted == nil {
		return s.NotFoundError("No such channel.")
	}
	if err := s.App.Store.DeleteMessagesByChannelId(channel.Id); err != nil {
		return s.InternalError(err)
	}

	s.publish(queue.ChannelDeleted{Channel: deleted}, AudienceFor(deleted))
	return nil
}

// AddMember adds the user to the channel's member list. Only the creator
// may. Members are unique by id, so adding an existing member changes
// nothing.
func (s *Session) AddMember(id model.Id, member model.UserReference) (*model.Channel, SanitizedError) {
	channel, serr := s.getOwnChannel(id)
	if serr != nil {
		return nil, serr
	}

	updated, err := s.App.Store.AddMember(channel.Id, member)
	if err != nil {
		return nil, s.InternalError(err)
	} else if updated == nil {
		return nil, s.NotFoundError("No such channel.")
	}
	return updated, nil
}

// RemoveMember removes the member with the given user name from the
// channel's member list. Only the creator may, and the creator themselves
// cannot be removed.
func (s *Session) RemoveMember(id model.Id, userName string) (*model.Channel, SanitizedError) {
	channel, serr := s.getOwnChannel(id)
	if serr != nil {
		return nil, serr
	}
	if userName == channel.Creator.UserName {
		return nil, s.ForbiddenError("The channel creator cannot be removed.")
	}

	updated, err := s.App.Store.RemoveMember(channel.Id, userName)
	if err != nil {
		return nil, s.InternalError(err)
	} else if updated == nil {
		return nil, s.NotFoundError("No such channel.")
	}
	return updated, nil
}

// getOwnChannel fetches the channel and verifies that the session's user is
// its creator.
func (s *Session) getOwnChannel(id model.Id) (*model.Channel, SanitizedError) {
	if s.User == nil {
		return nil, s.AuthenticationError()
	}
	channel, err := s.App.Store.GetChannelById(id)
	if err != nil {
		return nil, s.InternalError(err)
	}
	if channel == nil {
		return nil, s.NotFoundError("No such channel.")
	}
	if !CanMutateChannel(channel, s.User.ID) {
		return nil, s.ForbiddenError("User is not the creator of the channel.")
	}
	return channel, nil
}
