package store

import (
	"strconv"
	"time"

	"github.com/ccbrown/keyvaluestore"
	"github.com/pkg/errors"

	"github.com/ccbrown/messaged/model"
)

var ErrChannelNameExists = errors.New("channel name exists")

func channelKey(id model.Id) string {
	return "channel:" + string(id)
}

func channelNameKey(name string) string {
	return "channel_name:" + name
}

func memberChannelsKey(userId int64) string {
	return "channels_by_member:" + strconv.FormatInt(userId, 10)
}

// AddChannel adds a channel to the database. Returns ErrChannelNameExists if
// the name is taken. The write carries 3 + len(Members) operations, so the
// initial member list must stay well under the atomic write operation cap;
// channels are created with a single member, and later members arrive one at
// a time through AddMember.
func (s *Store) AddChannel(channel *model.Channel) error {
	serialized, err := serialize(channel)
	if err != nil {
		return err
	}

	tx := s.Backend.AtomicWrite()
	tx.SetNX(channelNameKey(channel.Name), channel.Id)
	tx.Set(channelKey(channel.Id), serialized)
	tx.SAdd("channels", channel.Id)
	for _, member := range channel.Members {
		tx.SAdd(memberChannelsKey(member.ID), channel.Id)
	}
	if didCommit, err := tx.Exec(); err != nil {
		return err
	} else if !didCommit {
		return ErrChannelNameExists
	}
	return nil
}

// GetChannelById returns the channel, or nil without an error if no channel
// has the given id.
func (s *Store) GetChannelById(id model.Id) (*model.Channel, error) {
	v, err := s.Backend.Get(channelKey(id))
	if v == nil {
		return nil, err
	}
	var channel model.Channel
	if err := deserialize(*v, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

func (s *Store) GetChannelsByIds(ids ...model.Id) ([]*model.Channel, error) {
	var ret []*model.Channel
	return ret, s.getByIds("channel", &ret, ids...)
}

func (s *Store) GetChannelsByMemberId(userId int64) ([]*model.Channel, error) {
	ids, err := s.Backend.SMembers(memberChannelsKey(userId))
	if ids == nil {
		return nil, err
	}
	return s.GetChannelsByIds(stringsToIds(ids)...)
}

// ChannelPatch describes a partial update to a channel. Nil fields are left
// unchanged.
type ChannelPatch struct {
	Name        *string
	Description *string
	EditedAt    *time.Time
}

// UpdateChannel atomically applies the patch to the stored channel and
// returns the updated snapshot. Returns nil without an error if the channel
// does not exist, and ErrChannelNameExists if the patch renames the channel
// to a name owned by another channel.
func (s *Store) UpdateChannel(id model.Id, patch ChannelPatch) (*model.Channel, error) {
	for i := 0; i < casAttempts; i++ {
		v, err := s.Backend.Get(channelKey(id))
		if v == nil {
			return nil, err
		}
		var channel model.Channel
		if err := deserialize(*v, &channel); err != nil {
			return nil, err
		}

		updated := channel
		if patch.Name != nil {
			updated.Name = *patch.Name
		}
		if patch.Description != nil {
			updated.Description = *patch.Description
		}
		if patch.EditedAt != nil {
			updated.EditedAt = patch.EditedAt
		}
		serialized, err := serialize(&updated)
		if err != nil {
			return nil, err
		}

		if updated.Name != channel.Name {
			// The rename must claim the new name index entry and release the
			// old one in the same write as the document swap.
			tx := s.Backend.AtomicWrite()
			tx.SetNX(channelNameKey(updated.Name), id)
			tx.Delete(channelNameKey(channel.Name))
			tx.SetEQ(channelKey(id), serialized, *v)
			if didCommit, err := tx.Exec(); err != nil {
				return nil, err
			} else if didCommit {
				return &updated, nil
			}
			if owner, err := s.Backend.Get(channelNameKey(updated.Name)); err != nil {
				return nil, err
			} else if owner != nil && *owner != string(id) {
				return nil, ErrChannelNameExists
			}
			continue
		}

		if didSet, err := s.Backend.SetEQ(channelKey(id), serialized, *v); err != nil {
			return nil, err
		} else if didSet {
			return &updated, nil
		}
	}
	return nil, errors.Wrap(errTooMuchContention, "unable to update channel")
}

// AddMember appends the member to the channel's member list and returns the
// updated snapshot. Members are unique by id, so adding an existing member is
// a no-op. Returns nil without an error if the channel does not exist.
func (s *Store) AddMember(id model.Id, member model.UserReference) (*model.Channel, error) {
	for i := 0; i < casAttempts; i++ {
		v, err := s.Backend.Get(channelKey(id))
		if v == nil {
			return nil, err
		}
		var channel model.Channel
		if err := deserialize(*v, &channel); err != nil {
			return nil, err
		}

		for _, existing := range channel.Members {
			if existing.ID == member.ID {
				return &channel, nil
			}
		}

		updated := channel
		updated.Members = append(append([]model.UserReference{}, channel.Members...), member)
		serialized, err := serialize(&updated)
		if err != nil {
			return nil, err
		}

		tx := s.Backend.AtomicWrite()
		tx.SetEQ(channelKey(id), serialized, *v)
		tx.SAdd(memberChannelsKey(member.ID), id)
		if didCommit, err := tx.Exec(); err != nil {
			return nil, err
		} else if didCommit {
			return &updated, nil
		}
	}
	return nil, errors.Wrap(errTooMuchContention, "unable to add member")
}

// RemoveMember removes the member with the given user name from the
// channel's member list and returns the updated snapshot. Removing an absent
// member is a no-op. Returns nil without an error if the channel does not
// exist.
func (s *Store) RemoveMember(id model.Id, userName string) (*model.Channel, error) {
	for i := 0; i < casAttempts; i++ {
		v, err := s.Backend.Get(channelKey(id))
		if v == nil {
			return nil, err
		}
		var channel model.Channel
		if err := deserialize(*v, &channel); err != nil {
			return nil, err
		}

		var removed *model.UserReference
		members := make([]model.UserReference, 0, len(channel.Members))
		for _, member := range channel.Members {
			if member.UserName == userName && removed == nil {
				member := member
				removed = &member
				continue
			}
			members = append(members, member)
		}
		if removed == nil {
			return &channel, nil
		}

		updated := channel
		updated.Members = members
		serialized, err := serialize(&updated)
		if err != nil {
			return nil, err
		}

		tx := s.Backend.AtomicWrite()
		tx.SetEQ(channelKey(id), serialized, *v)
		tx.SRem(memberChannelsKey(removed.ID), id)
		if didCommit, err := tx.Exec(); err != nil {
			return nil, err
		} else if didCommit {
			return &updated, nil
		}
	}
	return nil, errors.Wrap(errTooMuchContention, "unable to remove member")
}

// DeleteChannel deletes the channel and returns the deleted snapshot so
// callers can compute the notification audience from pre-deletion state.
// Returns nil without an error if the channel does not exist.
func (s *Store) DeleteChannel(id model.Id) (*model.Channel, error) {
	channel, err := s.GetChannelById(id)
	if channel == nil {
		return nil, err
	}

	tx := s.Backend.AtomicWrite()
	tx.Delete(channelKey(id))
	tx.Delete(channelNameKey(channel.Name))
	tx.SRem("channels", id)
	if _, err := tx.Exec(); err != nil {
		return nil, err
	}

	// The per-member index entries are cleared in chunks of their own: with
	// one SRem per member, a well-populated channel would blow past the
	// atomic write operation cap in a single transaction. The document is
	// already gone, so these entries are unreachable either way.
	members := channel.Members
	for len(members) > 0 {
		n := len(members)
		if n > keyvaluestore.MaxAtomicWriteOperations {
			n = keyvaluestore.MaxAtomicWriteOperations
		}
		tx := s.Backend.AtomicWrite()
		for _, member := range members[:n] {
			tx.SRem(memberChannelsKey(member.ID), id)
		}
		if _, err := tx.Exec(); err != nil {
			return nil, err
		}
		members = members[n:]
	}
	return channel, nil
}
