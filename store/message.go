package store

import (
	"math"
	"time"

	"github.com/ccbrown/keyvaluestore"
	"github.com/pkg/errors"

	"github.com/ccbrown/messaged/model"
)

func messageKey(id model.Id) string {
	return "message:" + string(id)
}

func channelMessagesKey(channelId model.Id) string {
	return "messages_by_channel:" + string(channelId)
}

func (s *Store) AddMessage(message *model.Message) error {
	serialized, err := serialize(message)
	if err != nil {
		return err
	}

	tx := s.Backend.AtomicWrite()
	tx.Set(messageKey(message.Id), serialized)
	tx.ZAdd(channelMessagesKey(message.ChannelId), message.Id, float64(message.CreatedAt.UnixNano()))
	_, err = tx.Exec()
	return err
}

// GetMessageById returns the message, or nil without an error if no message
// has the given id.
func (s *Store) GetMessageById(id model.Id) (*model.Message, error) {
	v, err := s.Backend.Get(messageKey(id))
	if v == nil {
		return nil, err
	}
	var message model.Message
	if err := deserialize(*v, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

func (s *Store) GetMessagesByIds(ids ...model.Id) ([]*model.Message, error) {
	var ret []*model.Message
	return ret, s.getByIds("message", &ret, ids...)
}

// GetMessagesByChannelId returns all of the channel's messages, in no
// particular order.
func (s *Store) GetMessagesByChannelId(channelId model.Id) ([]*model.Message, error) {
	ids, err := s.Backend.ZRevRangeByScore(channelMessagesKey(channelId), math.Inf(-1), math.Inf(1), 0)
	if err != nil {
		return nil, err
	}
	return s.GetMessagesByIds(stringsToIds(ids)...)
}

// MessagePatch describes a partial update to a message. Nil fields are left
// unchanged.
type MessagePatch struct {
	Body     *string
	EditedAt *time.Time
}

// UpdateMessage atomically applies the patch to the stored message and
// returns the updated snapshot. Returns nil without an error if the message
// does not exist.
func (s *Store) UpdateMessage(id model.Id, patch MessagePatch) (*model.Message, error) {
	for i := 0; i < casAttempts; i++ {
		v, err := s.Backend.Get(messageKey(id))
		if v == nil {
			return nil, err
		}
		var message model.Message
		if err := deserialize(*v, &message); err != nil {
			return nil, err
		}

		updated := message
		if patch.Body != nil {
			updated.Body = *patch.Body
		}
		if patch.EditedAt != nil {
			updated.EditedAt = patch.EditedAt
		}
		serialized, err := serialize(&updated)
		if err != nil {
			return nil, err
		}

		if didSet, err := s.Backend.SetEQ(messageKey(id), serialized, *v); err != nil {
			return nil, err
		} else if didSet {
			return &updated, nil
		}
	}
	return nil, errors.Wrap(errTooMuchContention, "unable to update message")
}

// DeleteMessage deletes the message and returns the deleted snapshot.
// Returns nil without an error if the message does not exist.
func (s *Store) DeleteMessage(id model.Id) (*model.Message, error) {
	message, err := s.GetMessageById(id)
	if message == nil {
		return nil, err
	}

	tx := s.Backend.AtomicWrite()
	tx.Delete(messageKey(id))
	tx.ZRem(channelMessagesKey(message.ChannelId), id)
	if _, err := tx.Exec(); err != nil {
		return nil, err
	}
	return message, nil
}

// DeleteMessagesByChannelId deletes all of the channel's messages along with
// the channel's message index. The documents are deleted in chunks so the
// cascade stays under the atomic write operation cap regardless of channel
// size; cross-document atomicity is not required, and the index is removed
// last so an interrupted cascade can be retried.
func (s *Store) DeleteMessagesByChannelId(channelId model.Id) error {
	ids, err := s.Backend.ZRevRangeByScore(channelMessagesKey(channelId), math.Inf(-1), math.Inf(1), 0)
	if err != nil {
		return err
	}

	for len(ids) > 0 {
		n := len(ids)
		if n > keyvaluestore.MaxAtomicWriteOperations {
			n = keyvaluestore.MaxAtomicWriteOperations
		}
		tx := s.Backend.AtomicWrite()
		for _, id := range ids[:n] {
			tx.Delete(messageKey(model.Id(id)))
		}
		if _, err := tx.Exec(); err != nil {
			return err
		}
		ids = ids[n:]
	}

	_, err = s.Backend.Delete(channelMessagesKey(channelId))
	return err
}
