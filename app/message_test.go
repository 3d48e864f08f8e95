package app

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccbrown/messaged/model"
)

func TestCreateMessage(t *testing.T) {
	a, transport := newTestApp()
	alice := a.NewSession().WithUser(&testAlice)
	bob := a.NewSession().WithUser(&testBob)

	channel, err := alice.CreateChannel(&model.Channel{Name: "general"})
	require.Nil(t, err)

	// Anyone can post to a public channel.
	message, err := bob.CreateMessage(channel.Id, "hello")
	require.Nil(t, err)
	assert.Equal(t, channel.Id, message.ChannelId)
	assert.Equal(t, testBob, message.Creator)
	assert.False(t, message.CreatedAt.IsZero())

	event := lastPublishedEvent(t, transport)
	assert.Equal(t, "message-new", event.Type)
	assert.Equal(t, message.Id, event.Message.Id)
	assert.Nil(t, event.UserIds)

	_, err = bob.CreateMessage(channel.Id, "")
	assert.IsType(t, &UserError{}, err)
	_, err = bob.CreateMessage("no-such-channel", "hello")
	assert.IsType(t, &NotFoundError{}, err)
}

func TestCreateMessage_PrivateChannel(t *testing.T) {
	a, transport := newTestApp()
	alice := a.NewSession().WithUser(&testAlice)
	bob := a.NewSession().WithUser(&testBob)

	channel, err := alice.CreateChannel(&model.Channel{Name: "secret", IsPrivate: true})
	require.Nil(t, err)

	_, err = bob.CreateMessage(channel.Id, "hello")
	assert.IsType(t, &ForbiddenError{}, err)

	_, err = alice.AddMember(channel.Id, testBob)
	require.Nil(t, err)
	_, err = bob.CreateMessage(channel.Id, "hello")
	require.Nil(t, err)

	event := lastPublishedEvent(t, transport)
	assert.Equal(t, "message-new", event.Type)
	require.NotNil(t, event.UserIds)
	assert.ElementsMatch(t, []int64{testAlice.ID, testBob.ID}, *event.UserIds)
}

func TestGetChannelMessages(t *testing.T) {
	a, _ := newTestApp()
	alice := a.NewSession().WithUser(&testAlice)
	bob := a.NewSession().WithUser(&testBob)

	channel, err := alice.CreateChannel(&model.Channel{Name: "secret", IsPrivate: true})
	require.Nil(t, err)

	var ids []model.Id
	for i := 0; i < 120; i++ {
		message, err := alice.CreateMessage(channel.Id, "message "+strconv.Itoa(i))
		require.Nil(t, err)
		ids = append(ids, message.Id)
	}

	_, err = bob.GetChannelMessages(channel.Id, "")
	assert.IsType(t, &ForbiddenError{}, err)

	page, err := alice.GetChannelMessages(channel.Id, "")
	require.Nil(t, err)
	require.Len(t, page, 100)

	// Pages overlap by one: the cursor's message is included.
	next, err := alice.GetChannelMessages(channel.Id, page[99].Id)
	require.Nil(t, err)
	require.Len(t, next, 21)
	assert.Equal(t, page[99].Id, next[0].Id)

	seen := map[model.Id]struct{}{}
	for _, message := range append(page, next[1:]...) {
		_, ok := seen[message.Id]
		require.False(t, ok)
		seen[message.Id] = struct{}{}
	}
	assert.Len(t, seen, len(ids))
}

func TestUpdateMessage(t *testing.T) {
	a, transport := newTestApp()
	alice := a.NewSession().WithUser(&testAlice)
	bob := a.NewSession().WithUser(&testBob)

	channel, err := alice.CreateChannel(&model.Channel{Name: "general"})
	require.Nil(t, err)
	message, err := alice.CreateMessage(channel.Id, "hello")
	require.Nil(t, err)

	_, err = bob.UpdateMessage(message.Id, "hijacked")
	assert.IsType(t, &ForbiddenError{}, err)
	_, err = alice.UpdateMessage("no-such-message", "hello")
	assert.IsType(t, &NotFoundError{}, err)

	updated, err := alice.UpdateMessage(message.Id, "hello, world")
	require.Nil(t, err)
	assert.Equal(t, "hello, world", updated.Body)
	require.NotNil(t, updated.EditedAt)

	event := lastPublishedEvent(t, transport)
	assert.Equal(t, "message-update", event.Type)
	assert.Equal(t, "hello, world", event.Message.Body)
}

func TestDeleteMessage(t *testing.T) {
	a, transport := newTestApp()
	alice := a.NewSession().WithUser(&testAlice)
	bob := a.NewSession().WithUser(&testBob)

	channel, err := alice.CreateChannel(&model.Channel{Name: "general"})
	require.Nil(t, err)
	message, err := alice.CreateMessage(channel.Id, "hello")
	require.Nil(t, err)

	assert.IsType(t, &ForbiddenError{}, bob.DeleteMessage(message.Id))
	require.Nil(t, alice.DeleteMessage(message.Id))
	assert.IsType(t, &NotFoundError{}, alice.DeleteMessage(message.Id))

	event := lastPublishedEvent(t, transport)
	assert.Equal(t, "message-delete", event.Type)
	assert.Equal(t, message.Id, event.Message.Id)

	messages, err := alice.GetChannelMessages(channel.Id, "")
	require.Nil(t, err)
	assert.Empty(t, messages)
}
