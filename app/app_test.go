package app

import (
	"testing"

	"github.com/ccbrown/keyvaluestore/memorystore"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"github.com/ccbrown/messaged/model"
	"github.com/ccbrown/messaged/queue"
	"github.com/ccbrown/messaged/store"
)

var (
	testAlice = model.UserReference{ID: 1, UserName: "alice", FirstName: "Alice", LastName: "Anderson"}
	testBob   = model.UserReference{ID: 2, UserName: "bob", FirstName: "Bob", LastName: "Baker"}
)

func newTestApp() (*App, *queue.MemoryTransport) {
	transport := &queue.MemoryTransport{}
	return &App{
		Store: &store.Store{
			Backend: memorystore.NewBackend(),
		},
		Events: &queue.Publisher{
			Transport: transport,
		},
	}, transport
}

type publishedEvent struct {
	Type    string         `json:"type"`
	Channel *model.Channel `json:"channel"`
	Message *model.Message `json:"message"`
	UserIds *[]int64       `json:"userIDs"`
}

func lastPublishedEvent(t *testing.T, transport *queue.MemoryTransport) *publishedEvent {
	bodies := transport.Bodies()
	require.NotEmpty(t, bodies)
	var event publishedEvent
	require.NoError(t, jsoniter.Unmarshal(bodies[len(bodies)-1], &event))
	return &event
}
