package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ccbrown/keyvaluestore/memorystore"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccbrown/messaged/app"
	"github.com/ccbrown/messaged/model"
	"github.com/ccbrown/messaged/queue"
	"github.com/ccbrown/messaged/store"
)

var (
	testAlice = model.UserReference{ID: 1, UserName: "alice", FirstName: "Alice", LastName: "Anderson"}
	testBob   = model.UserReference{ID: 2, UserName: "bob", FirstName: "Bob", LastName: "Baker"}
)

func NewTestAPI() *API {
	return &API{
		App: &app.App{
			Store: &store.Store{
				Backend: memorystore.NewBackend(),
			},
			Events: &queue.Publisher{
				Transport: &queue.MemoryTransport{},
			},
		},
	}
}

func (api *API) exec(t *testing.T, method, path string, user *model.UserReference, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		serialized, err := jsoniter.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(serialized)
	} else {
		reader = bytes.NewReader(nil)
	}

	r, err := http.NewRequest(method, "http://example.com"+path, reader)
	require.NoError(t, err)
	r.Header.Set("Content-Type", "application/json")
	if user != nil {
		header, err := jsoniter.MarshalToString(user)
		require.NoError(t, err)
		r.Header.Set("X-User", header)
	}

	w := httptest.NewRecorder()
	api.Handler().ServeHTTP(w, r)
	return w
}

func (api *API) createChannel(t *testing.T, user *model.UserReference, name string, isPrivate bool) *model.Channel {
	w := api.exec(t, "POST", "/v1/channels", user, map[string]interface{}{
		"name":      name,
		"isPrivate": isPrivate,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var channel model.Channel
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &channel))
	return &channel
}

func TestAuthenticationRequired(t *testing.T) {
	api := NewTestAPI()
	for _, route := range []struct {
		method string
		path   string
	}{
		{"GET", "/v1/channels"},
		{"POST", "/v1/channels"},
		{"GET", "/v1/channels/id"},
		{"POST", "/v1/channels/id"},
		{"PATCH", "/v1/channels/id"},
		{"DELETE", "/v1/channels/id"},
		{"POST", "/v1/channels/id/members"},
		{"DELETE", "/v1/channels/id/members"},
		{"PATCH", "/v1/messages/id"},
		{"DELETE", "/v1/messages/id"},
	} {
		w := api.exec(t, route.method, route.path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%v %v", route.method, route.path)
	}
}

func TestAuthenticationRequired_InvalidIdentity(t *testing.T) {
	api := NewTestAPI()

	for _, header := range []string{
		"not json",
		"{}",
		`{"id": 0, "userName": "nobody"}`,
		`{"id": -1, "userName": "nobody"}`,
	} {
		r, err := http.NewRequest("GET", "http://example.com/v1/channels", nil)
		require.NoError(t, err)
		r.Header.Set("X-User", header)
		w := httptest.NewRecorder()
		api.Handler().ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%v", header)
	}
}

func TestPublicChannelLifecycle(t *testing.T) {
	api := NewTestAPI()

	channel := api.createChannel(t, &testAlice, "general", false)
	assert.Equal(t, "general", channel.Name)
	assert.Equal(t, testAlice, channel.Creator)
	assert.Equal(t, []model.UserReference{testAlice}, channel.Members)

	// Anyone can post to a public channel.
	w := api.exec(t, "POST", "/v1/channels/"+string(channel.Id), &testBob, map[string]string{"body": "hello"})
	require.Equal(t, http.StatusCreated, w.Code)
	var message model.Message
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &message))
	assert.Equal(t, testBob, message.Creator)

	w = api.exec(t, "GET", "/v1/channels/"+string(channel.Id), &testBob, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var messages []*model.Message
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &messages))
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].Body)

	// Only the creator can delete the channel.
	w = api.exec(t, "DELETE", "/v1/channels/"+string(channel.Id), &testBob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = api.exec(t, "DELETE", "/v1/channels/"+string(channel.Id), &testAlice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.exec(t, "GET", "/v1/channels/"+string(channel.Id), &testBob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPrivateChannelMembership(t *testing.T) {
	api := NewTestAPI()

	channel := api.createChannel(t, &testAlice, "secret", true)

	w := api.exec(t, "GET", "/v1/channels/"+string(channel.Id), &testBob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Only the creator can add members.
	w = api.exec(t, "POST", "/v1/channels/"+string(channel.Id)+"/members", &testBob, testBob)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = api.exec(t, "POST", "/v1/channels/"+string(channel.Id)+"/members", &testAlice, testBob)
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.exec(t, "GET", "/v1/channels/"+string(channel.Id), &testBob, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = api.exec(t, "GET", "/v1/channels", &testBob, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var channels []*model.Channel
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &channels))
	require.Len(t, channels, 1)
	assert.Equal(t, channel.Id, channels[0].Id)

	// Removal is keyed by user name.
	w = api.exec(t, "DELETE", "/v1/channels/"+string(channel.Id)+"/members", &testAlice, map[string]string{"userName": testBob.UserName})
	require.Equal(t, http.StatusOK, w.Code)
	w = api.exec(t, "GET", "/v1/channels/"+string(channel.Id), &testBob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPatchChannel(t *testing.T) {
	api := NewTestAPI()

	channel := api.createChannel(t, &testAlice, "general", false)
	api.createChannel(t, &testAlice, "taken", false)

	w := api.exec(t, "PATCH", "/v1/channels/"+string(channel.Id), &testBob, map[string]string{"name": "renamed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.exec(t, "PATCH", "/v1/channels/"+string(channel.Id), &testAlice, map[string]string{"name": "taken"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.exec(t, "PATCH", "/v1/channels/"+string(channel.Id), &testAlice, map[string]string{"name": "renamed", "description": "now with a description"})
	require.Equal(t, http.StatusCreated, w.Code)
	var updated model.Channel
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "now with a description", updated.Description)
	assert.NotNil(t, updated.EditedAt)

	w = api.exec(t, "PATCH", "/v1/channels/no-such-channel", &testAlice, map[string]string{"name": "whatever"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMessageLifecycle(t *testing.T) {
	api := NewTestAPI()

	channel := api.createChannel(t, &testAlice, "general", false)

	w := api.exec(t, "POST", "/v1/channels/"+string(channel.Id), &testAlice, map[string]string{"body": "hello"})
	require.Equal(t, http.StatusCreated, w.Code)
	var message model.Message
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &message))

	// Only the creator can edit or delete a message.
	w = api.exec(t, "PATCH", "/v1/messages/"+string(message.Id), &testBob, map[string]string{"body": "hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = api.exec(t, "DELETE", "/v1/messages/"+string(message.Id), &testBob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.exec(t, "PATCH", "/v1/messages/"+string(message.Id), &testAlice, map[string]string{"body": "edited"})
	require.Equal(t, http.StatusCreated, w.Code)
	var updated model.Message
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "edited", updated.Body)
	assert.NotNil(t, updated.EditedAt)

	w = api.exec(t, "DELETE", "/v1/messages/"+string(message.Id), &testAlice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = api.exec(t, "PATCH", "/v1/messages/"+string(message.Id), &testAlice, map[string]string{"body": "too late"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetChannelMessages_Cursor(t *testing.T) {
	api := NewTestAPI()

	channel := api.createChannel(t, &testAlice, "general", false)
	for i := 0; i < 3; i++ {
		w := api.exec(t, "POST", "/v1/channels/"+string(channel.Id), &testAlice, map[string]string{"body": "hello"})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := api.exec(t, "GET", "/v1/channels/"+string(channel.Id), &testAlice, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var messages []*model.Message
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &messages))
	require.Len(t, messages, 3)

	w = api.exec(t, "GET", "/v1/channels/"+string(channel.Id)+"?before="+string(messages[1].Id), &testAlice, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var page []*model.Message
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page, 2)
	assert.Equal(t, messages[1].Id, page[0].Id)
}
