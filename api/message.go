package api

import (
	"net/http"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"

	"github.com/ccbrown/messaged/app"
	"github.com/ccbrown/messaged/model"
)

func messageId(r *http.Request) model.Id {
	return model.Id(mux.Vars(r)["messageID"])
}

func (api *API) getChannelMessages(w http.ResponseWriter, r *http.Request, s *app.Session) {
	beforeId := model.Id(r.URL.Query().Get("before"))

	messages, err := s.GetChannelMessages(channelId(r), beforeId)
	if err != nil {
		writeError(w, err)
		return
	}
	if messages == nil {
		messages = []*model.Message{}
	}
	writeJSON(w, http.StatusCreated, messages)
}

func (api *API) postChannelMessage(w http.ResponseWriter, r *http.Request, s *app.Session) {
	var input struct {
		Body string `json:"body"`
	}
	if err := jsoniter.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	message, err := s.CreateMessage(channelId(r), input.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

func (api *API) patchMessage(w http.ResponseWriter, r *http.Request, s *app.Session) {
	var input struct {
		Body string `json:"body"`
	}
	if err := jsoniter.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	message, err := s.UpdateMessage(messageId(r), input.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

func (api *API) deleteMessage(w http.ResponseWriter, r *http.Request, s *app.Session) {
	if err := s.DeleteMessage(messageId(r)); err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, "Message successfully deleted")
}
