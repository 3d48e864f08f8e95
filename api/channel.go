package api

import (
	"net/http"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"

	"github.com/ccbrown/messaged/app"
	"github.com/ccbrown/messaged/model"
)

func channelId(r *http.Request) model.Id {
	return model.Id(mux.Vars(r)["channelID"])
}

func (api *API) getChannels(w http.ResponseWriter, r *http.Request, s *app.Session) {
	channels, err := s.GetChannels()
	if err != nil {
		writeError(w, err)
		return
	}
	if channels == nil {
		channels = []*model.Channel{}
	}
	writeJSON(w, http.StatusCreated, channels)
}

func (api *API) postChannel(w http.ResponseWriter, r *http.Request, s *app.Session) {
	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		IsPrivate   bool   `json:"isPrivate"`
	}
	if err := jsoniter.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	channel, err := s.CreateChannel(&model.Channel{
		Name:        input.Name,
		Description: input.Description,
		IsPrivate:   input.IsPrivate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, channel)
}

func (api *API) patchChannel(w http.ResponseWriter, r *http.Request, s *app.Session) {
	var input struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := jsoniter.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	channel, err := s.UpdateChannel(channelId(r), input.Name, input.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, channel)
}

func (api *API) deleteChannel(w http.ResponseWriter, r *http.Request, s *app.Session) {
	if err := s.DeleteChannel(channelId(r)); err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, "channel deleted successfully")
}

func (api *API) postChannelMember(w http.ResponseWriter, r *http.Request, s *app.Session) {
	var member model.UserReference
	if err := jsoniter.NewDecoder(r.Body).Decode(&member); err != nil {
		http.Error(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	if _, err := s.AddMember(channelId(r), member); err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusCreated, "New member has been successfully added to channel")
}

func (api *API) deleteChannelMember(w http.ResponseWriter, r *http.Request, s *app.Session) {
	var input struct {
		UserName string `json:"userName"`
	}
	if err := jsoniter.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	if _, err := s.RemoveMember(channelId(r), input.UserName); err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, "Member has been successfully removed from channel")
}
