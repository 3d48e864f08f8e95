package api

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/ccbrown/messaged/app"
	"github.com/ccbrown/messaged/model"
)

type API struct {
	App *app.App
}

// Handler returns the service's routes, rooted at /v1. Every route requires
// the X-User identity header injected by the upstream gateway.
func (api *API) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/v1/channels", api.withSession(api.getChannels)).Methods("GET")
	router.HandleFunc("/v1/channels", api.withSession(api.postChannel)).Methods("POST")
	router.HandleFunc("/v1/channels/{channelID}", api.withSession(api.getChannelMessages)).Methods("GET")
	router.HandleFunc("/v1/channels/{channelID}", api.withSession(api.postChannelMessage)).Methods("POST")
	router.HandleFunc("/v1/channels/{channelID}", api.withSession(api.patchChannel)).Methods("PATCH")
	router.HandleFunc("/v1/channels/{channelID}", api.withSession(api.deleteChannel)).Methods("DELETE")
	router.HandleFunc("/v1/channels/{channelID}/members", api.withSession(api.postChannelMember)).Methods("POST")
	router.HandleFunc("/v1/channels/{channelID}/members", api.withSession(api.deleteChannelMember)).Methods("DELETE")
	router.HandleFunc("/v1/messages/{messageID}", api.withSession(api.patchMessage)).Methods("PATCH")
	router.HandleFunc("/v1/messages/{messageID}", api.withSession(api.deleteMessage)).Methods("DELETE")
	return logRequests(router)
}

// withSession rejects requests without a verified identity before any domain
// logic runs, then scopes the handler to a session for that identity.
func (api *API) withSession(f func(w http.ResponseWriter, r *http.Request, s *app.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("X-User")
		if header == "" {
			http.Error(w, "User is not authenticated.", http.StatusUnauthorized)
			return
		}
		var user model.UserReference
		if err := jsoniter.UnmarshalFromString(header, &user); err != nil {
			http.Error(w, "User is not authenticated.", http.StatusUnauthorized)
			return
		}
		// Real user ids are positive. Anything else (an empty identity
		// object, most notably) is no identity at all, and must never match
		// a service-owned creator reference.
		if user.ID <= 0 {
			http.Error(w, "User is not authenticated.", http.StatusUnauthorized)
			return
		}
		f(w, r, api.App.NewSession().WithUser(&user))
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Info("request handled")
	})
}

func statusCodeForError(err app.SanitizedError) int {
	switch err.(type) {
	case *app.AuthenticationError:
		return http.StatusUnauthorized
	case *app.ForbiddenError:
		return http.StatusForbidden
	case *app.NotFoundError:
		return http.StatusNotFound
	case *app.ConflictError:
		return http.StatusConflict
	case *app.UserError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err app.SanitizedError) {
	http.Error(w, err.SanitizedError(), statusCodeForError(err))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := jsoniter.Marshal(v)
	if err != nil {
		http.Error(w, "An internal error has occurred.", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	w.Write(body)
}

func writeText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, message)
}
