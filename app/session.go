package app

import (
	"github.com/sirupsen/logrus"

	"github.com/ccbrown/messaged/model"
	"github.com/ccbrown/messaged/queue"
)

// Session scopes operations to a single request. User is the verified
// identity supplied by the upstream gateway; operations that require one fail
// with an AuthenticationError when it's absent.
type Session struct {
	App    *App
	User   *model.UserReference
	Logger logrus.FieldLogger
}

func (a *App) NewSession() *Session {
	return &Session{
		App:    a,
		Logger: logrus.StandardLogger(),
	}
}

func (s *Session) WithUser(user *model.UserReference) *Session {
	ret := *s
	ret.User = user
	return &ret
}

// publish hands a mutation event to the queue. Delivery is fire-and-forget:
// the store write has already completed, and a lost notification is an
// accepted outcome, so failures are logged rather than surfaced to the
// caller.
func (s *Session) publish(event queue.Event, audience model.Audience) {
	if err := s.App.Events.Publish(event, audience); err != nil {
		s.Logger.WithError(err).Error("unable to publish event")
	}
}
