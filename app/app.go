package app

import (
	"github.com/ccbrown/messaged/queue"
	"github.com/ccbrown/messaged/store"
)

// App holds the service's long-lived dependencies. Both the store and the
// event publisher are created once at process start and shared read-only
// across concurrent sessions.
type App struct {
	Store  *store.Store
	Events *queue.Publisher
}
