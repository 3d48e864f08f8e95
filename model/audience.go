package model

// Audience is the set of user ids that must be notified of an event. A nil
// audience means broadcast-to-everyone and marshals as JSON null, a sentinel
// the downstream notification consumer depends on.
type Audience []int64
