package model

// UserReference is a snapshot of a user's identity as verified by the
// upstream gateway. It is embedded by copy wherever a creator or member must
// be recorded and is never dereferenced for freshness: if the user later
// changes their name, existing snapshots keep the old one.
type UserReference struct {
	ID        int64  `json:"id"`
	UserName  string `json:"userName"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
