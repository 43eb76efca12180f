package models

import "time"

// Thread groups a user's consecutive exchanges. It is active while
// now - LastActivityAt does not exceed the configured window; only
// LastActivityAt changes after creation.
type Thread struct {
	ID             int64
	UserID         int64
	LastActivityAt time.Time
	CreatedAt      time.Time

	// Exchanges is filled by listing and export, never persisted from here.
	Exchanges []Exchange
}

// Exchange is one immutable question/answer pair. Within a thread exchanges
// are ordered by CreatedAt, ties broken by ID.
type Exchange struct {
	ID        int64
	ThreadID  int64
	UserID    int64
	Question  string
	Answer    string
	CreatedAt time.Time
}

// Less reports whether e sorts before o in ascending (CreatedAt, ID) order.
func (e Exchange) Less(o Exchange) bool {
	if !e.CreatedAt.Equal(o.CreatedAt) {
		return e.CreatedAt.Before(o.CreatedAt)
	}
	return e.ID < o.ID
}
