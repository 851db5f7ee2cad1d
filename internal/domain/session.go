package domain

// Session carries the identity and entitlement of the caller through every
// store and engine call. Handlers build it from verified JWT claims; tests
// inject fixtures directly. An empty UserID means "not signed in": reads
// degrade to empty values and writes are skipped (see ledger service).
type Session struct {
	UserID  string
	Premium bool
}

// Authenticated reports whether the session identifies a user.
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

// HistoryWindowDays returns the backward-scan bound for "repeat last meal"
// style lookups: premium users get a 30 day window, everyone else 1 day.
func (s Session) HistoryWindowDays() int {
	if s.Premium {
		return 30
	}
	return 1
}
