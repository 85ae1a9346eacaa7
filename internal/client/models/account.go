// Package models defines the client-side records persisted by snapshop.
package models

// Account is one local user identity. Email is the storage key and is not
// part of the persisted record; it never changes once the account exists.
type Account struct {
	Email      string         `json:"-"`
	Password   string         `json:"password"`
	ProfilePic string         `json:"profilePic"`
	Location   string         `json:"location,omitempty"`
	History    []HistoryEntry `json:"history"`
}

// HistoryEntry is one past image search. Entries are immutable after creation
// and kept newest first.
type HistoryEntry struct {
	ID         string       `json:"id"`
	Timestamp  int64        `json:"timestamp"`
	PreviewSrc string       `json:"previewSrc"`
	Result     SearchResult `json:"result"`
}

// Clone returns a copy whose History slice can be modified freely.
func (a *Account) Clone() *Account {
	c := *a
	if a.History != nil {
		c.History = make([]HistoryEntry, len(a.History))
		copy(c.History, a.History)
	}
	return &c
}
