package domain

import "time"

// HistoryRecord is one append-only journal entry: what the user said, what it
// parsed into, and the single outcome line that resulted.
type HistoryRecord struct {
	Timestamp time.Time  `json:"timestamp"`
	Text      string     `json:"text"`
	Intent    IntentKind `json:"intent"`
	Outcome   string     `json:"outcome"`
}

// RecentFile is one entry of a recent-files listing, newest first.
type RecentFile struct {
	Path    string
	ModTime time.Time
}
