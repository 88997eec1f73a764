package config

import (
	"sort"
)

// PushRecent records p as the most recently used target. An existing entry
// moves to the front instead of being duplicated, and the list never holds
// more than MaxRecent entries.
func (c *Config) PushRecent(p string) {
	p = CleanPath(p)
	if p == "" {
		return
	}
	recent := make([]string, 0, len(c.Recent)+1)
	recent = append(recent, p)
	for _, r := range c.Recent {
		if r != p {
			recent = append(recent, r)
		}
	}
	if len(recent) > MaxRecent {
		recent = recent[:MaxRecent]
	}
	c.Recent = recent
}

// ClearRecents empties the recent-targets list.
func (c *Config) ClearRecents() {
	c.Recent = []string{}
}

// AppendHistory adds an entry to the end of the log.
func (c *Config) AppendHistory(e HistoryEntry) {
	c.History = append(c.History, e)
}

// ClearHistory empties the log.
func (c *Config) ClearHistory() {
	c.History = []HistoryEntry{}
}

// NewestFirst returns the history ordered by timestamp, newest first.
// Entries with equal timestamps keep reverse insertion order.
func (c *Config) NewestFirst() []HistoryEntry {
	out := make([]HistoryEntry, len(c.History))
	for i, e := range c.History {
		out[len(c.History)-1-i] = e
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

// JumpPath is where a history entry points: the destination of a move, or
// the entry's own path otherwise.
func (e HistoryEntry) JumpPath() string {
	if e.Action == ActionMove && e.Extra != "" {
		return e.Extra
	}
	return e.Path
}
