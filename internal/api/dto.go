package api

import (
	"encoding/json"
	"time"

	"stashview/internal/index"
)

// StashListItem is a lightweight item in a list response.
type StashListItem struct {
	Key        string    `json:"key"`
	Kind       string    `json:"kind"`
	Owner      string    `json:"owner,omitempty"`
	Source     string    `json:"source"`
	Dungeon    bool      `json:"dungeon,omitempty"`
	AccessTime int64     `json:"access_time_ms,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StashDetail is the full representation of one stash: the list fields
// plus the decoded record.
type StashDetail struct {
	StashListItem
	Record json.RawMessage `json:"record"`
}

// SearchHit is one full-text search result.
type SearchHit struct {
	Key     string `json:"key"`
	Kind    string `json:"kind"`
	Owner   string `json:"owner,omitempty"`
	Snippet string `json:"snippet"`
}

func listItem(r index.StashRow) StashListItem {
	return StashListItem{
		Key:        r.Key,
		Kind:       r.Kind,
		Owner:      r.Owner,
		Source:     r.Source,
		Dungeon:    r.Dungeon,
		AccessTime: r.AccessTime,
		UpdatedAt:  r.UpdatedAt,
	}
}
