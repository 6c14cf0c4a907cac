// Package models defines the query-facing domain types for stashview.
package models

import "fmt"

// Stash kinds.
const (
	KindBackpack  = "backpack"
	KindContainer = "container"
)

// ItemStack is one occupied inventory slot.
type ItemStack struct {
	Slot  int    `json:"slot"`
	ID    string `json:"id"`
	Count int64  `json:"count"`
	// NBT is the flattened textual rendering of any extra data attached
	// to the stack; empty when the stack carries none.
	NBT string `json:"nbt,omitempty"`
}

// BackpackRecord is the derived view of one backpack entry from the
// binary save. Immutable after construction.
type BackpackRecord struct {
	UUID       string            `json:"uuid"`
	Owner      string            `json:"owner"`
	AccessTime int64             `json:"access_time_ms,omitempty"`
	Slots      map[int]ItemStack `json:"slots"`
	Upgrades   []ItemStack       `json:"upgrades,omitempty"`
}

// Key returns the stable identifier used for file names and index rows.
func (r BackpackRecord) Key() string { return r.UUID }

// ContainerRecord is the derived view of one in-world container from the
// JSON dump. Immutable after construction.
type ContainerRecord struct {
	ID        string            `json:"id"`
	X         int               `json:"x"`
	Y         int               `json:"y"`
	Z         int               `json:"z"`
	Dimension string            `json:"dimension,omitempty"`
	Dungeon   bool              `json:"dungeon"`
	Slots     map[int]ItemStack `json:"slots"`
	// ItemsText is the flattened text of the raw item blob, searched by
	// the free-text NBT predicate.
	ItemsText string `json:"-"`
}

// Key returns the stable identifier used for file names and index rows.
func (r ContainerRecord) Key() string {
	return fmt.Sprintf("%s_%d_%d_%d", sanitizeID(r.ID), r.X, r.Y, r.Z)
}

func sanitizeID(id string) string {
	out := make([]rune, 0, len(id))
	for _, r := range id {
		if r == ':' || r == '/' {
			r = '_'
		}
		out = append(out, r)
	}
	return string(out)
}
