// Package query evaluates filter specifications against stash records.
package query

import (
	"strings"

	"stashview/internal/models"
)

// Filter is the immutable set of predicates for one invocation. Active
// predicates are combined with logical AND; a zero Filter matches every
// record. Matching is a pure function of (record, filter), so records
// may be evaluated independently and in any order.
//
// Owner, Item, Upgrade, CType and Query are case-insensitive substring
// matches (both sides lowercased, like the ids in the save data). NBT is
// a case-sensitive substring match against the flattened tag text.
type Filter struct {
	Query     string // free text: owner, uuid, item or upgrade id
	Owner     string
	Item      string
	Upgrade   string
	CType     string
	NBT       string
	NoDungeon bool
}

// IsZero reports whether no predicate is active.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Backpacks returns the subsequence of recs matching f, order preserved.
func Backpacks(recs []models.BackpackRecord, f Filter) []models.BackpackRecord {
	out := make([]models.BackpackRecord, 0, len(recs))
	for _, r := range recs {
		if MatchBackpack(r, f) {
			out = append(out, r)
		}
	}
	return out
}

// Containers returns the subsequence of recs matching f, order preserved.
func Containers(recs []models.ContainerRecord, f Filter) []models.ContainerRecord {
	out := make([]models.ContainerRecord, 0, len(recs))
	for _, r := range recs {
		if MatchContainer(r, f) {
			out = append(out, r)
		}
	}
	return out
}

// MatchBackpack reports whether one backpack record satisfies every
// active predicate. Container-only predicates (CType, NoDungeon) are
// vacuously true here.
func MatchBackpack(r models.BackpackRecord, f Filter) bool {
	if f.Owner != "" && !foldContains(r.Owner, f.Owner) && !foldContains(r.UUID, f.Owner) {
		return false
	}
	if f.Item != "" && !anySlotID(r.Slots, f.Item) {
		return false
	}
	if f.Upgrade != "" && !anyStackID(r.Upgrades, f.Upgrade) {
		return false
	}
	if f.NBT != "" && !slotNBTContains(r.Slots, f.NBT) {
		return false
	}
	if f.Query != "" {
		if !foldContains(r.Owner, f.Query) && !foldContains(r.UUID, f.Query) &&
			!anySlotID(r.Slots, f.Query) && !anyStackID(r.Upgrades, f.Query) {
			return false
		}
	}
	return true
}

// MatchContainer reports whether one container record satisfies every
// active predicate. Backpack-only predicates (Owner, Upgrade) never
// match a container, keeping AND semantics strict across kinds.
func MatchContainer(r models.ContainerRecord, f Filter) bool {
	if f.NoDungeon && r.Dungeon {
		return false
	}
	if f.Owner != "" || f.Upgrade != "" {
		return false
	}
	if f.CType != "" && !foldContains(r.ID, f.CType) {
		return false
	}
	if f.Item != "" && !anySlotID(r.Slots, f.Item) {
		return false
	}
	if f.NBT != "" && !strings.Contains(r.ItemsText, f.NBT) && !slotNBTContains(r.Slots, f.NBT) {
		return false
	}
	if f.Query != "" && !foldContains(r.ID, f.Query) && !anySlotID(r.Slots, f.Query) {
		return false
	}
	return true
}

func foldContains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func anySlotID(slots map[int]models.ItemStack, needle string) bool {
	for _, s := range slots {
		if foldContains(s.ID, needle) {
			return true
		}
	}
	return false
}

func anyStackID(stacks []models.ItemStack, needle string) bool {
	for _, s := range stacks {
		if foldContains(s.ID, needle) {
			return true
		}
	}
	return false
}

func slotNBTContains(slots map[int]models.ItemStack, needle string) bool {
	for _, s := range slots {
		if strings.Contains(s.NBT, needle) {
			return true
		}
	}
	return false
}
