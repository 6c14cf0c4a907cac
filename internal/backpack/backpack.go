// Package backpack extracts backpack records from a decoded save tree.
package backpack

import (
	"encoding/binary"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"stashview/internal/models"
	"stashview/internal/nbt"
)

// Keys names the compound entries the extractor navigates by. The exact
// key set differs between save format versions, so it is configuration
// rather than a constant.
type Keys struct {
	Contents    string // list of per-backpack compounds
	AccessLog   string // list of owner access records
	SearchDepth int    // how many levels to search for the payload
}

// DefaultKeys matches current Sophisticated Backpacks saves.
func DefaultKeys() Keys {
	return Keys{
		Contents:    "backpackContents",
		AccessLog:   "accessLogRecords",
		SearchDepth: 3,
	}
}

// Extract walks the decoded root and builds one record per backpack
// entry. A malformed entry is skipped with a warning; only a missing
// payload makes the whole extraction fail.
func Extract(root *nbt.Compound, keys Keys, logger *slog.Logger) ([]models.BackpackRecord, error) {
	if keys.Contents == "" {
		keys = DefaultKeys()
	}
	payload, ok := findPayload(root, keys)
	if !ok {
		return nil, &NoPayloadError{Key: keys.Contents}
	}

	owners := ownerIndex(payload, keys.AccessLog)

	var out []models.BackpackRecord
	for i, entry := range compoundList(payload, keys.Contents) {
		rec, ok := buildRecord(entry, owners)
		if !ok {
			logger.Warn("backpack: skipping malformed entry", slog.Int("index", i))
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// NoPayloadError reports that the contents key was not found anywhere in
// the searched layers of the tree.
type NoPayloadError struct{ Key string }

func (e *NoPayloadError) Error() string {
	return "backpack: could not locate " + e.Key + " in the save tree"
}

// findPayload does a bounded breadth-first search for the compound that
// holds the contents list. Saves wrap the payload in a "data" compound at
// varying depths, so that child is probed first at each node.
func findPayload(root *nbt.Compound, keys Keys) (*nbt.Compound, bool) {
	layer := []*nbt.Compound{root}
	for depth := 0; depth < keys.SearchDepth && len(layer) > 0; depth++ {
		var next []*nbt.Compound
		for _, node := range layer {
			if node.Has(keys.Contents) {
				return node, true
			}
			if d, ok := node.Get("data"); ok {
				if dc, err := nbt.AsCompound(d); err == nil {
					if dc.Has(keys.Contents) {
						return dc, true
					}
					next = append(next, dc)
				}
			}
			for _, name := range node.Names() {
				if name == "data" {
					continue
				}
				child, _ := node.Get(name)
				if cc, err := nbt.AsCompound(child); err == nil {
					next = append(next, cc)
				}
			}
		}
		layer = next
	}
	return nil, false
}

type ownerRecord struct {
	name       string
	accessTime int64
}

// ownerIndex maps backpack UUID to the owner name and last access time
// recorded in the access log.
func ownerIndex(payload *nbt.Compound, logKey string) map[string]ownerRecord {
	idx := make(map[string]ownerRecord)
	for _, rec := range compoundList(payload, logKey) {
		id, ok := entryUUID(rec)
		if !ok {
			continue
		}
		var o ownerRecord
		if v, ok := rec.Get("playerName"); ok {
			o.name, _ = nbt.AsString(v)
		} else if v, ok := rec.Get("player"); ok {
			o.name, _ = nbt.AsString(v)
		}
		if v, ok := rec.Get("accessTime"); ok {
			o.accessTime, _ = nbt.IntValue(v)
		} else if v, ok := rec.Get("lastAccess"); ok {
			o.accessTime, _ = nbt.IntValue(v)
		}
		idx[id] = o
	}
	return idx
}

func buildRecord(entry *nbt.Compound, owners map[string]ownerRecord) (models.BackpackRecord, bool) {
	id, ok := entryUUID(entry)
	if !ok {
		return models.BackpackRecord{}, false
	}

	contents, ok := childCompound(entry, "contents")
	if !ok {
		return models.BackpackRecord{}, false
	}

	slots := make(map[int]models.ItemStack)
	for i, item := range itemList(contents, "inventory") {
		stack, ok := buildStack(item, i)
		if !ok || strings.Contains(stack.ID, "air") {
			continue
		}
		slots[stack.Slot] = stack
	}

	var upgrades []models.ItemStack
	for i, item := range itemList(contents, "upgradeInventory") {
		stack, ok := buildStack(item, i)
		if !ok {
			continue
		}
		upgrades = append(upgrades, stack)
	}

	rec := models.BackpackRecord{
		UUID:     id,
		Owner:    "Unknown",
		Slots:    slots,
		Upgrades: upgrades,
	}
	if o, ok := owners[id]; ok {
		if o.name != "" {
			rec.Owner = o.name
		}
		rec.AccessTime = o.accessTime
	}
	return rec, true
}

func buildStack(item *nbt.Compound, pos int) (models.ItemStack, bool) {
	rawID, ok := item.Get("id")
	if !ok {
		return models.ItemStack{}, false
	}
	id, err := nbt.AsString(rawID)
	if err != nil || id == "" {
		return models.ItemStack{}, false
	}

	stack := models.ItemStack{
		ID:    strings.ToLower(strings.Trim(id, `" `)),
		Count: 1,
		Slot:  pos,
	}
	if v, ok := item.Get("count"); ok {
		if n, err := nbt.IntValue(v); err == nil {
			stack.Count = n
		}
	} else if v, ok := item.Get("Count"); ok {
		if n, err := nbt.IntValue(v); err == nil {
			stack.Count = n
		}
	}
	if v, ok := item.Get("Slot"); ok {
		if n, err := nbt.IntValue(v); err == nil {
			stack.Slot = int(n)
		}
	}
	if v, ok := item.Get("tag"); ok {
		stack.NBT = nbt.Stringify(v)
	} else if v, ok := item.Get("components"); ok {
		stack.NBT = nbt.Stringify(v)
	}
	return stack, true
}

// entryUUID reads the 4-int UUID stored under "uuid" or "backpackUuid".
func entryUUID(c *nbt.Compound) (string, bool) {
	raw, ok := c.Get("uuid")
	if !ok {
		raw, ok = c.Get("backpackUuid")
	}
	if !ok {
		return "", false
	}
	ints, err := nbt.AsIntArray(raw)
	if err != nil || len(ints) != 4 {
		return "", false
	}
	var b [16]byte
	for i, v := range ints {
		binary.BigEndian.PutUint32(b[i*4:], uint32(v))
	}
	id, err := uuid.FromBytes(b[:])
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// itemList resolves contents.<name>.Items to its compound elements.
func itemList(contents *nbt.Compound, name string) []*nbt.Compound {
	inv, ok := childCompound(contents, name)
	if !ok {
		return nil
	}
	return compoundList(inv, "Items")
}

func childCompound(c *nbt.Compound, name string) (*nbt.Compound, bool) {
	v, ok := c.Get(name)
	if !ok {
		return nil, false
	}
	cc, err := nbt.AsCompound(v)
	if err != nil {
		return nil, false
	}
	return cc, true
}

// compoundList returns the compound elements of the list stored under
// name, ignoring elements of any other type.
func compoundList(c *nbt.Compound, name string) []*nbt.Compound {
	v, ok := c.Get(name)
	if !ok {
		return nil
	}
	l, err := nbt.AsList(v)
	if err != nil {
		return nil
	}
	out := make([]*nbt.Compound, 0, l.Len())
	for _, e := range l.Items {
		if cc, err := nbt.AsCompound(e); err == nil {
			out = append(out, cc)
		}
	}
	return out
}
