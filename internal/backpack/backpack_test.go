package backpack

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"stashview/internal/nbt"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func itemCompound(id string, count int64, slot int) *nbt.Compound {
	c := nbt.NewCompound()
	c.Set("id", nbt.String(id))
	c.Set("count", nbt.Int(int32(count)))
	if slot >= 0 {
		c.Set("Slot", nbt.Int(int32(slot)))
	}
	return c
}

func backpackEntry(ids [4]int32, items ...*nbt.Compound) *nbt.Compound {
	inv := nbt.NewCompound()
	list := &nbt.List{Elem: nbt.TagCompound}
	for _, it := range items {
		list.Items = append(list.Items, it)
	}
	inv.Set("Items", list)

	contents := nbt.NewCompound()
	contents.Set("inventory", inv)

	entry := nbt.NewCompound()
	entry.Set("uuid", nbt.IntArray(ids[:]))
	entry.Set("contents", contents)
	return entry
}

// saveTree wraps the payload two "data" levels down, like real saves.
func saveTree(payload *nbt.Compound) *nbt.Compound {
	data := nbt.NewCompound()
	data.Set("data", payload)
	root := nbt.NewCompound()
	root.Set("data", data)
	return root
}

func TestExtract_Basic(t *testing.T) {
	entry := backpackEntry([4]int32{1, 2, 3, 4},
		itemCompound("minecraft:flint", 5, 0),
		itemCompound("minecraft:air", 1, 1),
		itemCompound("Minecraft:Diamond_Sword", 1, 10),
	)

	log := nbt.NewCompound()
	log.Set("backpackUuid", nbt.IntArray{1, 2, 3, 4})
	log.Set("playerName", nbt.String("Steve"))
	log.Set("accessTime", nbt.Long(1700000000000))

	payload := nbt.NewCompound()
	payload.Set("backpackContents", &nbt.List{Elem: nbt.TagCompound, Items: []nbt.Node{entry}})
	payload.Set("accessLogRecords", &nbt.List{Elem: nbt.TagCompound, Items: []nbt.Node{log}})

	recs, err := Extract(saveTree(payload), DefaultKeys(), discard())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}

	r := recs[0]
	if r.Owner != "Steve" {
		t.Errorf("owner = %q", r.Owner)
	}
	if r.UUID != "00000001-0000-0002-0000-000300000004" {
		t.Errorf("uuid = %q", r.UUID)
	}
	if r.AccessTime != 1700000000000 {
		t.Errorf("access time = %d", r.AccessTime)
	}
	// Air is dropped, ids lowercased, slots honored.
	if len(r.Slots) != 2 {
		t.Fatalf("slots = %v", r.Slots)
	}
	if s := r.Slots[0]; s.ID != "minecraft:flint" || s.Count != 5 {
		t.Errorf("slot 0 = %+v", s)
	}
	if s := r.Slots[10]; s.ID != "minecraft:diamond_sword" {
		t.Errorf("slot 10 = %+v", s)
	}
}

func TestExtract_SlotDefaultsToPosition(t *testing.T) {
	entry := backpackEntry([4]int32{0, 0, 0, 1}, itemCompound("minecraft:dirt", 2, -1))

	payload := nbt.NewCompound()
	payload.Set("backpackContents", &nbt.List{Elem: nbt.TagCompound, Items: []nbt.Node{entry}})

	recs, err := Extract(saveTree(payload), DefaultKeys(), discard())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := recs[0].Slots[0]; !ok {
		t.Errorf("slots = %v, want entry at list position 0", recs[0].Slots)
	}
	if recs[0].Owner != "Unknown" {
		t.Errorf("owner = %q, want Unknown without access log", recs[0].Owner)
	}
}

func TestExtract_MalformedEntrySkipped(t *testing.T) {
	bad := nbt.NewCompound() // no uuid, no contents
	good := backpackEntry([4]int32{0, 0, 0, 2}, itemCompound("minecraft:stone", 1, 0))

	payload := nbt.NewCompound()
	payload.Set("backpackContents", &nbt.List{Elem: nbt.TagCompound, Items: []nbt.Node{bad, good}})

	recs, err := Extract(saveTree(payload), DefaultKeys(), discard())
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want the one well-formed entry", len(recs))
	}
}

func TestExtract_PayloadMissing(t *testing.T) {
	root := nbt.NewCompound()
	root.Set("something", nbt.Int(1))
	_, err := Extract(root, DefaultKeys(), discard())
	if err == nil {
		t.Fatal("want error for missing payload")
	}
	var npe *NoPayloadError
	if !errors.As(err, &npe) {
		t.Fatalf("got %T, want *NoPayloadError", err)
	}
}

func TestExtract_Upgrades(t *testing.T) {
	entry := backpackEntry([4]int32{0, 0, 0, 3})
	upgInv := nbt.NewCompound()
	upgInv.Set("Items", &nbt.List{Elem: nbt.TagCompound, Items: []nbt.Node{
		itemCompound("sophisticatedbackpacks:stack_upgrade_tier_1", 1, 0),
	}})
	contents, _ := entry.Get("contents")
	contents.(*nbt.Compound).Set("upgradeInventory", upgInv)

	payload := nbt.NewCompound()
	payload.Set("backpackContents", &nbt.List{Elem: nbt.TagCompound, Items: []nbt.Node{entry}})

	recs, err := Extract(saveTree(payload), DefaultKeys(), discard())
	if err != nil {
		t.Fatal(err)
	}
	if len(recs[0].Upgrades) != 1 || recs[0].Upgrades[0].ID != "sophisticatedbackpacks:stack_upgrade_tier_1" {
		t.Errorf("upgrades = %+v", recs[0].Upgrades)
	}
}
