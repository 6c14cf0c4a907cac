package query

import (
	"testing"

	"stashview/internal/models"
)

func backpacks() []models.BackpackRecord {
	return []models.BackpackRecord{
		{
			UUID:  "aaaa0000-0000-0000-0000-000000000001",
			Owner: "Steve",
			Slots: map[int]models.ItemStack{
				0: {Slot: 0, ID: "minecraft:flint", Count: 5},
			},
		},
		{
			UUID:  "bbbb0000-0000-0000-0000-000000000002",
			Owner: "Alex",
			Slots: map[int]models.ItemStack{
				3: {Slot: 3, ID: "minecraft:diamond_sword", Count: 1, NBT: `{Damage:12}`},
			},
			Upgrades: []models.ItemStack{
				{ID: "sophisticatedbackpacks:pickup_upgrade", Count: 1},
			},
		},
	}
}

func containers() []models.ContainerRecord {
	return []models.ContainerRecord{
		{ID: "minecraft:chest", X: 1, Slots: map[int]models.ItemStack{
			0: {ID: "minecraft:diamond", Count: 2},
		}, ItemsText: `[{"id":"minecraft:diamond","nbt":{"Float420":1}}]`},
		{ID: "minecraft:barrel", X: 2, Dungeon: true, Slots: map[int]models.ItemStack{
			0: {ID: "minecraft:diamond_pickaxe", Count: 1},
		}},
		{ID: "minecraft:chest", X: 3, Slots: map[int]models.ItemStack{
			0: {ID: "minecraft:bread", Count: 7},
		}},
	}
}

func TestEmptyFilterReturnsEverythingInOrder(t *testing.T) {
	bs := Backpacks(backpacks(), Filter{})
	if len(bs) != 2 || bs[0].Owner != "Steve" || bs[1].Owner != "Alex" {
		t.Errorf("backpacks = %+v", bs)
	}
	cs := Containers(containers(), Filter{})
	if len(cs) != 3 || cs[0].X != 1 || cs[2].X != 3 {
		t.Errorf("containers = %+v", cs)
	}
}

func TestItemSubstringExample(t *testing.T) {
	// One backpack holds Items: [{id: minecraft:flint, Count: 5}];
	// filtering by that id returns exactly that record.
	got := Backpacks(backpacks(), Filter{Item: "minecraft:flint"})
	if len(got) != 1 {
		t.Fatalf("got %d records", len(got))
	}
	if got[0].Slots[0].Count != 5 {
		t.Errorf("count = %d, want 5", got[0].Slots[0].Count)
	}
}

func TestItemMatchIsCaseInsensitiveSubstring(t *testing.T) {
	if got := Backpacks(backpacks(), Filter{Item: "Diamond"}); len(got) != 1 || got[0].Owner != "Alex" {
		t.Errorf("got %+v", got)
	}
}

func TestOwnerMatchesNameOrUUID(t *testing.T) {
	if got := Backpacks(backpacks(), Filter{Owner: "steve"}); len(got) != 1 {
		t.Errorf("by name: %+v", got)
	}
	if got := Backpacks(backpacks(), Filter{Owner: "bbbb0000"}); len(got) != 1 || got[0].Owner != "Alex" {
		t.Errorf("by uuid: %+v", got)
	}
}

func TestUpgradePredicate(t *testing.T) {
	if got := Backpacks(backpacks(), Filter{Upgrade: "pickup"}); len(got) != 1 || got[0].Owner != "Alex" {
		t.Errorf("got %+v", got)
	}
}

func TestNoDungeonExample(t *testing.T) {
	// 3 containers, exactly one dungeon; --nodungeon keeps the other 2
	// in order.
	got := Containers(containers(), Filter{NoDungeon: true})
	if len(got) != 2 || got[0].X != 1 || got[1].X != 3 {
		t.Errorf("got %+v", got)
	}
}

func TestItemAndNBTConjunction(t *testing.T) {
	// Both predicates must hold: --item diamond --nbt Float420.
	got := Containers(containers(), Filter{Item: "diamond", NBT: "Float420"})
	if len(got) != 1 || got[0].X != 1 {
		t.Errorf("got %+v", got)
	}
	// NBT match is case-sensitive.
	if got := Containers(containers(), Filter{Item: "diamond", NBT: "float420"}); len(got) != 0 {
		t.Errorf("case-insensitive nbt match: %+v", got)
	}
}

func TestContainerTypePredicate(t *testing.T) {
	got := Containers(containers(), Filter{CType: "barrel"})
	if len(got) != 1 || got[0].X != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestBackpackNBTPredicate(t *testing.T) {
	got := Backpacks(backpacks(), Filter{NBT: "Damage:12"})
	if len(got) != 1 || got[0].Owner != "Alex" {
		t.Errorf("got %+v", got)
	}
}

func TestGeneralQuery(t *testing.T) {
	if got := Backpacks(backpacks(), Filter{Query: "flint"}); len(got) != 1 || got[0].Owner != "Steve" {
		t.Errorf("item via query: %+v", got)
	}
	if got := Backpacks(backpacks(), Filter{Query: "alex"}); len(got) != 1 {
		t.Errorf("owner via query: %+v", got)
	}
	if got := Containers(containers(), Filter{Query: "bread"}); len(got) != 1 || got[0].X != 3 {
		t.Errorf("container via query: %+v", got)
	}
}

func TestBackpackOnlyPredicatesExcludeContainers(t *testing.T) {
	if got := Containers(containers(), Filter{Owner: "steve"}); len(got) != 0 {
		t.Errorf("owner predicate matched containers: %+v", got)
	}
}

// Adding one more active predicate must never grow the result set.
func TestPredicateMonotonicity(t *testing.T) {
	base := Filter{Item: "diamond"}
	tighter := []Filter{
		{Item: "diamond", NoDungeon: true},
		{Item: "diamond", CType: "chest"},
		{Item: "diamond", NBT: "Float420"},
		{Item: "diamond", Query: "pickaxe"},
	}
	n := len(Containers(containers(), base))
	for _, f := range tighter {
		if got := len(Containers(containers(), f)); got > n {
			t.Errorf("filter %+v grew result set: %d > %d", f, got, n)
		}
	}
}
