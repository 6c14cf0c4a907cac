package index

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"stashview/internal/models"
	"stashview/internal/stashservice"
)

// RowsFromResult flattens a scan result into index rows. Record JSON is
// kept verbatim; the text columns are denormalized for filtering and
// full-text search.
func RowsFromResult(res *stashservice.ScanResult) []StashRow {
	rows := make([]StashRow, 0, res.Len())
	for _, rec := range res.Backpacks {
		rows = append(rows, backpackRow(rec, res.Source))
	}
	for _, rec := range res.Containers {
		rows = append(rows, containerRow(rec, res.Source))
	}
	return rows
}

func backpackRow(rec models.BackpackRecord, source string) StashRow {
	record, _ := json.Marshal(rec)
	return StashRow{
		Key:        rec.Key(),
		Kind:       models.KindBackpack,
		Source:     source,
		Owner:      rec.Owner,
		Items:      slotText(rec.Slots),
		Upgrades:   stackText(rec.Upgrades),
		NBT:        slotNBTText(rec.Slots),
		Record:     string(record),
		AccessTime: rec.AccessTime,
		UpdatedAt:  time.Now(),
	}
}

func containerRow(rec models.ContainerRecord, source string) StashRow {
	record, _ := json.Marshal(rec)
	nbt := rec.ItemsText
	if t := slotNBTText(rec.Slots); t != "" {
		nbt += " " + t
	}
	return StashRow{
		Key:       rec.Key(),
		Kind:      models.KindContainer,
		Source:    source,
		Owner:     rec.ID,
		Dungeon:   rec.Dungeon,
		Items:     slotText(rec.Slots),
		NBT:       strings.TrimSpace(nbt),
		Record:    string(record),
		UpdatedAt: time.Now(),
	}
}

// slotText joins the item ids of occupied slots in slot order.
func slotText(slots map[int]models.ItemStack) string {
	idx := make([]int, 0, len(slots))
	for i := range slots {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	ids := make([]string, 0, len(idx))
	for _, i := range idx {
		ids = append(ids, slots[i].ID)
	}
	return strings.Join(ids, " ")
}

func stackText(stacks []models.ItemStack) string {
	ids := make([]string, 0, len(stacks))
	for _, s := range stacks {
		ids = append(ids, s.ID)
	}
	return strings.Join(ids, " ")
}

func slotNBTText(slots map[int]models.ItemStack) string {
	idx := make([]int, 0, len(slots))
	for i := range slots {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	var parts []string
	for _, i := range idx {
		if slots[i].NBT != "" {
			parts = append(parts, slots[i].NBT)
		}
	}
	return strings.Join(parts, " ")
}
