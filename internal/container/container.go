// Package container loads in-world container dumps from JSON and
// normalizes them into container records.
package container

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"stashview/internal/apperr"
	"stashview/internal/models"
)

//go:embed schema.json
var schemaJSON string

// schema checks structural well-formedness only: an array of objects
// whose known fields, when present, carry the right primitive types.
var schema = jsonschema.MustCompileString("containers.schema.json", schemaJSON)

// rawContainer mirrors one dump element. Items stays raw because dumps
// ship it either as a list or as a slot-keyed object.
type rawContainer struct {
	ID        string          `json:"id"`
	X         float64         `json:"x"`
	Y         float64         `json:"y"`
	Z         float64         `json:"z"`
	Dimension string          `json:"dimension"`
	IsDungeon bool            `json:"is_dungeon"`
	Items     json.RawMessage `json:"items"`
}

type rawItem struct {
	ID         string          `json:"id"`
	Slot       *int            `json:"Slot"`
	Count      *int64          `json:"Count"`
	CountLower *int64          `json:"count"`
	NBT        json.RawMessage `json:"nbt"`
	Tag        json.RawMessage `json:"tag"`
}

// LoadFile reads and normalizes the dump at path.
func LoadFile(path string, logger *slog.Logger) ([]models.ContainerRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("container: read %s: %w", path, err)
	}
	recs, err := Load(data, logger)
	if err != nil {
		return nil, fmt.Errorf("container: %s: %w", path, err)
	}
	return recs, nil
}

// Load parses a JSON array of container objects. A malformed document or
// a schema violation is fatal (ErrInvalidInput); a malformed element is
// skipped with a warning so one bad record cannot block the rest.
func Load(data []byte, logger *slog.Logger) ([]models.ContainerRecord, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse json: %v: %w", err, apperr.ErrInvalidInput)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema: %v: %w", err, apperr.ErrInvalidInput)
	}

	var raws []rawContainer
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("parse containers: %v: %w", err, apperr.ErrInvalidInput)
	}

	out := make([]models.ContainerRecord, 0, len(raws))
	for i, rc := range raws {
		rec, ok := normalize(rc)
		if !ok {
			logger.Warn("container: skipping malformed record", slog.Int("index", i))
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func normalize(rc rawContainer) (models.ContainerRecord, bool) {
	rec := models.ContainerRecord{
		ID:        rc.ID,
		X:         int(rc.X),
		Y:         int(rc.Y),
		Z:         int(rc.Z),
		Dimension: rc.Dimension,
		Dungeon:   rc.IsDungeon,
		Slots:     make(map[int]models.ItemStack),
	}
	if rec.ID == "" {
		rec.ID = "minecraft:chest"
	}
	if rec.Dimension == "" {
		rec.Dimension = "Unknown"
	}
	rec.ItemsText = string(rc.Items)

	if len(rc.Items) == 0 {
		return rec, true
	}

	switch rc.Items[0] {
	case '[':
		var items []rawItem
		if err := json.Unmarshal(rc.Items, &items); err != nil {
			return models.ContainerRecord{}, false
		}
		for i, it := range items {
			slot := i
			if it.Slot != nil {
				slot = *it.Slot
			}
			addStack(rec.Slots, it, slot)
		}
	case '{':
		var items map[string]rawItem
		if err := json.Unmarshal(rc.Items, &items); err != nil {
			return models.ContainerRecord{}, false
		}
		keys := make([]string, 0, len(items))
		for k := range items {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			slot, err := strconv.Atoi(k)
			if err != nil {
				continue
			}
			it := items[k]
			if it.Slot != nil {
				slot = *it.Slot
			}
			addStack(rec.Slots, it, slot)
		}
	default:
		return models.ContainerRecord{}, false
	}
	return rec, true
}

func addStack(slots map[int]models.ItemStack, it rawItem, slot int) {
	if it.ID == "" {
		return
	}
	stack := models.ItemStack{Slot: slot, ID: it.ID, Count: 1}
	switch {
	case it.CountLower != nil:
		stack.Count = *it.CountLower
	case it.Count != nil:
		stack.Count = *it.Count
	}
	switch {
	case len(it.Tag) != 0:
		stack.NBT = string(it.Tag)
	case len(it.NBT) != 0:
		stack.NBT = string(it.NBT)
	}
	slots[slot] = stack
}
