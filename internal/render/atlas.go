// Package render composes inventory grid images for stash records.
package render

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// Sprite is one icon's rectangle inside the atlas sheet.
type Sprite struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Atlas resolves item ids to icon tiles. It works in a degraded mode
// with no sheet at all: every lookup then falls back to a deterministic
// per-id placeholder so rendering never depends on asset availability.
type Atlas struct {
	sprites map[string]Sprite
	sheet   image.Image
}

// LoadAtlas reads <dir>/atlas_map.json and <dir>/item_atlas.png. A
// missing directory or missing files yield an empty atlas, not an error.
func LoadAtlas(dir string) (*Atlas, error) {
	a := &Atlas{sprites: map[string]Sprite{}}
	if dir == "" {
		return a, nil
	}

	mapPath := filepath.Join(dir, "atlas_map.json")
	raw, err := os.ReadFile(mapPath)
	if err != nil {
		if os.IsNotExist(err) {
			return a, nil
		}
		return nil, fmt.Errorf("render: read %s: %w", mapPath, err)
	}

	// The map ships either flat or wrapped in a "sprites" object.
	var wrapped struct {
		Sprites map[string]Sprite `json:"sprites"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Sprites) > 0 {
		a.sprites = wrapped.Sprites
	} else if err := json.Unmarshal(raw, &a.sprites); err != nil {
		return nil, fmt.Errorf("render: parse %s: %w", mapPath, err)
	}

	imgPath := filepath.Join(dir, "item_atlas.png")
	f, err := os.Open(imgPath)
	if err != nil {
		if os.IsNotExist(err) {
			a.sheet = nil
			return a, nil
		}
		return nil, fmt.Errorf("render: open %s: %w", imgPath, err)
	}
	defer f.Close()

	sheet, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("render: decode %s: %w", imgPath, err)
	}
	a.sheet = sheet
	return a, nil
}

// Icon returns the icon tile for an item id. Lookup tries the id as
// given, without/with the vanilla namespace, then a coarse container
// fallback; when everything misses (or no sheet is loaded) a flat
// placeholder tile derived from the id is returned.
func (a *Atlas) Icon(id string) image.Image {
	clean := strings.ToLower(strings.Trim(id, `"' `))

	if a.sheet != nil {
		if sp, ok := a.lookup(clean); ok {
			r := image.Rect(sp.X, sp.Y, sp.X+sp.Width, sp.Y+sp.Height)
			type subImager interface {
				SubImage(image.Rectangle) image.Image
			}
			if si, ok := a.sheet.(subImager); ok {
				return si.SubImage(r)
			}
		}
	}
	return placeholder(clean)
}

func (a *Atlas) lookup(id string) (Sprite, bool) {
	if sp, ok := a.sprites[id]; ok {
		return sp, true
	}
	if !strings.Contains(id, ":") {
		if sp, ok := a.sprites["minecraft:"+id]; ok {
			return sp, true
		}
	}
	if rest, ok := strings.CutPrefix(id, "minecraft:"); ok {
		if sp, ok := a.sprites[rest]; ok {
			return sp, true
		}
	}
	for _, kind := range []string{"chest", "barrel", "shulker_box"} {
		if strings.Contains(id, kind) {
			if sp, ok := a.sprites[kind]; ok {
				return sp, true
			}
		}
	}
	return Sprite{}, false
}

// placeholder renders a 16x16 tile whose hue is a stable function of the
// id, so missing icons stay tellable apart.
func placeholder(id string) image.Image {
	h := fnv.New32a()
	h.Write([]byte(id))
	v := h.Sum32()

	fill := color.RGBA{R: 64 + uint8(v)%160, G: 64 + uint8(v>>8)%160, B: 64 + uint8(v>>16)%160, A: 255}
	edge := color.RGBA{R: fill.R / 2, G: fill.G / 2, B: fill.B / 2, A: 255}

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if x == 0 || y == 0 || x == 15 || y == 15 {
				img.Set(x, y, edge)
			} else {
				img.Set(x, y, fill)
			}
		}
	}
	return img
}
