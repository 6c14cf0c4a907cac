package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	xdraw "golang.org/x/image/draw"

	"stashview/internal/models"
)

// Layout constants in background-pixel units. The original interface
// draws 18px slots with 16px icons; everything scales from SlotSize.
const (
	defaultSlotSize = 64
	defaultColumns  = 9
	padding         = 12
	headerGap       = 8
)

var (
	bgColor     = color.RGBA{198, 198, 198, 255}
	slotDark    = color.RGBA{55, 55, 55, 255}
	slotLight   = color.RGBA{255, 255, 255, 255}
	slotFill    = color.RGBA{139, 139, 139, 255}
	textColor   = color.RGBA{255, 255, 255, 255}
	borderColor = color.RGBA{85, 85, 85, 255}
)

// Renderer composes grid images. The zero value is not usable; call New.
type Renderer struct {
	atlas    *Atlas
	slotSize int
	columns  int
	loc      *time.Location
}

// Options tune the fixed layout. Zero fields fall back to defaults.
type Options struct {
	SlotSize int
	Columns  int
	Location *time.Location
}

// New creates a renderer drawing icons from atlas.
func New(atlas *Atlas, opts Options) *Renderer {
	if atlas == nil {
		atlas = &Atlas{sprites: map[string]Sprite{}}
	}
	r := &Renderer{
		atlas:    atlas,
		slotSize: opts.SlotSize,
		columns:  opts.Columns,
		loc:      opts.Location,
	}
	if r.slotSize <= 0 {
		r.slotSize = defaultSlotSize
	}
	if r.columns <= 0 {
		r.columns = defaultColumns
	}
	return r
}

// Backpack renders one backpack record: header with owner, last access
// and UUID, an upgrades row, and the slot grid.
func (r *Renderer) Backpack(rec models.BackpackRecord) image.Image {
	header := []string{
		"Owner: " + rec.Owner,
		"Last: " + formatShortDate(rec.AccessTime, r.loc),
		"UUID: " + shortUUID(rec.UUID),
	}
	return r.compose(header, rec.Upgrades, rec.Slots, "sophisticatedbackpacks:backpack")
}

// Container renders one container record: header with type, position,
// dimension and dungeon flag, and the slot grid.
func (r *Renderer) Container(rec models.ContainerRecord) image.Image {
	dungeon := "No"
	if rec.Dungeon {
		dungeon = "YES"
	}
	header := []string{
		"Type: " + rec.ID,
		fmt.Sprintf("Pos: %d, %d, %d", rec.X, rec.Y, rec.Z),
		"Dim: " + rec.Dimension,
		"Dungeon: " + dungeon,
	}
	return r.compose(header, nil, rec.Slots, rec.ID)
}

func (r *Renderer) compose(header []string, upgrades []models.ItemStack, slots map[int]models.ItemStack, iconID string) image.Image {
	rows := gridRows(slots, r.columns)

	headerH := padding + r.slotSize + headerGap
	if th := padding + len(header)*lineHeight(); th > headerH {
		headerH = th
	}
	if len(upgrades) > 0 {
		headerH += r.slotSize + headerGap
	}

	width := r.columns*r.slotSize + padding*2
	height := headerH + rows*r.slotSize + padding*2

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bgColor), image.Point{}, draw.Src)
	drawBorder(img)

	// Header icon and text block.
	r.drawSlot(img, padding, padding)
	r.drawIcon(img, padding, padding, iconID)
	textX := padding + r.slotSize + padding
	for i, line := range header {
		drawText(img, textX, padding+i*lineHeight(), line, textColor)
	}

	// Upgrade row, right-aligned under the header text.
	if len(upgrades) > 0 {
		upY := headerH - r.slotSize - headerGap
		drawText(img, padding, upY-lineHeight(), "Upgrades:", textColor)
		x := width - padding - r.slotSize
		for _, u := range upgrades {
			r.drawSlot(img, x, upY)
			r.drawIcon(img, x, upY, u.ID)
			x -= r.slotSize + 4
			if x < padding {
				break
			}
		}
	}

	// Slot grid.
	gridY := headerH + padding
	for row := 0; row < rows; row++ {
		for col := 0; col < r.columns; col++ {
			x := padding + col*r.slotSize
			y := gridY + row*r.slotSize
			r.drawSlot(img, x, y)

			idx := row*r.columns + col
			stack, ok := slots[idx]
			if !ok {
				continue
			}
			r.drawIcon(img, x, y, stack.ID)
			if stack.Count > 1 {
				label := formatCount(stack.Count)
				lx := x + r.slotSize - textWidth(label) - 3
				ly := y + r.slotSize - lineHeight()
				drawText(img, lx, ly, label, textColor)
			}
		}
	}
	return img
}

// gridRows sizes the grid to the highest occupied slot, one row minimum.
func gridRows(slots map[int]models.ItemStack, columns int) int {
	maxSlot := -1
	for idx := range slots {
		if idx > maxSlot {
			maxSlot = idx
		}
	}
	rows := maxSlot/columns + 1
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (r *Renderer) drawSlot(img *image.RGBA, x, y int) {
	s := r.slotSize
	rect := image.Rect(x, y, x+s, y+s)
	draw.Draw(img, rect, image.NewUniform(slotFill), image.Point{}, draw.Src)
	// Bevel: dark top/left, light bottom/right.
	for i := 0; i < 2; i++ {
		hline(img, x+i, y+i, s-2*i, slotDark)
		vline(img, x+i, y+i, s-2*i, slotDark)
		hline(img, x+i, y+s-1-i, s-2*i, slotLight)
		vline(img, x+s-1-i, y+i, s-2*i, slotLight)
	}
}

func (r *Renderer) drawIcon(img *image.RGBA, slotX, slotY int, id string) {
	icon := r.atlas.Icon(id)
	// 16/18 of the slot, nearest-neighbour to keep pixel art crisp.
	size := r.slotSize * 16 / 18
	off := (r.slotSize - size) / 2
	dst := image.Rect(slotX+off, slotY+off, slotX+off+size, slotY+off+size)
	xdraw.NearestNeighbor.Scale(img, dst, icon, icon.Bounds(), xdraw.Over, nil)
}

func drawBorder(img *image.RGBA) {
	b := img.Bounds()
	for i := 0; i < 2; i++ {
		hline(img, b.Min.X+i, b.Min.Y+i, b.Dx()-2*i, borderColor)
		hline(img, b.Min.X+i, b.Max.Y-1-i, b.Dx()-2*i, borderColor)
		vline(img, b.Min.X+i, b.Min.Y+i, b.Dy()-2*i, borderColor)
		vline(img, b.Max.X-1-i, b.Min.Y+i, b.Dy()-2*i, borderColor)
	}
}

func hline(img *image.RGBA, x, y, w int, c color.Color) {
	for i := 0; i < w; i++ {
		img.Set(x+i, y, c)
	}
}

func vline(img *image.RGBA, x, y, h int, c color.Color) {
	for i := 0; i < h; i++ {
		img.Set(x, y+i, c)
	}
}

func shortUUID(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return id
}
