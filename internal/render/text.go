package render

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var face = basicfont.Face7x13

// drawText draws one line of text with a 1px drop shadow, top-left
// anchored at (x, y).
func drawText(dst *image.RGBA, x, y int, text string, c color.Color) {
	shadow := color.RGBA{A: 160}
	baseline := y + face.Ascent

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(shadow),
		Face: face,
		Dot:  fixed.P(x+1, baseline+1),
	}
	d.DrawString(text)

	d.Src = image.NewUniform(c)
	d.Dot = fixed.P(x, baseline)
	d.DrawString(text)
}

func textWidth(text string) int {
	return font.MeasureString(face, text).Ceil()
}

func lineHeight() int { return face.Height + 4 }

// formatCount shortens large stack counts for slot labels: 9999 stays
// numeric, 120000 becomes 120k, and so on through T.
func formatCount(n int64) string {
	if n < 10000 {
		return fmt.Sprintf("%d", n)
	}
	v := float64(n)
	for _, suffix := range []string{"k", "M", "B", "T"} {
		v /= 1000
		if v < 1000 {
			if v >= 10 {
				return fmt.Sprintf("%d%s", int64(v), suffix)
			}
			return trimZero(fmt.Sprintf("%.1f", v)) + suffix
		}
	}
	return "INF"
}

func trimZero(s string) string {
	if len(s) > 2 && s[len(s)-2:] == ".0" {
		return s[:len(s)-2]
	}
	return s
}

// formatShortDate renders a millisecond timestamp for header lines.
func formatShortDate(ms int64, loc *time.Location) string {
	if ms == 0 {
		return "Never"
	}
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc).Format("06-01-02 15:04")
}
