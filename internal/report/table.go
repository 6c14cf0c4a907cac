// Package report renders scan results as styled terminal tables.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"stashview/internal/models"
	"stashview/internal/stashservice"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("81")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	dungeonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	borderColor = lipgloss.Color("240")
)

// Render formats the whole scan result: a summary line followed by one
// table per record kind.
func Render(res *stashservice.ScanResult, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s: %d records", res.Source, res.Len())))
	b.WriteString("\n")

	if len(res.Backpacks) > 0 {
		b.WriteString(BackpackTable(res.Backpacks, loc))
		b.WriteString("\n")
	}
	if len(res.Containers) > 0 {
		b.WriteString(ContainerTable(res.Containers))
		b.WriteString("\n")
	}
	return b.String()
}

// BackpackTable formats backpack records as a table.
func BackpackTable(recs []models.BackpackRecord, loc *time.Location) string {
	t := newTable().Headers("OWNER", "UUID", "ITEMS", "UPGRADES", "LAST ACCESS")
	for _, r := range recs {
		t.Row(
			r.Owner,
			r.UUID,
			strconv.Itoa(len(r.Slots)),
			strconv.Itoa(len(r.Upgrades)),
			formatAccess(r.AccessTime, loc),
		)
	}
	return t.String()
}

// ContainerTable formats container records as a table.
func ContainerTable(recs []models.ContainerRecord) string {
	t := newTable().Headers("TYPE", "POSITION", "DIMENSION", "DUNGEON", "ITEMS")
	for _, r := range recs {
		dungeon := "no"
		if r.Dungeon {
			dungeon = dungeonStyle.Render("YES")
		}
		t.Row(
			r.ID,
			fmt.Sprintf("%d, %d, %d", r.X, r.Y, r.Z),
			r.Dimension,
			dungeon,
			strconv.Itoa(len(r.Slots)),
		)
	}
	return t.String()
}

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func formatAccess(ms int64, loc *time.Location) string {
	if ms == 0 {
		return "never"
	}
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc).Format("2006-01-02 15:04")
}
