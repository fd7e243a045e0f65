package heapreader

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
)

// pageColumns are the columns of the per-page occupancy table.
var pageColumns = []table.Column{
	{Title: "File", Width: 28},
	{Title: "Page", Width: 6},
	{Title: "Used", Width: 6},
	{Title: "Slots", Width: 6},
	{Title: "Fill", Width: 7},
}

// pageRows flattens summaries into one table row per page.
func pageRows(summaries []FileSummary) []table.Row {
	var rows []table.Row
	for _, fs := range summaries {
		for _, ps := range fs.Pages {
			rows = append(rows, table.Row{
				shortPath(fs.Path, pageColumns[0].Width),
				fmt.Sprintf("%d", ps.PageNo),
				fmt.Sprintf("%d", ps.UsedSlots),
				fmt.Sprintf("%d", ps.NumSlots),
				fillRatio(ps),
			})
		}
	}
	return rows
}

func fillRatio(ps PageSummary) string {
	if ps.NumSlots == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(ps.UsedSlots)/float64(ps.NumSlots))
}

func shortPath(path string, width int) string {
	if len(path) <= width {
		return path
	}
	return "..." + path[len(path)-width+3:]
}

// RenderSummary draws summaries as a static table followed by per-file totals.
func RenderSummary(summaries []FileSummary) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Heap File Summary") + "\n")

	rows := pageRows(summaries)
	t := table.New(
		table.WithColumns(pageColumns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
		table.WithStyles(tableStyles()),
	)
	b.WriteString(t.View() + "\n")

	for _, fs := range summaries {
		line := fmt.Sprintf("%s %s  %s %d  %s %d",
			LabelStyle.Render("file:"), fs.Path,
			LabelStyle.Render("pages:"), len(fs.Pages),
			LabelStyle.Render("tuples:"), fs.NumTuples())
		b.WriteString(line + "\n")
	}
	return b.String()
}
