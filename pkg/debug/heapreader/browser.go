package heapreader

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// pageRef locates a table row's page inside the summaries.
type pageRef struct {
	file int
	page int
}

type browserModel struct {
	summaries []FileSummary
	refs      []pageRef
	table     table.Model
	width     int
	height    int
}

const maxDetailRows = 10

func newBrowserModel(summaries []FileSummary) browserModel {
	var refs []pageRef
	for fi, fs := range summaries {
		for pi := range fs.Pages {
			refs = append(refs, pageRef{file: fi, page: pi})
		}
	}

	t := table.New(
		table.WithColumns(pageColumns),
		table.WithRows(pageRows(summaries)),
		table.WithFocused(true),
		table.WithHeight(min(len(refs)+1, 15)),
		table.WithStyles(tableStyles()),
	)

	return browserModel{
		summaries: summaries,
		refs:      refs,
		table:     t,
	}
}

func (m browserModel) Init() tea.Cmd {
	return nil
}

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			m.table.MoveUp(1)
			return m, nil
		case key.Matches(msg, keys.Down):
			m.table.MoveDown(1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// selected returns the file and page under the cursor.
func (m browserModel) selected() (FileSummary, PageSummary, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.refs) {
		return FileSummary{}, PageSummary{}, false
	}
	ref := m.refs[cursor]
	fs := m.summaries[ref.file]
	return fs, fs.Pages[ref.page], true
}

func (m browserModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Heap Page Browser") + "\n")

	if len(m.refs) == 0 {
		b.WriteString("No pages to show.\n")
		b.WriteString(HelpStyle.Render("q: quit"))
		return b.String()
	}

	b.WriteString(m.table.View() + "\n")
	b.WriteString(m.renderDetail())
	b.WriteString(HelpStyle.Render("↑/↓: navigate pages | q: quit") + "\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m browserModel) renderDetail() string {
	fs, ps, ok := m.selected()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf(" page %d: %d/%d slots used ", ps.PageNo, ps.UsedSlots, ps.NumSlots)) + "\n")
	b.WriteString(LabelStyle.Render(strings.Join(fs.Columns, " | ")) + "\n")
	for i, row := range ps.Rows {
		if i == maxDetailRows {
			b.WriteString(fmt.Sprintf("... %d more\n", len(ps.Rows)-maxDetailRows))
			break
		}
		b.WriteString(strings.Join(row, " | ") + "\n")
	}
	return DetailStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

func (m browserModel) renderStatusBar() string {
	fs, ps, ok := m.selected()
	if !ok {
		return ""
	}
	return StatusBarStyle.Render(fmt.Sprintf(" %s | Page %d | Row %d/%d ", fs.Path, ps.PageNo, m.table.Cursor()+1, len(m.refs)))
}

// Browse runs the interactive page browser until the user quits or ctx ends.
func Browse(ctx context.Context, summaries []FileSummary) error {
	p := tea.NewProgram(newBrowserModel(summaries), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
