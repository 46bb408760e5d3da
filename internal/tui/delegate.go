package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/rate/internal/board"
	"github.com/idilsaglam/rate/internal/model"
	"github.com/idilsaglam/rate/internal/ui"
)

const titleWidth = 24

// seasonItem adapts a Season to bubbles/list.Item
type seasonItem struct {
	season model.Season
}

func (i seasonItem) Title() string       { return i.season.Title }
func (i seasonItem) Description() string { return "" }
func (i seasonItem) FilterValue() string { return i.season.Title }

// Custom delegate to control how rows render (single line)
type rowDelegate struct {
	board *board.Board
}

func (d rowDelegate) Height() int                               { return 1 }
func (d rowDelegate) Spacing() int                              { return 0 }
func (d rowDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(seasonItem)
	if !ok {
		return
	}
	t := ui.Current()
	value, _ := d.board.Rating(it.season.ID)
	saved := d.board.Saved()[it.season.ID]

	mark := t.SymClean
	if value != saved {
		mark = t.Pending.Render(t.SymDirty)
	}
	title := fmt.Sprintf("%2d. %-*s", it.season.Position, titleWidth, truncate(it.season.Title, titleWidth))
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render(">") + " "
		title = t.Title.Render(title)
	}
	fmt.Fprintf(w, "%s%s %s %s", prefix, title, ui.Meter(value, 20), mark)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
