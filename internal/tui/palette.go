package tui

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/bankdesk/internal/view"
)

// maxJumpDistance bounds the edit distance for a typo'd query to still match.
const maxJumpDistance = 3

type jumpItem struct {
	entry view.Entry
}

func (i jumpItem) Title() string { return i.entry.Label }
func (i jumpItem) Description() string {
	if i.entry.Read {
		return "fetch into the system log"
	}
	if i.entry.Nav == view.NavLogout {
		return "return to the login screen"
	}
	return "open the " + i.entry.Label + " form"
}
func (i jumpItem) FilterValue() string { return i.entry.Label + " " + string(i.entry.Nav) }

// Palette is the ":" jump list over the sidebar entries.
type Palette struct {
	entries []view.Entry
	input   textinput.Model
	list    list.Model
}

func NewPalette(entries []view.Entry) *Palette {
	inp := textinput.New()
	inp.Placeholder = "Jump to"
	inp.Prompt = ": "
	inp.Focus()
	lst := list.New(nil, list.NewDefaultDelegate(), 48, 14)
	lst.SetShowTitle(false)
	lst.SetShowStatusBar(false)
	lst.SetFilteringEnabled(false)
	lst.SetShowHelp(false)
	p := &Palette{entries: entries, input: inp, list: lst}
	p.refresh()
	return p
}

// Matches ranks entries against query. Substring hits on the label or nav id
// come first in sidebar order, then entries within maxJumpDistance edits of
// the query, closest first.
func Matches(entries []view.Entry, query string) []view.Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return append([]view.Entry(nil), entries...)
	}
	type scored struct {
		entry view.Entry
		dist  int
		order int
	}
	var exact []view.Entry
	var near []scored
	for i, e := range entries {
		label := strings.ToLower(e.Label)
		id := string(e.Nav)
		if strings.Contains(label, q) || strings.Contains(id, q) {
			exact = append(exact, e)
			continue
		}
		d := levenshtein.ComputeDistance(q, label)
		if dn := levenshtein.ComputeDistance(q, id); dn < d {
			d = dn
		}
		if d <= maxJumpDistance {
			near = append(near, scored{entry: e, dist: d, order: i})
		}
	}
	sort.SliceStable(near, func(a, b int) bool {
		if near[a].dist != near[b].dist {
			return near[a].dist < near[b].dist
		}
		return near[a].order < near[b].order
	})
	for _, s := range near {
		exact = append(exact, s.entry)
	}
	return exact
}

func (p *Palette) refresh() {
	matches := Matches(p.entries, p.input.Value())
	items := make([]list.Item, 0, len(matches))
	for _, e := range matches {
		items = append(items, jumpItem{entry: e})
	}
	_ = p.list.SetItems(items)
	p.list.Select(0)
}

// Selected returns the highlighted entry.
func (p *Palette) Selected() (view.Entry, bool) {
	it, ok := p.list.SelectedItem().(jumpItem)
	if !ok {
		return view.Entry{}, false
	}
	return it.entry, true
}

// MoveCursor steps the highlight up (-1) or down (+1).
func (p *Palette) MoveCursor(dir int) {
	if dir < 0 {
		p.list.CursorUp()
	} else {
		p.list.CursorDown()
	}
}

// Update feeds typed keys to the query and re-ranks the list.
func (p *Palette) Update(msg tea.Msg) tea.Cmd {
	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.refresh()
	}
	return cmd
}

func (p *Palette) Query() string { return p.input.Value() }

func (p *Palette) View(width, height int) string {
	p.list.SetWidth(width)
	p.list.SetHeight(max(6, height-3))
	return titleStyle.Render("Jump") + "\n" + p.input.View() + "\n" + p.list.View()
}
