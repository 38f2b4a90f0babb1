package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/bankdesk/internal/view"
)

const (
	appName      = "bankdesk"
	sidebarWidth = 24
	authWidth    = 56
)

func (a *App) View() string {
	var body, scope string
	switch {
	case a.machine.State() == view.Unauthenticated:
		body, scope = a.renderAuth(), a.authScope()
	case a.palette != nil:
		body, scope = a.renderDashboard(), scopePalette
	case a.focus == focusForm:
		body, scope = a.renderDashboard(), scopeForm
	default:
		body, scope = a.renderDashboard(), scopeSidebar
	}
	return a.renderHeader() + "\n" + body + "\n" + a.renderFooter(a.keys.HelpBindings(scope))
}

func (a *App) renderHeader() string {
	line := headerAppStyle.Render(appName) + "  " + hintStyle.Render(a.cfg.Server.BaseURL)
	if a.inflight > 0 {
		line += "  " + hintStyle.Render(fmt.Sprintf("(%d pending)", a.inflight))
	}
	if a.width <= 0 {
		return headerBarStyle.Render(line)
	}
	return headerBarStyle.Width(a.width).Render(line)
}

func (a *App) renderAuth() string {
	form := a.authForm()
	other := "ctrl+r: create an account"
	if a.machine.AuthMode() == view.RegisterFormVisible {
		other = "ctrl+l: back to login"
	}
	lines := []string{form.View(authWidth - 4), ""}
	if n := a.machine.Notice(); n.Text != "" {
		style := successStyle
		if n.IsError {
			style = errorStyle
		}
		lines = append(lines, style.Render(truncate(n.Text, authWidth-4)), "")
	}
	lines = append(lines, hintStyle.Render(other))
	box := focusedBoxStyle.Width(authWidth).Render(strings.Join(lines, "\n"))
	if a.width <= 0 {
		return box
	}
	return lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box)
}

func (a *App) renderDashboard() string {
	side := a.renderSidebar()
	mainWidth := a.mainWidth()
	var main string
	switch {
	case a.palette != nil:
		main = modalStyle.Width(mainWidth).Render(a.palette.View(mainWidth-4, a.bodyHeight()-2))
	default:
		style := boxStyle
		if a.focus == focusForm {
			style = focusedBoxStyle
		}
		main = style.Width(mainWidth).Render(a.renderWidget(mainWidth - 4))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, side, main)
}

func (a *App) renderSidebar() string {
	lines := make([]string, 0, len(a.entries)+2)
	lines = append(lines, titleStyle.Render("Actions"), sepStyle.Render(strings.Repeat("─", sidebarWidth-4)))
	for i, e := range a.entries {
		style := navStyle
		switch {
		case e.Read:
			style = navReadStyle
		case e.Nav == view.NavLogout:
			style = navLogoutStyle
		}
		if a.machine.NavActive(e.Nav) {
			style = navActiveStyle
		}
		prefix := "  "
		if i == a.cursor && a.focus == focusSidebar && a.palette == nil {
			prefix = navCursorStyle.Render("› ")
		}
		label := truncate(e.Label, sidebarWidth-6)
		if a.machine.NavActive(e.Nav) {
			label = selectedBg.Render(label)
		}
		lines = append(lines, prefix+style.Render(label))
	}
	style := boxStyle
	if a.focus == focusSidebar && a.palette == nil {
		style = focusedBoxStyle
	}
	return style.Width(sidebarWidth).Render(strings.Join(lines, "\n"))
}

// renderWidget draws the one visible widget. An unknown selection draws
// nothing.
func (a *App) renderWidget(width int) string {
	visible := a.machine.VisibleWidgets()
	if len(visible) == 0 {
		return ""
	}
	w := visible[0]
	if w == view.SystemLog {
		return a.renderOutput(width)
	}
	if f := a.forms[w]; f != nil {
		return f.View(width) + "\n\n" + hintStyle.Render("tab: form  esc: sidebar  enter on last field: submit")
	}
	return ""
}

func (a *App) renderOutput(width int) string {
	lines := splitLines(a.out.Text())
	height := a.outputHeight()
	if a.scroll > len(lines)-1 {
		a.scroll = max(0, len(lines)-1)
	}
	lines = lines[a.scroll:]
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	for i, l := range lines {
		lines[i] = outputStyle.Render(truncate(l, width))
	}
	return titleStyle.Render("System Log") + "\n" + strings.Join(lines, "\n")
}

func (a *App) renderFooter(bindings []key.Binding) string {
	bg := colorMantle
	keyStyle := helpKeyStyle.Background(bg)
	descStyle := helpDescStyle.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	content := strings.Join(parts, sep)
	if a.width <= 0 {
		return footerStyle.Render(content)
	}
	return footerStyle.Width(a.width).Render(truncate(content, a.width-4))
}

func (a *App) mainWidth() int {
	if a.width <= 0 {
		return 72
	}
	return max(30, a.width-sidebarWidth-2)
}

// bodyHeight is the space between header and footer.
func (a *App) bodyHeight() int {
	if a.height <= 0 {
		return 0
	}
	return max(8, a.height-2)
}

// outputHeight is how many output lines fit in the system log box. Zero
// means unbounded.
func (a *App) outputHeight() int {
	h := a.bodyHeight()
	if h == 0 {
		return 0
	}
	return max(3, h-3)
}

func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

// padRight pads s with spaces to the given visual width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
