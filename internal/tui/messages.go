package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/bankdesk/internal/pipeline"
	"github.com/jask/bankdesk/internal/view"
)

type submitDoneMsg struct {
	token   pipeline.Token
	widget  view.Widget
	outcome pipeline.Outcome
}

type fetchDoneMsg struct {
	token pipeline.Token
	text  string
}

type authDoneMsg struct {
	mode    view.AuthMode
	outcome pipeline.AuthOutcome
}

// Each command makes exactly one request. Field maps are built before the
// command is returned so later edits to the form do not leak into it.

func (a *App) submitCmd(tok pipeline.Token, w view.Widget, op pipeline.Operation, fields map[string]string) tea.Cmd {
	return func() tea.Msg {
		return submitDoneMsg{token: tok, widget: w, outcome: a.pipe.Submit(a.ctx, op, fields)}
	}
}

func (a *App) fetchCmd(tok pipeline.Token, r pipeline.ReadAction) tea.Cmd {
	return func() tea.Msg {
		return fetchDoneMsg{token: tok, text: a.pipe.Fetch(a.ctx, r)}
	}
}

func (a *App) authCmd(mode view.AuthMode, fields map[string]string) tea.Cmd {
	return func() tea.Msg {
		if mode == view.RegisterFormVisible {
			return authDoneMsg{mode: mode, outcome: a.pipe.Register(a.ctx, fields)}
		}
		return authDoneMsg{mode: mode, outcome: a.pipe.Login(a.ctx, fields)}
	}
}
