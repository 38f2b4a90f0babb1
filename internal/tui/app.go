// Package tui is the terminal front end: the auth screen, the dashboard
// sidebar and its widgets, and the shared output area. All state changes
// happen in Update; requests run as tea.Cmds and report back as messages.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/jask/bankdesk/internal/config"
	"github.com/jask/bankdesk/internal/logging"
	"github.com/jask/bankdesk/internal/pipeline"
	"github.com/jask/bankdesk/internal/validate"
	"github.com/jask/bankdesk/internal/view"
)

type focusArea string

const (
	focusSidebar focusArea = "sidebar"
	focusForm    focusArea = "form"
)

// App is the root bubbletea model.
type App struct {
	ctx     context.Context
	cfg     config.Config
	machine *view.Machine
	pipe    *pipeline.Pipeline
	out     *pipeline.Output
	keys    *KeyRegistry
	log     *logrus.Entry

	login    *Form
	register *Form
	forms    map[view.Widget]*Form
	entries  []view.Entry
	cursor   int
	focus    focusArea
	palette  *Palette
	scroll   int
	inflight int

	width  int
	height int
}

func New(ctx context.Context, cfg config.Config, pipe *pipeline.Pipeline, log *logrus.Entry) *App {
	if log == nil {
		log = logging.Component(nil, "tui")
	}
	a := &App{
		ctx:      ctx,
		cfg:      cfg,
		machine:  view.NewMachine(),
		pipe:     pipe,
		out:      pipeline.NewOutput(cfg.UI.DropStaleResponses),
		keys:     NewKeyRegistry(),
		log:      log,
		login:    NewForm("Login", pipeline.AuthFields),
		register: NewForm("Register", pipeline.AuthFields),
		forms:    make(map[view.Widget]*Form),
		entries:  view.Sidebar(),
		focus:    focusSidebar,
	}
	for _, op := range pipeline.Operations() {
		a.forms[op.Widget] = NewForm(op.Title, op.Fields)
	}
	a.syncAuthFocus()
	return a
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		return a, nil
	case tea.KeyMsg:
		return a, a.handleKey(m)
	case submitDoneMsg:
		a.finishSubmit(m)
		return a, nil
	case fetchDoneMsg:
		a.finishFetch(m)
		return a, nil
	case authDoneMsg:
		return a, a.finishAuth(m)
	}
	return a, a.forward(msg)
}

// forward hands non-key messages, such as cursor blinks, to whichever input
// holds focus.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	switch {
	case a.machine.State() == view.Unauthenticated:
		return a.authForm().Update(msg)
	case a.palette != nil:
		return a.palette.Update(msg)
	case a.focus == focusForm:
		if f := a.currentForm(); f != nil {
			return f.Update(msg)
		}
	}
	return nil
}

func (a *App) handleKey(k tea.KeyMsg) tea.Cmd {
	if a.machine.State() == view.Unauthenticated {
		return a.handleAuthKey(k)
	}
	if a.palette != nil {
		return a.handlePaletteKey(k)
	}
	if a.focus == focusForm {
		return a.handleFormKey(k)
	}
	return a.handleSidebarKey(k)
}

func (a *App) authForm() *Form {
	if a.machine.AuthMode() == view.RegisterFormVisible {
		return a.register
	}
	return a.login
}

func (a *App) authScope() string {
	if a.machine.AuthMode() == view.RegisterFormVisible {
		return scopeRegister
	}
	return scopeLogin
}

// syncAuthFocus focuses the visible auth form and blurs the other.
func (a *App) syncAuthFocus() tea.Cmd {
	a.login.Blur()
	a.register.Blur()
	if a.machine.State() != view.Unauthenticated {
		return nil
	}
	return a.authForm().Focus()
}

func (a *App) handleAuthKey(k tea.KeyMsg) tea.Cmd {
	form := a.authForm()
	switch a.keys.Action(k.String(), a.authScope()) {
	case actionQuit:
		return tea.Quit
	case actionShowRegister:
		a.machine.SwitchToRegister()
		return a.syncAuthFocus()
	case actionShowLogin:
		a.machine.SwitchToLogin()
		return a.syncAuthFocus()
	case actionNextField:
		return form.Move(1)
	case actionPrevField:
		return form.Move(-1)
	case actionConfirm:
		if !form.OnLastField() {
			return form.Move(1)
		}
		return a.submitAuth()
	case actionSubmit:
		return a.submitAuth()
	}
	return form.Update(k)
}

// submitAuth validates a registration or sends a login. A registration that
// fails validation only shows inline errors.
func (a *App) submitAuth() tea.Cmd {
	mode := a.machine.AuthMode()
	a.machine.ClearNotice()
	if mode == view.RegisterFormVisible {
		a.register.ClearErrors()
		fields := a.register.Values()
		if v := validate.Registration(fields); !v.OK() {
			a.register.SetErrors(v)
			return nil
		}
		a.log.WithField("user_id", fields["id"]).Info("register")
		return a.authCmd(mode, fields)
	}
	fields := a.login.Values()
	a.log.WithField("user_id", fields["id"]).Info("login")
	return a.authCmd(mode, fields)
}

func (a *App) finishAuth(m authDoneMsg) tea.Cmd {
	if !m.outcome.Success {
		a.machine.SetNotice(m.outcome.Text, true)
		return nil
	}
	if m.mode == view.RegisterFormVisible {
		a.register.Clear()
		a.machine.SwitchToLogin()
		a.machine.SetNotice(m.outcome.Text, false)
		return a.syncAuthFocus()
	}
	a.machine.EnterDashboard()
	a.syncAuthFocus()
	a.focus = focusSidebar
	a.palette = nil
	a.cursor = a.indexOf(a.machine.Selection().Nav)
	a.setOutput(a.out.Begin(), m.outcome.Text)
	return nil
}

func (a *App) handleSidebarKey(k tea.KeyMsg) tea.Cmd {
	switch a.keys.Action(k.String(), scopeSidebar) {
	case actionQuit:
		return tea.Quit
	case actionUp:
		if a.cursor > 0 {
			a.cursor--
		}
	case actionDown:
		if a.cursor < len(a.entries)-1 {
			a.cursor++
		}
	case actionActivate:
		return a.activate(a.entries[a.cursor])
	case actionFocusForm:
		return a.focusCurrentForm()
	case actionJump:
		a.palette = NewPalette(a.entries)
	case actionScrollUp:
		a.scroll = max(0, a.scroll-a.outputHeight()/2)
	case actionScrollDown:
		a.scroll += a.outputHeight() / 2
	}
	return nil
}

// activate runs a sidebar entry: logout, a read into the system log, or
// opening a form.
func (a *App) activate(e view.Entry) tea.Cmd {
	a.cursor = a.indexOf(e.Nav)
	switch {
	case e.Nav == view.NavLogout:
		a.logout()
		return nil
	case e.Read:
		return a.fetch(e.Nav)
	default:
		a.machine.SelectWidget(e.Target, e.Nav)
		return a.focusCurrentForm()
	}
}

func (a *App) logout() {
	a.blurForms()
	a.focus = focusSidebar
	a.palette = nil
	a.machine.EnterAuth()
	a.machine.SetNotice(pipeline.LoggedOutText, false)
	a.syncAuthFocus()
	a.log.Info("logout")
}

func (a *App) fetch(nav view.Nav) tea.Cmd {
	r, ok := pipeline.ReadFor(nav)
	if !ok {
		return nil
	}
	a.blurForms()
	a.focus = focusSidebar
	a.machine.SelectWidget(view.SystemLog, nav)
	tok := a.out.Begin()
	a.setOutput(tok, r.Placeholder)
	a.inflight++
	return a.fetchCmd(tok, r)
}

func (a *App) finishFetch(m fetchDoneMsg) {
	a.inflight--
	a.showSystemLog()
	a.setOutput(m.token, m.text)
}

func (a *App) currentForm() *Form {
	return a.forms[a.machine.Selection().Widget]
}

func (a *App) focusCurrentForm() tea.Cmd {
	f := a.currentForm()
	if f == nil || !a.machine.WidgetVisible(a.machine.Selection().Widget) {
		return nil
	}
	a.focus = focusForm
	return f.Focus()
}

func (a *App) blurForms() {
	for _, f := range a.forms {
		f.Blur()
	}
}

func (a *App) handleFormKey(k tea.KeyMsg) tea.Cmd {
	w := a.machine.Selection().Widget
	form := a.forms[w]
	if form == nil {
		a.focus = focusSidebar
		return nil
	}
	switch a.keys.Action(k.String(), scopeForm) {
	case actionQuit:
		return tea.Quit
	case actionBack:
		form.Blur()
		a.focus = focusSidebar
		return nil
	case actionNextField:
		return form.Move(1)
	case actionPrevField:
		return form.Move(-1)
	case actionConfirm:
		if !form.OnLastField() {
			return form.Move(1)
		}
		return a.submit(w)
	case actionSubmit:
		return a.submit(w)
	}
	return form.Update(k)
}

// submit sends the widget's form as it stands. The outcome is rendered when
// the reply arrives, whatever the user has done in between.
func (a *App) submit(w view.Widget) tea.Cmd {
	op, ok := pipeline.OperationFor(w)
	if !ok {
		return nil
	}
	fields := a.forms[w].Values()
	tok := a.out.Begin()
	a.inflight++
	a.log.WithFields(logrus.Fields{"widget": string(w), "token": tok}).Debug("submit")
	return a.submitCmd(tok, w, op, fields)
}

func (a *App) finishSubmit(m submitDoneMsg) {
	a.inflight--
	a.showSystemLog()
	if !a.setOutput(m.token, m.outcome.Text) {
		a.log.WithField("token", m.token).Debug("stale outcome dropped")
	}
	if m.outcome.Success {
		if f := a.forms[m.widget]; f != nil {
			f.Clear()
		}
	}
}

func (a *App) showSystemLog() {
	a.machine.ShowSystemLog()
	if a.focus == focusForm {
		a.blurForms()
		a.focus = focusSidebar
	}
}

func (a *App) setOutput(tok pipeline.Token, text string) bool {
	if !a.out.Write(tok, text) {
		return false
	}
	a.scroll = 0
	return true
}

func (a *App) handlePaletteKey(k tea.KeyMsg) tea.Cmd {
	switch a.keys.Action(k.String(), scopePalette) {
	case actionQuit:
		return tea.Quit
	case actionClose:
		a.palette = nil
	case actionUp:
		a.palette.MoveCursor(-1)
	case actionDown:
		a.palette.MoveCursor(1)
	case actionActivate:
		e, ok := a.palette.Selected()
		a.palette = nil
		if ok {
			return a.activate(e)
		}
	default:
		return a.palette.Update(k)
	}
	return nil
}

func (a *App) indexOf(n view.Nav) int {
	for i, e := range a.entries {
		if e.Nav == n {
			return i
		}
	}
	return 0
}

// Output returns the text currently in the output area.
func (a *App) Output() string { return a.out.Text() }

// Machine exposes the view state for inspection.
func (a *App) Machine() *view.Machine { return a.machine }
