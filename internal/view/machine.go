package view

// Machine is the view/widget state machine. The zero value is not usable;
// call NewMachine.
type Machine struct {
	state      State
	authMode   AuthMode
	selection  Selection
	notice     Notice
	defaultNav Nav
	registered map[Widget]bool
	navPresent map[Nav]bool
}

// Option customises a Machine.
type Option func(*Machine)

// WithoutNav drops sidebar controls from the machine, as if they were never
// rendered. Used when a sidebar is configured without the default control.
func WithoutNav(navs ...Nav) Option {
	return func(m *Machine) {
		for _, n := range navs {
			delete(m.navPresent, n)
		}
	}
}

// NewMachine returns the startup state: unauthenticated, login form visible,
// system log selected with no sidebar marker.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		state:      Unauthenticated,
		authMode:   LoginFormVisible,
		selection:  Selection{Widget: SystemLog},
		defaultNav: NavDisplayAccounts,
		registered: make(map[Widget]bool),
		navPresent: make(map[Nav]bool),
	}
	for _, w := range Widgets() {
		m.registered[w] = true
	}
	for _, e := range Sidebar() {
		m.navPresent[e.Nav] = true
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) State() State         { return m.state }
func (m *Machine) AuthMode() AuthMode   { return m.authMode }
func (m *Machine) Selection() Selection { return m.selection }
func (m *Machine) Notice() Notice       { return m.notice }

// EnterDashboard shows the dashboard with the system log visible and the
// default sidebar control marked, or no marker if that control is absent.
func (m *Machine) EnterDashboard() {
	m.state = Dashboard
	nav := NavNone
	if m.navPresent[m.defaultNav] {
		nav = m.defaultNav
	}
	m.selection = Selection{Widget: SystemLog, Nav: nav}
}

// EnterAuth returns to the auth screen. The auth mode is left as it was.
func (m *Machine) EnterAuth() {
	m.state = Unauthenticated
}

// SelectWidget reveals id and marks nav in one step. It is a no-op outside the
// dashboard. An unregistered id leaves every widget hidden; an absent nav
// leaves every control unmarked.
func (m *Machine) SelectWidget(id Widget, nav Nav) {
	if m.state != Dashboard {
		return
	}
	if !m.navPresent[nav] {
		nav = NavNone
	}
	m.selection = Selection{Widget: id, Nav: nav}
}

// ShowSystemLog reveals the system log without moving the sidebar marker.
// Completed requests call this before rendering their outcome.
func (m *Machine) ShowSystemLog() {
	m.selection.Widget = SystemLog
}

// SwitchToRegister shows the register form and clears the auth message.
func (m *Machine) SwitchToRegister() {
	if m.state != Unauthenticated {
		return
	}
	m.authMode = RegisterFormVisible
	m.notice = Notice{}
}

// SwitchToLogin shows the login form and clears the auth message.
func (m *Machine) SwitchToLogin() {
	if m.state != Unauthenticated {
		return
	}
	m.authMode = LoginFormVisible
	m.notice = Notice{}
}

// SetNotice replaces the auth message.
func (m *Machine) SetNotice(text string, isError bool) {
	m.notice = Notice{Text: text, IsError: isError}
}

// ClearNotice empties the auth message.
func (m *Machine) ClearNotice() { m.notice = Notice{} }

// WidgetVisible reports whether w is the one registered widget on screen.
func (m *Machine) WidgetVisible(w Widget) bool {
	return m.state == Dashboard && m.registered[w] && m.selection.Widget == w
}

// NavActive reports whether n carries the active marker.
func (m *Machine) NavActive(n Nav) bool {
	return n != NavNone && m.state == Dashboard && m.selection.Nav == n
}

// VisibleWidgets returns the registered widgets currently on screen. It has at
// most one element.
func (m *Machine) VisibleWidgets() []Widget {
	var out []Widget
	for _, w := range Widgets() {
		if m.WidgetVisible(w) {
			out = append(out, w)
		}
	}
	return out
}
