package view

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMachineStartsOnLogin(t *testing.T) {
	m := NewMachine()
	require.Equal(t, Unauthenticated, m.State())
	require.Equal(t, LoginFormVisible, m.AuthMode())
	require.Empty(t, m.VisibleWidgets(), "no widget is on screen before login")
	require.Equal(t, SystemLog, m.Selection().Widget)
}

func TestEnterDashboardSelectsSystemLog(t *testing.T) {
	for _, w := range Widgets() {
		m := NewMachine()
		m.EnterDashboard()
		m.SelectWidget(w, Nav(w))
		m.EnterAuth()
		m.EnterDashboard()
		require.Equal(t, Selection{Widget: SystemLog, Nav: NavDisplayAccounts}, m.Selection(), "prior widget %s", w)
		require.Equal(t, []Widget{SystemLog}, m.VisibleWidgets())
		require.True(t, m.NavActive(NavDisplayAccounts))
	}
}

func TestEnterDashboardWithoutDefaultNavClearsMarker(t *testing.T) {
	m := NewMachine(WithoutNav(NavDisplayAccounts))
	m.EnterDashboard()
	require.Equal(t, SystemLog, m.Selection().Widget)
	for _, e := range Sidebar() {
		require.False(t, m.NavActive(e.Nav), e.Nav)
	}
}

func TestSelectWidgetPairs(t *testing.T) {
	for _, x := range Widgets() {
		for _, y := range Widgets() {
			if x == y {
				continue
			}
			m := NewMachine()
			m.EnterDashboard()
			m.SelectWidget(x, Nav(x))
			m.SelectWidget(y, Nav(y))
			require.Equal(t, []Widget{y}, m.VisibleWidgets(), "%s then %s", x, y)
			for _, w := range Widgets() {
				require.Equal(t, w == y, m.WidgetVisible(w))
			}
		}
	}
}

func TestSelectWidgetMarksExactlyOneNav(t *testing.T) {
	m := NewMachine()
	m.EnterDashboard()
	m.SelectWidget(Deposit, NavDeposit)
	active := 0
	for _, e := range Sidebar() {
		if m.NavActive(e.Nav) {
			active++
			require.Equal(t, NavDeposit, e.Nav)
		}
	}
	require.Equal(t, 1, active)
}

func TestSelectUnknownWidgetHidesAll(t *testing.T) {
	m := NewMachine()
	m.EnterDashboard()
	m.SelectWidget(Widget("does-not-exist"), NavNone)
	require.Empty(t, m.VisibleWidgets())
}

func TestSelectWidgetIgnoredWhileUnauthenticated(t *testing.T) {
	m := NewMachine()
	m.SelectWidget(Deposit, NavDeposit)
	require.Equal(t, SystemLog, m.Selection().Widget)
	require.False(t, m.NavActive(NavDeposit))
}

func TestShowSystemLogKeepsMarker(t *testing.T) {
	m := NewMachine()
	m.EnterDashboard()
	m.SelectWidget(Transfer, NavTransfer)
	m.ShowSystemLog()
	require.Equal(t, Selection{Widget: SystemLog, Nav: NavTransfer}, m.Selection())
}

func TestAuthModeSwitchesClearNotice(t *testing.T) {
	m := NewMachine()
	m.SetNotice("Login failed. Check credentials.", true)
	m.SwitchToRegister()
	require.Equal(t, RegisterFormVisible, m.AuthMode())
	require.Empty(t, m.Notice().Text)

	m.SetNotice("x", false)
	m.SwitchToLogin()
	require.Equal(t, LoginFormVisible, m.AuthMode())
	require.Empty(t, m.Notice().Text)
}

func TestLogoutKeepsAuthMode(t *testing.T) {
	m := NewMachine()
	m.SwitchToRegister()
	m.EnterDashboard()
	m.EnterAuth()
	require.Equal(t, Unauthenticated, m.State())
	require.Equal(t, RegisterFormVisible, m.AuthMode())
}

func TestAuthModeSwitchIgnoredOnDashboard(t *testing.T) {
	m := NewMachine()
	m.EnterDashboard()
	m.SwitchToRegister()
	require.Equal(t, LoginFormVisible, m.AuthMode())
}
