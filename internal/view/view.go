// Package view tracks which screen, auth form, dashboard widget and sidebar
// entry are visible. It holds no terminal state; the tui package renders it.
package view

// State is the top-level view.
type State string

const (
	Unauthenticated State = "auth"
	Dashboard       State = "dashboard"
)

// AuthMode selects the form shown while unauthenticated.
type AuthMode string

const (
	LoginFormVisible    AuthMode = "login"
	RegisterFormVisible AuthMode = "register"
)

// Widget identifies a dashboard panel.
type Widget string

const (
	SystemLog     Widget = "system-log"
	CreateAccount Widget = "create-account"
	Deposit       Widget = "deposit"
	Withdraw      Widget = "withdraw"
	Transfer      Widget = "transfer"
	UpdateAccount Widget = "update-account"
	DeleteAccount Widget = "delete-account"
	ViewAccount   Widget = "view-account"
)

// Widgets is the closed set of registered panels.
func Widgets() []Widget {
	return []Widget{SystemLog, CreateAccount, Deposit, Withdraw, Transfer, UpdateAccount, DeleteAccount, ViewAccount}
}

// Nav identifies a sidebar control.
type Nav string

const (
	NavNone              Nav = ""
	NavDisplayAccounts   Nav = "display-accounts"
	NavDisplayBlockchain Nav = "display-blockchain"
	NavValidateChain     Nav = "validate-chain"
	NavCreateAccount     Nav = "create-account"
	NavDeposit           Nav = "deposit"
	NavWithdraw          Nav = "withdraw"
	NavTransfer          Nav = "transfer"
	NavUpdateAccount     Nav = "update-account"
	NavDeleteAccount     Nav = "delete-account"
	NavViewAccount       Nav = "view-account"
	NavLogout            Nav = "logout"
)

// Entry is one sidebar control. Target is the widget it reveals; read
// actions and logout reveal the system log.
type Entry struct {
	Nav    Nav
	Label  string
	Target Widget
	Read   bool
}

// Sidebar lists the sidebar controls in display order.
func Sidebar() []Entry {
	return []Entry{
		{Nav: NavDisplayAccounts, Label: "Display Accounts", Target: SystemLog, Read: true},
		{Nav: NavDisplayBlockchain, Label: "Display Blockchain", Target: SystemLog, Read: true},
		{Nav: NavValidateChain, Label: "Validate Chain", Target: SystemLog, Read: true},
		{Nav: NavCreateAccount, Label: "Create Account", Target: CreateAccount},
		{Nav: NavDeposit, Label: "Deposit", Target: Deposit},
		{Nav: NavWithdraw, Label: "Withdraw", Target: Withdraw},
		{Nav: NavTransfer, Label: "Transfer", Target: Transfer},
		{Nav: NavUpdateAccount, Label: "Update Account", Target: UpdateAccount},
		{Nav: NavDeleteAccount, Label: "Delete Account", Target: DeleteAccount},
		{Nav: NavViewAccount, Label: "View Account", Target: ViewAccount},
		{Nav: NavLogout, Label: "Logout", Target: SystemLog},
	}
}

// Selection pairs the visible widget with the marked sidebar control. The two
// only ever change together.
type Selection struct {
	Widget Widget
	Nav    Nav
}

// Notice is the auth screen's message line.
type Notice struct {
	Text    string
	IsError bool
}
