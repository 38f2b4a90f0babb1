package pipeline

import (
	"github.com/jask/bankdesk/internal/api"
	"github.com/jask/bankdesk/internal/view"
)

// Field is one input of a form.
type Field struct {
	Name   string
	Label  string
	Secret bool
}

// Operation binds a dashboard form to its endpoint. Detail operations render
// an account record instead of the plain message.
type Operation struct {
	Widget   view.Widget
	Title    string
	Endpoint string
	Fields   []Field
	Detail   bool
}

var operations = []Operation{
	{
		Widget:   view.CreateAccount,
		Title:    "Create Account",
		Endpoint: api.EndpointCreateAccount,
		Fields: []Field{
			{Name: "id", Label: "Account ID"},
			{Name: "name", Label: "Name"},
			{Name: "phno", Label: "Phone"},
			{Name: "balance", Label: "Initial balance"},
		},
	},
	{
		Widget:   view.Deposit,
		Title:    "Deposit",
		Endpoint: api.EndpointDeposit,
		Fields:   []Field{{Name: "id", Label: "Account ID"}, {Name: "amount", Label: "Amount"}},
	},
	{
		Widget:   view.Withdraw,
		Title:    "Withdraw",
		Endpoint: api.EndpointWithdraw,
		Fields:   []Field{{Name: "id", Label: "Account ID"}, {Name: "amount", Label: "Amount"}},
	},
	{
		Widget:   view.Transfer,
		Title:    "Transfer",
		Endpoint: api.EndpointTransfer,
		Fields: []Field{
			{Name: "fromID", Label: "From account"},
			{Name: "toID", Label: "To account"},
			{Name: "amount", Label: "Amount"},
		},
	},
	{
		Widget:   view.UpdateAccount,
		Title:    "Update Account",
		Endpoint: api.EndpointUpdateAccount,
		Fields: []Field{
			{Name: "id", Label: "Account ID"},
			{Name: "name", Label: "New name"},
			{Name: "phno", Label: "New phone"},
		},
	},
	{
		Widget:   view.DeleteAccount,
		Title:    "Delete Account",
		Endpoint: api.EndpointDeleteAccount,
		Fields:   []Field{{Name: "id", Label: "Account ID"}},
	},
	{
		Widget:   view.ViewAccount,
		Title:    "View Account",
		Endpoint: api.EndpointViewAccount,
		Fields:   []Field{{Name: "id", Label: "Account ID"}},
		Detail:   true,
	},
}

// Operations returns the seven mutating dashboard operations.
func Operations() []Operation {
	out := make([]Operation, len(operations))
	copy(out, operations)
	return out
}

// OperationFor looks up the operation shown in widget w.
func OperationFor(w view.Widget) (Operation, bool) {
	for _, op := range operations {
		if op.Widget == w {
			return op, true
		}
	}
	return Operation{}, false
}

// ReadAction is a sidebar control that fetches into the system log.
type ReadAction struct {
	Nav         view.Nav
	Endpoint    string
	Placeholder string
	FailText    string
	// JSON actions render only the reply's message; others render the raw body.
	JSON bool
}

var reads = []ReadAction{
	{Nav: view.NavDisplayAccounts, Endpoint: api.EndpointAccounts, Placeholder: "Loading accounts...", FailText: "Error fetching accounts."},
	{Nav: view.NavDisplayBlockchain, Endpoint: api.EndpointBlockchain, Placeholder: "Loading blockchain...", FailText: "Error fetching blockchain."},
	{Nav: view.NavValidateChain, Endpoint: api.EndpointValidateChain, Placeholder: "Validating chain...", FailText: "Error validating chain.", JSON: true},
}

// Reads returns the read-only sidebar actions.
func Reads() []ReadAction {
	out := make([]ReadAction, len(reads))
	copy(out, reads)
	return out
}

// ReadFor looks up the read action behind sidebar control n.
func ReadFor(n view.Nav) (ReadAction, bool) {
	for _, r := range reads {
		if r.Nav == n {
			return r, true
		}
	}
	return ReadAction{}, false
}

// Auth form fields, shared by login and registration.
var AuthFields = []Field{
	{Name: "id", Label: "User ID"},
	{Name: "username", Label: "Username"},
	{Name: "password", Label: "Password", Secret: true},
}
