// Package fakebank is an in-memory stand-in for the remote banking service.
// It answers the same endpoints with the same form fields, status codes and
// messages so the client can be run and tested without the real backend.
package fakebank

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

var (
	ErrUserLimit     = errors.New("user limit reached")
	ErrBadLogin      = errors.New("credentials do not match")
	ErrAccountLimit  = errors.New("account limit reached")
	ErrAccountExists = errors.New("account id already exists")
	ErrNotFound      = errors.New("account not found")
	ErrSenderMissing = errors.New("sender account not found")
	ErrReceiverGone  = errors.New("receiver account not found")
	ErrBadAmount     = errors.New("amount must be > 0")
	ErrInsufficient  = errors.New("insufficient funds")
	ErrNothingToSet  = errors.New("no new data provided")
)

const (
	maxUsers    = 1000
	maxAccounts = 1000
)

// Account balances are kept in cents.
type Account struct {
	ID      int
	Name    string
	Phone   string
	Balance int64
}

type user struct {
	id       int
	username string
	password string
}

// Bank holds users, accounts and the ledger behind one mutex so every
// operation is serialised.
type Bank struct {
	mu       sync.Mutex
	users    []user
	accounts []*Account
	ledger   *Ledger
}

// NewBank returns an empty bank whose ledger holds only the genesis block.
// now stamps blocks and transactions; nil means time.Now.
func NewBank(now func() time.Time) *Bank {
	return &Bank{ledger: NewLedger(now)}
}

// Register adds a user. Duplicate ids are allowed, as in the service.
func (b *Bank) Register(id int, username, password string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.users) >= maxUsers {
		return ErrUserLimit
	}
	b.users = append(b.users, user{id: id, username: username, password: password})
	return nil
}

// Login checks id, username and password together.
func (b *Bank) Login(id int, username, password string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.id == id && u.username == username && u.password == password {
			return nil
		}
	}
	return ErrBadLogin
}

func (b *Bank) find(id int) *Account {
	for _, a := range b.accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Create opens an account. The initial balance is not recorded in the ledger.
func (b *Bank) Create(id int, name, phone string, balance int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.accounts) >= maxAccounts {
		return ErrAccountLimit
	}
	if b.find(id) != nil {
		return ErrAccountExists
	}
	b.accounts = append(b.accounts, &Account{ID: id, Name: name, Phone: phone, Balance: balance})
	return nil
}

// Get returns a copy of the account.
func (b *Bank) Get(id int) (Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a := b.find(id)
	if a == nil {
		return Account{}, ErrNotFound
	}
	return *a, nil
}

// Update sets the non-empty fields of name and phone.
func (b *Bank) Update(id int, name, phone string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	a := b.find(id)
	if a == nil {
		return ErrNotFound
	}
	if name == "" && phone == "" {
		return ErrNothingToSet
	}
	if name != "" {
		a.Name = name
	}
	if phone != "" {
		a.Phone = phone
	}
	return nil
}

// Delete removes the account, keeping the order of the rest.
func (b *Bank) Delete(id int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, a := range b.accounts {
		if a.ID == id {
			b.accounts = append(b.accounts[:i], b.accounts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Deposit credits the account and records a transaction from account 0.
func (b *Bank) Deposit(id int, cents int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	a := b.find(id)
	if a == nil {
		return ErrNotFound
	}
	if cents <= 0 {
		return ErrBadAmount
	}
	a.Balance += cents
	b.ledger.Record(0, a.ID, cents, "Deposit by "+a.Name)
	return nil
}

// Withdraw debits the account and records a transaction to account 0.
func (b *Bank) Withdraw(id int, cents int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	a := b.find(id)
	if a == nil {
		return ErrNotFound
	}
	if cents <= 0 {
		return ErrBadAmount
	}
	if cents > a.Balance {
		return ErrInsufficient
	}
	a.Balance -= cents
	b.ledger.Record(a.ID, 0, cents, "Withdrawal by "+a.Name)
	return nil
}

// Transfer moves cents between two accounts.
func (b *Bank) Transfer(fromID, toID int, cents int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	from := b.find(fromID)
	if from == nil {
		return ErrSenderMissing
	}
	to := b.find(toID)
	if to == nil {
		return ErrReceiverGone
	}
	if cents <= 0 || cents > from.Balance {
		return ErrInsufficient
	}
	from.Balance -= cents
	to.Balance += cents
	b.ledger.Record(fromID, toID, cents, fmt.Sprintf("Transfer %d->%d", fromID, toID))
	return nil
}

// Summary renders every account as text.
func (b *Bank) Summary() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.accounts) == 0 {
		return "No accounts found!\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n--- Accounts (%d) ---\n", len(b.accounts))
	for _, a := range b.accounts {
		fmt.Fprintf(&sb, "ID: %d, Name: %s, Phone: %s, Balance: $%s\n", a.ID, a.Name, a.Phone, formatCents(a.Balance))
	}
	return sb.String()
}

// Ledger exposes the bank's chain. Callers must not mutate it concurrently
// with bank operations.
func (b *Bank) Ledger() *Ledger { return b.ledger }

// LedgerText renders the chain under the bank lock.
func (b *Bank) LedgerText() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ledger.String()
}

// ValidateLedger checks the chain under the bank lock.
func (b *Bank) ValidateLedger() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ledger.Valid()
}

func formatCents(c int64) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}
