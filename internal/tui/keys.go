package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type Action string

type Binding struct {
	Action Action
	Keys   []string
	Help   string
	Scope  string
}

// KeyRegistry resolves key names to actions per input scope, falling back
// to the global scope.
type KeyRegistry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

const (
	scopeGlobal   = "global"
	scopeLogin    = "login"
	scopeRegister = "register"
	scopeSidebar  = "sidebar"
	scopeForm     = "form"
	scopePalette  = "palette"
)

const (
	actionQuit         Action = "quit"
	actionShowRegister Action = "show_register"
	actionShowLogin    Action = "show_login"
	actionNavigate     Action = "navigate"
	actionUp           Action = "up"
	actionDown         Action = "down"
	actionActivate     Action = "activate"
	actionFocusForm    Action = "focus_form"
	actionNextField    Action = "next_field"
	actionPrevField    Action = "prev_field"
	actionSubmit       Action = "submit"
	actionConfirm      Action = "confirm"
	actionBack         Action = "back"
	actionJump         Action = "jump"
	actionClose        Action = "close"
	actionScrollUp     Action = "scroll_up"
	actionScrollDown   Action = "scroll_down"
)

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}
	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(Binding{Action: action, Keys: keys, Help: help, Scope: scope})
	}

	reg(scopeGlobal, actionQuit, []string{"ctrl+c"}, "quit")

	// Auth forms take printable keys as text, so only ctrl chords bind here.
	for _, scope := range []string{scopeLogin, scopeRegister} {
		reg(scope, actionNextField, []string{"tab", "down"}, "next field")
		reg(scope, actionPrevField, []string{"shift+tab", "up"}, "prev field")
		reg(scope, actionConfirm, []string{"enter"}, "next/submit")
		reg(scope, actionSubmit, []string{"ctrl+s"}, "submit")
	}
	reg(scopeLogin, actionShowRegister, []string{"ctrl+r"}, "register")
	reg(scopeRegister, actionShowLogin, []string{"ctrl+l"}, "login")
	reg(scopeLogin, actionQuit, []string{"ctrl+c"}, "quit")
	reg(scopeRegister, actionQuit, []string{"ctrl+c"}, "quit")

	reg(scopeSidebar, actionUp, []string{"up", "k"}, "")
	reg(scopeSidebar, actionDown, []string{"down", "j"}, "")
	reg(scopeSidebar, actionNavigate, []string{"j/k"}, "navigate")
	reg(scopeSidebar, actionActivate, []string{"enter"}, "open")
	reg(scopeSidebar, actionFocusForm, []string{"tab"}, "form")
	reg(scopeSidebar, actionJump, []string{":"}, "jump")
	reg(scopeSidebar, actionScrollUp, []string{"pgup"}, "")
	reg(scopeSidebar, actionScrollDown, []string{"pgdown"}, "")
	reg(scopeSidebar, actionScrollDown, []string{"pgup/pgdn"}, "scroll")
	reg(scopeSidebar, actionQuit, []string{"q", "ctrl+c"}, "quit")

	reg(scopeForm, actionNextField, []string{"tab", "down"}, "next field")
	reg(scopeForm, actionPrevField, []string{"shift+tab", "up"}, "prev field")
	reg(scopeForm, actionConfirm, []string{"enter"}, "next/submit")
	reg(scopeForm, actionSubmit, []string{"ctrl+s"}, "submit")
	reg(scopeForm, actionBack, []string{"esc"}, "sidebar")

	reg(scopePalette, actionUp, []string{"up", "ctrl+p"}, "")
	reg(scopePalette, actionDown, []string{"down", "ctrl+n"}, "")
	reg(scopePalette, actionNavigate, []string{"↑/↓"}, "navigate")
	reg(scopePalette, actionActivate, []string{"enter"}, "open")
	reg(scopePalette, actionClose, []string{"esc"}, "close")

	return r
}

// Register adds b unless one of its keys is already bound in the scope.
func (r *KeyRegistry) Register(b Binding) {
	scope := strings.TrimSpace(b.Scope)
	if r == nil || scope == "" || len(b.Keys) == 0 {
		return
	}
	if _, ok := r.indexByScope[scope]; !ok {
		r.indexByScope[scope] = make(map[string]*Binding)
	}
	normKeys := normalizeKeyList(b.Keys)
	if len(normKeys) == 0 || r.scopeHasAnyKey(scope, normKeys) {
		return
	}
	copyBinding := b
	copyBinding.Keys = normKeys
	copyBinding.Scope = scope
	r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &copyBinding)
	for _, k := range copyBinding.Keys {
		r.indexByScope[scope][k] = &copyBinding
	}
}

func (r *KeyRegistry) Lookup(keyName, scope string) *Binding {
	if r == nil || keyName == "" {
		return nil
	}
	keyName = normalizeKeyName(keyName)
	if b := r.lookupInScope(keyName, scope); b != nil {
		return b
	}
	if scope != scopeGlobal {
		return r.lookupInScope(keyName, scopeGlobal)
	}
	return nil
}

// Action returns the action bound to keyName in scope, or "".
func (r *KeyRegistry) Action(keyName, scope string) Action {
	if b := r.Lookup(keyName, scope); b != nil {
		return b.Action
	}
	return ""
}

// HelpBindings returns the footer entries for scope. Bindings with no help
// text are matched but not shown.
func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	items := r.bindingsByScope[scope]
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		if b.Help == "" {
			continue
		}
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help)))
	}
	return out
}

func (r *KeyRegistry) lookupInScope(keyName, scope string) *Binding {
	lookup, ok := r.indexByScope[scope]
	if !ok {
		return nil
	}
	return lookup[keyName]
}

func (r *KeyRegistry) scopeHasAnyKey(scope string, keys []string) bool {
	lookup := r.indexByScope[scope]
	for _, k := range keys {
		if _, exists := lookup[k]; exists {
			return true
		}
	}
	return false
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) == 1 {
		// Single runes keep their case so "G" and "g" stay distinct.
		return trimmed
	}
	s := strings.ToLower(trimmed)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	return s
}
