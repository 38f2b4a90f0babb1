// Package validate holds the client-side checks applied to registration
// input before any request is sent.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf16"
)

const (
	MsgIdentifier      = "User ID must be between 6 and 9 digits."
	MsgPasswordLength  = "Password must be more than 8 characters."
	MsgPasswordUpper   = "Password must contain an uppercase letter."
	MsgPasswordLower   = "Password must contain a lowercase letter."
	MsgPasswordDigit   = "Password must contain a digit."
	MsgPasswordSymbol  = "Password must contain a special symbol (!@#$%^&*)."
	passwordSymbols    = "!@#$%^&*"
	passwordMinExclude = 8
)

var identifierPattern = regexp.MustCompile(`^[0-9]{6,9}$`)

// Identifier returns MsgIdentifier unless value is 6 to 9 ASCII digits.
func Identifier(value string) string {
	if !identifierPattern.MatchString(value) {
		return MsgIdentifier
	}
	return ""
}

type passwordCheck struct {
	ok  func(string) bool
	msg string
}

// Order matters: the first failing check is reported. Length counts UTF-16
// code units, so a character outside the BMP counts twice.
var passwordChecks = []passwordCheck{
	{func(s string) bool { return len(utf16.Encode([]rune(s))) > passwordMinExclude }, MsgPasswordLength},
	{func(s string) bool { return containsRange(s, 'A', 'Z') }, MsgPasswordUpper},
	{func(s string) bool { return containsRange(s, 'a', 'z') }, MsgPasswordLower},
	{func(s string) bool { return containsRange(s, '0', '9') }, MsgPasswordDigit},
	{func(s string) bool { return strings.ContainsAny(s, passwordSymbols) }, MsgPasswordSymbol},
}

// Password returns the message of the first failing password rule, or "".
func Password(value string) string {
	for _, c := range passwordChecks {
		if !c.ok(value) {
			return c.msg
		}
	}
	return ""
}

func containsRange(s string, lo, hi rune) bool {
	for _, r := range s {
		if r >= lo && r <= hi {
			return true
		}
	}
	return false
}

// Violations maps a form field name to its inline error text.
type Violations map[string]string

// OK reports whether no field failed.
func (v Violations) OK() bool { return len(v) == 0 }

// Registration applies Identifier to "id" and Password to "password".
func Registration(fields map[string]string) Violations {
	out := Violations{}
	if msg := Identifier(fields["id"]); msg != "" {
		out["id"] = msg
	}
	if msg := Password(fields["password"]); msg != "" {
		out["password"] = msg
	}
	return out
}
