// Package password holds the password complexity rules, the strength
// scorer shown to users while they type, and the bcrypt hasher.
package password

import (
	"strings"
	"unicode/utf8"
)

// MinLength is the minimum number of characters of an acceptable password.
const MinLength = 8

// Rule messages reported by ValidateComplexity.
const (
	MsgLength    = "Password must be at least 8 characters"
	MsgLowercase = "Password must contain at least one lowercase letter"
	MsgUppercase = "Password must contain at least one uppercase letter"
	MsgNumber    = "Password must contain at least one number"
	MsgSpecial   = "Password must contain at least one special character"
)

// Checks records which complexity rules a password satisfies.
type Checks struct {
	Length    bool `json:"length"`
	Lowercase bool `json:"lowercase"`
	Uppercase bool `json:"uppercase"`
	Number    bool `json:"number"`
	Special   bool `json:"special"`
}

// Passed reports whether every rule is satisfied.
func (c Checks) Passed() bool {
	return c.Length && c.Lowercase && c.Uppercase && c.Number && c.Special
}

func (c Checks) count() int {
	n := 0
	for _, ok := range []bool{c.Length, c.Lowercase, c.Uppercase, c.Number, c.Special} {
		if ok {
			n++
		}
	}
	return n
}

// Check evaluates each rule independently. Letters and digits are ASCII
// only; any other character counts as special.
func Check(pw string) Checks {
	c := Checks{Length: utf8.RuneCountInString(pw) >= MinLength}
	for _, r := range pw {
		switch {
		case r >= 'a' && r <= 'z':
			c.Lowercase = true
		case r >= 'A' && r <= 'Z':
			c.Uppercase = true
		case r >= '0' && r <= '9':
			c.Number = true
		default:
			c.Special = true
		}
	}
	return c
}

// ComplexityError lists every rule a password failed, in rule order.
type ComplexityError struct {
	Messages []string
}

func (e *ComplexityError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// ValidateComplexity returns a *ComplexityError unless pw satisfies every rule.
func ValidateComplexity(pw string) error {
	c := Check(pw)
	if c.Passed() {
		return nil
	}

	var msgs []string
	if !c.Length {
		msgs = append(msgs, MsgLength)
	}
	if !c.Lowercase {
		msgs = append(msgs, MsgLowercase)
	}
	if !c.Uppercase {
		msgs = append(msgs, MsgUppercase)
	}
	if !c.Number {
		msgs = append(msgs, MsgNumber)
	}
	if !c.Special {
		msgs = append(msgs, MsgSpecial)
	}
	return &ComplexityError{Messages: msgs}
}
