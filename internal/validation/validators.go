package validation

import (
	"regexp"
	"strings"
)

// Error messages reported by the built-in validators.
const (
	MsgSpecialChars  = "Special characters are not allowed"
	MsgTextRequired  = "Text Input is required"
	MsgInvalidEmail  = "Invalid Email"
	MsgInvalidPasswd = "Password must be 6-16 characters long and contain at least one digit and one special character"
)

// SpecialChars is the set of characters rejected by NoSpecialChars.
const SpecialChars = "!@#$%^&*()_+\\|}]{[:\"><?';~`"

// PasswordSymbols are the symbols a password may contain. At least one is required.
const PasswordSymbols = "!@#$%^&*"

const (
	passwordMinLen = 6
	passwordMaxLen = 16
)

// Func validates a raw field value and returns an error message, or "" when
// the value is valid.
type Func func(value string) string

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NoSpecialChars fails if the value contains any character from SpecialChars.
func NoSpecialChars(value string) string {
	if strings.ContainsAny(value, SpecialChars) {
		return MsgSpecialChars
	}
	return ""
}

// RequiredText fails when the value is empty after trimming whitespace.
func RequiredText(value string) string {
	if strings.TrimSpace(value) == "" {
		return MsgTextRequired
	}
	return ""
}

// Email fails unless the value has the local@domain.tld shape: non-whitespace
// before the @, non-whitespace between the @ and a literal dot, and
// non-whitespace after it. Only a single @ is allowed.
func Email(value string) string {
	if !emailPattern.MatchString(value) {
		return MsgInvalidEmail
	}
	return ""
}

// Password fails unless the value is 6-16 characters drawn from ASCII
// letters, digits and PasswordSymbols, with at least one digit and at least
// one symbol.
//
// Go's regexp has no lookahead, so the character classes are checked by hand.
func Password(value string) string {
	if len(value) < passwordMinLen || len(value) > passwordMaxLen {
		return MsgInvalidPasswd
	}

	var hasDigit, hasSymbol bool
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c >= '0' && c <= '9':
			hasDigit = true
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case strings.IndexByte(PasswordSymbols, c) >= 0:
			hasSymbol = true
		default:
			return MsgInvalidPasswd
		}
	}

	if !hasDigit || !hasSymbol {
		return MsgInvalidPasswd
	}
	return ""
}

// Chain runs validators in order and returns the first failure.
func Chain(fns ...Func) Func {
	return func(value string) string {
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			if msg := fn(value); msg != "" {
				return msg
			}
		}
		return ""
	}
}
