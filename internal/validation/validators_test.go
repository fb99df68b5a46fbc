package validation

import (
	"strings"
	"testing"
)

// TestNoSpecialChars tests the name validator
func TestNoSpecialChars(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"Valid: plain name", "Bob", ""},
		{"Valid: with space", "Bob Smith", ""},
		{"Valid: empty", "", ""},
		{"Valid: hyphen and dot", "Jean-Luc O.", ""},
		{"Invalid: exclamation", "Bob!", MsgSpecialChars},
		{"Invalid: backslash", `a\b`, MsgSpecialChars},
		{"Invalid: backtick", "a`b", MsgSpecialChars},
		{"Invalid: underscore", "first_last", MsgSpecialChars},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NoSpecialChars(tt.value); got != tt.want {
				t.Errorf("NoSpecialChars(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

// TestNoSpecialChars_EveryCharacter checks each character of the set on its own
// and embedded in otherwise valid text
func TestNoSpecialChars_EveryCharacter(t *testing.T) {
	for _, c := range SpecialChars {
		for _, value := range []string{string(c), "abc" + string(c), string(c) + "xyz", "a " + string(c) + " b"} {
			if got := NoSpecialChars(value); got != MsgSpecialChars {
				t.Errorf("NoSpecialChars(%q) = %q, want %q", value, got, MsgSpecialChars)
			}
		}
	}
}

// TestRequiredText tests the required text validator
func TestRequiredText(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"", MsgTextRequired},
		{" ", MsgTextRequired},
		{"\t\n  ", MsgTextRequired},
		{"a", ""},
		{"  Bob!  ", ""},
	}

	for _, tt := range tests {
		if got := RequiredText(tt.value); got != tt.want {
			t.Errorf("RequiredText(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

// TestEmail tests the email shape validator
func TestEmail(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"a@b.c", false},
		{"user.name@example.co.uk", false},
		{"x+tag@sub.domain.org", false},
		{"a@b", true},
		{"", true},
		{"@b.c", true},
		{"a@.c", true},
		{"a@b.", true},
		{"a b@c.d", true},
		{"a@b c.d", true},
		{"a@@b.c", true},
		{"a@b@c.d", true},
		{"plainaddress", true},
	}

	for _, tt := range tests {
		got := Email(tt.value)
		if (got != "") != tt.wantErr {
			t.Errorf("Email(%q) = %q, wantErr %v", tt.value, got, tt.wantErr)
		}
		if tt.wantErr && got != MsgInvalidEmail {
			t.Errorf("Email(%q) message = %q, want %q", tt.value, got, MsgInvalidEmail)
		}
	}
}

// TestPassword tests the password validator
func TestPassword(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"Valid: example", "abc123!", false},
		{"Valid: minimum length", "a1!bcd", false},
		{"Valid: maximum length", "abcdefghij123!@#", false},
		{"Valid: only digits and symbols", "123!@#", false},
		{"Invalid: no symbol", "abc123", true},
		{"Invalid: no digit", "abcdef!", true},
		{"Invalid: too short", "a1!", true},
		{"Invalid: too long", "abcdefghij1234!@#", true},
		{"Invalid: disallowed symbol", "abc123!?", true},
		{"Invalid: space", "abc 123!", true},
		{"Invalid: non-ASCII letter", "äbc123!", true},
		{"Invalid: empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Password(tt.value)
			if (got != "") != tt.wantErr {
				t.Errorf("Password(%q) = %q, wantErr %v", tt.value, got, tt.wantErr)
			}
		})
	}
}

// TestPassword_RemovingRequiredClass strips each required class from valid
// passwords and expects the validator to fail
func TestPassword_RemovingRequiredClass(t *testing.T) {
	valid := []string{"abc123!", "Passw0rd#", "9&zzzzzz", "A1!a1!a1!a1!"}

	for _, pw := range valid {
		if msg := Password(pw); msg != "" {
			t.Fatalf("Password(%q) = %q, want valid", pw, msg)
		}

		noDigits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return 'x'
			}
			return r
		}, pw)
		if Password(noDigits) == "" {
			t.Errorf("Password(%q) without digits should fail", noDigits)
		}

		noSymbols := strings.Map(func(r rune) rune {
			if strings.ContainsRune(PasswordSymbols, r) {
				return 'x'
			}
			return r
		}, pw)
		if Password(noSymbols) == "" {
			t.Errorf("Password(%q) without symbols should fail", noSymbols)
		}
	}
}

func TestChain(t *testing.T) {
	fn := Chain(RequiredText, nil, NoSpecialChars)

	if got := fn("  "); got != MsgTextRequired {
		t.Errorf("Chain()(blank) = %q, want %q", got, MsgTextRequired)
	}
	if got := fn("Bob!"); got != MsgSpecialChars {
		t.Errorf("Chain()(Bob!) = %q, want %q", got, MsgSpecialChars)
	}
	if got := fn("Bob"); got != "" {
		t.Errorf("Chain()(Bob) = %q, want valid", got)
	}
}
