package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Username is a validated GitHub login name. The zero value is invalid;
// ParseUsername is the only construction point.
type Username string

const maxUsernameLength = 39

// ParseUsername validates s against GitHub username rules:
// 1-39 characters, ASCII alphanumerics and hyphens only, no leading,
// trailing or consecutive hyphens.
func ParseUsername(s string) (Username, error) {
	if s == "" {
		return "", goerr.New("username must not be empty")
	}
	if len(s) > maxUsernameLength {
		return "", goerr.New("username is too long", goerr.V("username", s), goerr.V("length", len(s)))
	}
	if strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		return "", goerr.New("username must not start or end with a hyphen", goerr.V("username", s))
	}
	if strings.Contains(s, "--") {
		return "", goerr.New("username must not contain consecutive hyphens", goerr.V("username", s))
	}
	for _, c := range s {
		if !isUsernameChar(c) {
			return "", goerr.New("username contains invalid character", goerr.V("username", s), goerr.V("char", string(c)))
		}
	}

	return Username(s), nil
}

func isUsernameChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '-':
		return true
	default:
		return false
	}
}

// String returns the string representation of the username
func (u Username) String() string {
	return string(u)
}

// IsValid reports whether the username satisfies the GitHub format rules
func (u Username) IsValid() bool {
	_, err := ParseUsername(string(u))
	return err == nil
}
