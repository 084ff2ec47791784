package types

import "strconv"

// GitHubUserID is the numeric user identifier assigned by GitHub.
// Unlike the login name it never changes, so it is the stable key for
// accounts across renames.
type GitHubUserID int64

// String returns the decimal representation of the ID
func (id GitHubUserID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// IsValid reports whether the ID is a plausible GitHub user ID
func (id GitHubUserID) IsValid() bool {
	return id > 0
}
