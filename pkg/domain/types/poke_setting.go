package types

import "github.com/m-mizutani/goerr/v2"

// PokeSetting controls who may poke an account
type PokeSetting string

const (
	// PokeSettingAnyone accepts pokes from any GitHub user
	PokeSettingAnyone PokeSetting = "anyone"
	// PokeSettingFollowersOnly accepts pokes only from followers
	PokeSettingFollowersOnly PokeSetting = "followers_only"
	// PokeSettingMutualOnly accepts pokes only from mutual follows
	PokeSettingMutualOnly PokeSetting = "mutual_only"
	// PokeSettingDisabled refuses all pokes
	PokeSettingDisabled PokeSetting = "disabled"
)

// DefaultPokeSetting is applied to newly registered accounts
const DefaultPokeSetting = PokeSettingAnyone

// AllPokeSettings returns all valid poke settings
func AllPokeSettings() []PokeSetting {
	return []PokeSetting{
		PokeSettingAnyone,
		PokeSettingFollowersOnly,
		PokeSettingMutualOnly,
		PokeSettingDisabled,
	}
}

// IsValid checks if the poke setting is valid
func (s PokeSetting) IsValid() bool {
	switch s {
	case PokeSettingAnyone,
		PokeSettingFollowersOnly,
		PokeSettingMutualOnly,
		PokeSettingDisabled:
		return true
	default:
		return false
	}
}

// IsEnabled reports whether pokes are accepted at all under this setting
func (s PokeSetting) IsEnabled() bool {
	return s != PokeSettingDisabled
}

// String returns the string representation of the poke setting
func (s PokeSetting) String() string {
	return string(s)
}

// ParsePokeSetting parses a string into a PokeSetting
func ParsePokeSetting(s string) (PokeSetting, error) {
	setting := PokeSetting(s)
	if !setting.IsValid() {
		return "", goerr.New("invalid poke setting", goerr.V("setting", s))
	}
	return setting, nil
}
