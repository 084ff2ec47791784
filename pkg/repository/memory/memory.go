package memory

import (
	"github.com/secmon-lab/gitpoke/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	user   *userRepository
	poke   *pokeEventRepository
	tokens *tokenStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		user:   newUserRepository(),
		poke:   newPokeEventRepository(),
		tokens: newTokenStore(),
	}
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) PokeEvent() interfaces.PokeEventRepository {
	return m.poke
}

func (m *Memory) Close() error {
	return nil
}
