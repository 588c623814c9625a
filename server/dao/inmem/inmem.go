// Package inmem provides a dao.Store that keeps everything in memory and is
// lost when the server stops.
package inmem

import (
	"errors"

	"github.com/dekarrin/chomsky/server/dao"
)

type store struct {
	users    *UsersRepository
	grammars *GrammarsRepository
}

func NewDatastore() dao.Store {
	return &store{
		users:    NewUsersRepository(),
		grammars: NewGrammarsRepository(),
	}
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Grammars() dao.GrammarRepository {
	return s.grammars
}

func (s *store) Close() error {
	return errors.Join(s.users.Close(), s.grammars.Close())
}
