package inmem

import (
	"testing"

	"github.com/dekarrin/chomsky/server/dao"
	"github.com/dekarrin/chomsky/server/dao/daotest"
)

func Test_Store(t *testing.T) {
	daotest.Run(t, func(t *testing.T) dao.Store {
		return NewDatastore()
	})
}
