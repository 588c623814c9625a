package sqlite

import (
	"testing"

	"github.com/dekarrin/chomsky/server/dao"
	"github.com/dekarrin/chomsky/server/dao/daotest"
)

func Test_Store(t *testing.T) {
	daotest.Run(t, func(t *testing.T) dao.Store {
		st, err := NewDatastore(t.TempDir())
		if err != nil {
			t.Fatalf("open store: %v", err)
		}
		return st
	})
}
