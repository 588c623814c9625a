// Package daotest holds tests that every dao.Store implementation must pass.
package daotest

import (
	"context"
	"net/mail"
	"testing"
	"time"

	"github.com/dekarrin/chomsky/server/dao"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// Run runs the store tests against stores created by newStore. Each test gets
// a fresh, empty store, which is closed when the test completes.
func Run(t *testing.T, newStore func(t *testing.T) dao.Store) {
	t.Run("users", func(t *testing.T) {
		testUsers(t, newStore)
	})
	t.Run("grammars", func(t *testing.T) {
		testGrammars(t, newStore)
	})
}

func open(t *testing.T, newStore func(t *testing.T) dao.Store) dao.Store {
	t.Helper()
	st := newStore(t)
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

func testUsers(t *testing.T, newStore func(t *testing.T) dao.Store) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		assert := assert.New(t)
		repo := open(t, newStore).Users()

		email, _ := mail.ParseAddress("noam@example.com")
		created, err := repo.Create(ctx, dao.User{
			Username: "noam",
			Password: "aGFzaA==",
			Email:    email,
			Role:     dao.Admin,
		})
		if !assert.NoError(err) {
			return
		}
		assert.NotEqual(uuid.Nil, created.ID)

		byID, err := repo.GetByID(ctx, created.ID)
		if !assert.NoError(err) {
			return
		}
		byName, err := repo.GetByUsername(ctx, "noam")
		if !assert.NoError(err) {
			return
		}

		for _, u := range []dao.User{byID, byName} {
			assert.Equal(created.ID, u.ID)
			assert.Equal("noam", u.Username)
			assert.Equal("aGFzaA==", u.Password)
			assert.Equal(dao.Admin, u.Role)
			if assert.NotNil(u.Email) {
				assert.Equal("noam@example.com", u.Email.Address)
			}
			assert.WithinDuration(time.Now(), u.Created, time.Minute)
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		assert := assert.New(t)
		repo := open(t, newStore).Users()

		_, err := repo.Create(ctx, dao.User{Username: "sheila", Password: "x"})
		if !assert.NoError(err) {
			return
		}
		_, err = repo.Create(ctx, dao.User{Username: "sheila", Password: "y"})
		assert.ErrorIs(err, dao.ErrConstraintViolation)
	})

	t.Run("not found", func(t *testing.T) {
		assert := assert.New(t)
		repo := open(t, newStore).Users()

		_, err := repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(err, dao.ErrNotFound)
		_, err = repo.GetByUsername(ctx, "nobody")
		assert.ErrorIs(err, dao.ErrNotFound)
		_, err = repo.Delete(ctx, uuid.New())
		assert.ErrorIs(err, dao.ErrNotFound)
	})

	t.Run("update keeps logout time", func(t *testing.T) {
		assert := assert.New(t)
		repo := open(t, newStore).Users()

		u, err := repo.Create(ctx, dao.User{Username: "john", Password: "x"})
		if !assert.NoError(err) {
			return
		}

		logout := time.Now().Add(time.Second)
		u.LastLogoutTime = logout
		u.Username = "jbackus"
		_, err = repo.Update(ctx, u.ID, u)
		if !assert.NoError(err) {
			return
		}

		updated, err := repo.GetByID(ctx, u.ID)
		if !assert.NoError(err) {
			return
		}
		assert.Equal("jbackus", updated.Username)
		assert.Equal(logout.UnixNano(), updated.LastLogoutTime.UnixNano())

		_, err = repo.GetByUsername(ctx, "john")
		assert.ErrorIs(err, dao.ErrNotFound)
	})

	t.Run("get all and delete", func(t *testing.T) {
		assert := assert.New(t)
		repo := open(t, newStore).Users()

		a, _ := repo.Create(ctx, dao.User{Username: "a", Password: "x"})
		_, _ = repo.Create(ctx, dao.User{Username: "b", Password: "x"})

		all, err := repo.GetAll(ctx)
		if !assert.NoError(err) {
			return
		}
		assert.Len(all, 2)

		deleted, err := repo.Delete(ctx, a.ID)
		if !assert.NoError(err) {
			return
		}
		assert.Equal("a", deleted.Username)

		all, err = repo.GetAll(ctx)
		if !assert.NoError(err) {
			return
		}
		if assert.Len(all, 1) {
			assert.Equal("b", all[0].Username)
		}
	})
}

func testGrammars(t *testing.T, newStore func(t *testing.T) dao.Store) {
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	balanced := dao.Grammar{
		Owner:        owner,
		Name:         "balanced",
		NonTerminals: []string{"S"},
		Terminals:    []string{"a", "b"},
		Start:        "S",
		Rules:        "S -> a S b | ε",
		Normalized:   []byte{0x01, 0x02, 0xff},
	}

	t.Run("create and get", func(t *testing.T) {
		assert := assert.New(t)
		repo := open(t, newStore).Grammars()

		created, err := repo.Create(ctx, balanced)
		if !assert.NoError(err) {
			return
		}
		assert.NotEqual(uuid.Nil, created.ID)

		got, err := repo.GetByID(ctx, created.ID)
		if !assert.NoError(err) {
			return
		}
		assert.Equal(owner, got.Owner)
		assert.Equal("balanced", got.Name)
		assert.Equal([]string{"S"}, got.NonTerminals)
		assert.Equal([]string{"a", "b"}, got.Terminals)
		assert.Equal("S", got.Start)
		assert.Equal("S -> a S b | ε", got.Rules)
		assert.Equal([]byte{0x01, 0x02, 0xff}, got.Normalized)
		assert.WithinDuration(time.Now(), got.Created, time.Minute)
	})

	t.Run("by owner", func(t *testing.T) {
		assert := assert.New(t)
		repo := open(t, newStore).Grammars()

		mine, _ := repo.Create(ctx, balanced)
		theirs := balanced
		theirs.Owner = other
		theirs.Name = "theirs"
		_, _ = repo.Create(ctx, theirs)

		owned, err := repo.GetAllByOwner(ctx, owner)
		if !assert.NoError(err) {
			return
		}
		if assert.Len(owned, 1) {
			assert.Equal(mine.ID, owned[0].ID)
		}

		all, err := repo.GetAll(ctx)
		if !assert.NoError(err) {
			return
		}
		assert.Len(all, 2)

		none, err := repo.GetAllByOwner(ctx, uuid.New())
		if !assert.NoError(err) {
			return
		}
		assert.Empty(none)
	})

	t.Run("delete", func(t *testing.T) {
		assert := assert.New(t)
		repo := open(t, newStore).Grammars()

		created, _ := repo.Create(ctx, balanced)

		deleted, err := repo.Delete(ctx, created.ID)
		if !assert.NoError(err) {
			return
		}
		assert.Equal("balanced", deleted.Name)

		_, err = repo.GetByID(ctx, created.ID)
		assert.ErrorIs(err, dao.ErrNotFound)
		_, err = repo.Delete(ctx, created.ID)
		assert.ErrorIs(err, dao.ErrNotFound)
	})
}
