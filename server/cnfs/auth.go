package cnfs

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/dekarrin/chomsky/server/dao"
	"github.com/dekarrin/chomsky/server/serr"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Login checks username and password and, when they match a stored user,
// records the login time and returns that user. Tokens issued to the user
// before its last logout are not accepted, so Login does not need to
// invalidate anything itself.
//
// An unknown username and a wrong password both give an error matching
// serr.ErrBadCredentials so a client cannot tell which one it got wrong.
// Storage failures match serr.ErrDB.
func (svc Service) Login(ctx context.Context, username string, password string) (dao.User, error) {
	user, err := svc.DB.Users().GetByUsername(ctx, username)
	if errors.Is(err, dao.ErrNotFound) {
		return dao.User{}, serr.ErrBadCredentials
	} else if err != nil {
		return dao.User{}, serr.WrapDB("look up user "+username, err)
	}

	if err := checkPassword(user, password); err != nil {
		return dao.User{}, err
	}

	return svc.stamp(ctx, user, func(u *dao.User, now time.Time) { u.LastLoginTime = now })
}

// Logout records the logout time of the user with ID who. Every token issued
// to that user before now stops being accepted, which also drops access to
// the grammars they own until they log in again.
//
// An unknown user gives an error matching serr.ErrNotFound. Storage failures
// match serr.ErrDB.
func (svc Service) Logout(ctx context.Context, who uuid.UUID) (dao.User, error) {
	user, err := svc.DB.Users().GetByID(ctx, who)
	if errors.Is(err, dao.ErrNotFound) {
		return dao.User{}, serr.ErrNotFound
	} else if err != nil {
		return dao.User{}, serr.WrapDB("look up user "+who.String(), err)
	}

	return svc.stamp(ctx, user, func(u *dao.User, now time.Time) { u.LastLogoutTime = now })
}

// checkPassword compares password against the base64-encoded bcrypt hash
// stored for user.
func checkPassword(user dao.User, password string) error {
	hash, err := base64.StdEncoding.DecodeString(user.Password)
	if err != nil {
		return serr.New("stored password hash of "+user.Username+" is not base64", err)
	}

	err = bcrypt.CompareHashAndPassword(hash, []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return serr.ErrBadCredentials
	}
	return err
}

// stamp applies set to user with the current time and saves the result.
func (svc Service) stamp(ctx context.Context, user dao.User, set func(*dao.User, time.Time)) (dao.User, error) {
	set(&user, time.Now())

	updated, err := svc.DB.Users().Update(ctx, user.ID, user)
	if err != nil {
		return dao.User{}, serr.WrapDB("save session times of "+user.Username, err)
	}
	return updated, nil
}
