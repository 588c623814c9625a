// Package cnfs has services for interacting with the cnfserver backend
// decoupled from the API that accesses it.
package cnfs

import (
	"github.com/baditaflorin/l"
	"github.com/dekarrin/chomsky/server/dao"
	"golang.org/x/crypto/bcrypt"
)

// Service is a service for interacting with and modifying the cnfserver
// backend. It performs the actions requested and makes calls to server
// persistence to preserve the backend state.
//
// The zero-value of Service is not ready to be used; assign a valid DAO store
// to DB before attempting to use it.
type Service struct {

	// DB is the persistence store of the service.
	DB dao.Store

	// PasswordCost is the bcrypt cost used to hash new passwords. If not set,
	// bcrypt.DefaultCost is used.
	PasswordCost int

	// Log receives an event for each normalization stage of submitted
	// grammars. It may be nil.
	Log l.Logger
}

func (svc Service) passwordCost() int {
	if svc.PasswordCost < bcrypt.MinCost {
		return bcrypt.DefaultCost
	}
	return svc.PasswordCost
}
