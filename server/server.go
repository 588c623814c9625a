// Package server provides the cnfserver, an HTTP REST server that normalizes
// grammars submitted by users and keeps them and their Chomsky Normal Forms in
// persistence.
//
// Routes, all under /api/v1:
//
//	POST   /login                   - accepts user and password and returns a jwt.
//	DELETE /login/{id}              - ends the login of a user, invalidating their jwts.
//	POST   /tokens                  - refreshes the token without requiring credentials.
//	POST   /users                   - create a new user account (admin only).
//	GET    /users                   - get all users (admin only).
//	GET    /users/{id}              - get info on a user.
//	DELETE /users/{id}              - delete a user and all of their grammars.
//	POST   /grammars                - normalize and store a grammar.
//	GET    /grammars                - get all of the client's grammars (all, for admin).
//	GET    /grammars/{id}           - get a grammar and its normal form.
//	DELETE /grammars/{id}           - delete a grammar.
//	POST   /grammars/{id}/accepts   - test whether a string is in a grammar's language.
//	GET    /info                    - get version info on the server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/baditaflorin/l"
	"github.com/dekarrin/chomsky/server/api"
	"github.com/dekarrin/chomsky/server/cnfs"
	"github.com/dekarrin/chomsky/server/dao"
)

// Server is an HTTP REST server that provides grammar normalization and
// associated resources. The zero-value of a Server should not be used
// directly; call New() to get one ready for use.
type Server struct {
	cfg     Config
	db      dao.Store
	router  http.Handler
	httpSrv *http.Server
}

// New creates a new Server from cfg. Unset values in cfg are given their
// defaults before it is validated. If cfg has an admin password, an admin
// user is created with it unless one by that name already exists. logger may
// be nil.
func New(cfg Config, logger l.Logger) (*Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, err
	}

	backend := cnfs.Service{
		DB:           db,
		PasswordCost: cfg.PasswordCost,
		Log:          logger,
	}

	if cfg.AdminPassword != "" {
		created, err := backend.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("create admin user: %w", err)
		}
		if created {
			log.Printf("INFO  created admin user %q", cfg.AdminUsername)
		}
	}

	a := api.API{
		Backend:     backend,
		UnauthDelay: cfg.UnauthDelay(),
		Secret:      cfg.TokenSecret,
	}

	router := newRouter(a)
	httpSrv := &http.Server{
		Addr:    cfg.ListenAddress,
		Handler: router,
	}

	return &Server{
		cfg:     cfg,
		db:      db,
		router:  router,
		httpSrv: httpSrv,
	}, nil
}

// Handler returns the http.Handler that serves every route of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeForever begins listening on the configured address for HTTP REST
// client requests. It returns nil once Shutdown has been called.
func (s *Server) ServeForever() error {
	log.Printf("INFO  listening on %s", s.cfg.ListenAddress)
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops a server started with ServeForever.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Close releases the persistence layer of the server.
func (s *Server) Close() error {
	return s.db.Close()
}
