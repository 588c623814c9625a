package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/chomsky/server/dao"
	"github.com/dekarrin/chomsky/server/result"
	"github.com/dekarrin/chomsky/server/serr"
)

// HTTPCreateLogin returns a HandlerFunc that exchanges a username and password
// for a token. The token is what every grammar endpoint requires.
func (api API) HTTPCreateLogin() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateLogin)
}

func (api API) epCreateLogin(req *http.Request) result.Result {
	var creds LoginRequest
	if err := parseJSON(req, &creds); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if missing := creds.missingField(); missing != "" {
		return result.BadRequest(missing+": property is empty or missing from request", "empty "+missing)
	}

	user, err := api.Backend.Login(req.Context(), creds.Username, creds.Password)
	if errors.Is(err, serr.ErrBadCredentials) {
		return result.Unauthorized(serr.ErrBadCredentials.Error(), "login as '%s': %s", creds.Username, err.Error())
	} else if err != nil {
		return result.InternalServerError("login as '%s': %s", creds.Username, err.Error())
	}

	return api.issueToken(user, "logged in")
}

// missingField gives the JSON name of the first empty field of r, or "" if
// both are set.
func (r LoginRequest) missingField() string {
	if r.Username == "" {
		return "username"
	}
	if r.Password == "" {
		return "password"
	}
	return ""
}

// HTTPDeleteLogin returns a HandlerFunc that logs out the user whose ID is in
// the path. Users may log themselves out; only an admin may log out someone
// else.
//
// The request context must carry the logged-in user and the path must carry
// the ID, otherwise the handler responds with an HTTP-500.
func (api API) HTTPDeleteLogin() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteLogin)
}

func (api API) epDeleteLogin(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := requestUser(req)

	if id != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) logout of user %s: forbidden", user.Username, user.Role, id)
	}

	target, err := api.Backend.Logout(req.Context(), id)
	if errors.Is(err, serr.ErrNotFound) {
		return result.NotFound()
	} else if err != nil {
		return result.InternalServerError("logout of user %s: %s", id, err.Error())
	}

	if target.ID == user.ID {
		return result.NoContent("user '%s' logged out", user.Username)
	}
	return result.NoContent("user '%s' logged out user '%s'", user.Username, target.Username)
}
