package api

import (
	"net/http"

	"github.com/dekarrin/chomsky/server/dao"
	"github.com/dekarrin/chomsky/server/result"
	"github.com/dekarrin/chomsky/server/token"
)

// HTTPCreateToken returns a HandlerFunc that gives the logged-in user a new
// token with a fresh expiry, so long normalization sessions need not log in
// again. The request context must carry the logged-in user.
func (api API) HTTPCreateToken() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateToken)
}

func (api API) epCreateToken(req *http.Request) result.Result {
	return api.issueToken(requestUser(req), "refreshed token")
}

// issueToken signs a token for user and returns it as an HTTP-201 with the
// user's ID. what describes the action for the log.
func (api API) issueToken(user dao.User, what string) result.Result {
	tok, err := token.Generate(api.Secret, user)
	if err != nil {
		return result.InternalServerError("sign token for user '%s': %s", user.Username, err.Error())
	}

	return result.Created(LoginResponse{Token: tok, UserID: user.ID.String()}, "user '%s' %s", user.Username, what)
}
