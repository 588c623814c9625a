package api

import (
	"net/http"

	"github.com/dekarrin/chomsky/internal/normalize"
	"github.com/dekarrin/chomsky/internal/version"
	"github.com/dekarrin/chomsky/server/middle"
	"github.com/dekarrin/chomsky/server/result"
)

// HTTPGetInfo returns a HandlerFunc that reports the server and normalizer
// versions along with the limits the normalizer enforces. Anyone may call
// it; the request context only needs to say whether the client is logged in.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.Chomsky = version.Current
	resp.Limits.MaxNullableSymbols = normalize.MaxNullablePositions

	who := "unauthed client"
	if loggedIn, _ := req.Context().Value(middle.AuthLoggedIn).(bool); loggedIn {
		who = "user '" + requestUser(req).Username + "'"
	}
	return result.OK(resp, "%s got API info", who)
}
