package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/chomsky/internal/cnferr"
	"github.com/dekarrin/chomsky/server/cnfs"
	"github.com/dekarrin/chomsky/server/dao"
	"github.com/dekarrin/chomsky/server/result"
	"github.com/dekarrin/chomsky/server/serr"
	"github.com/google/uuid"
)

func grammarModel(g cnfs.StoredGrammar) GrammarModel {
	return GrammarModel{
		URI:          PathPrefix + "/grammars/" + g.ID.String(),
		ID:           g.ID.String(),
		Owner:        g.Owner.String(),
		Name:         g.Name,
		NonTerminals: g.NonTerminals,
		Terminals:    g.Terminals,
		Start:        g.Start,
		Rules:        g.Rules,
		CNF:          strings.Split(g.CNF.String(), "\n"),
		Created:      g.Created.Format(time.RFC3339),
	}
}

// getOwnedGrammar retrieves the grammar with the ID in the request URI and
// checks that user may access it. The returned Result is only valid if ok is
// false.
func (api API) getOwnedGrammar(req *http.Request, user dao.User) (g cnfs.StoredGrammar, r result.Result, ok bool) {
	id := requireIDParam(req)

	g, err := api.Backend.GetGrammar(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return g, result.NotFound(), false
		}
		return g, result.InternalServerError("could not get grammar: " + err.Error()), false
	}

	if g.Owner != user.ID && user.Role != dao.Admin {
		return g, result.Forbidden("user '%s' (role %s) access grammar %s: forbidden", user.Username, user.Role, id), false
	}

	return g, r, true
}

// HTTPCreateGrammar returns a HandlerFunc that normalizes a submitted grammar
// and stores it and its Chomsky Normal Form under the logged-in user.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in user of the client making the request.
func (api API) HTTPCreateGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateGrammar)
}

func (api API) epCreateGrammar(req *http.Request) result.Result {
	user := requestUser(req)

	var gr GrammarRequest
	err := parseJSON(req, &gr)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if gr.Name == "" {
		return result.BadRequest("name: property is empty or missing from request", "empty name")
	}
	if len(gr.NonTerminals) < 1 {
		return result.BadRequest("nonterminals: property is empty or missing from request", "empty nonterminals")
	}
	if strings.TrimSpace(gr.Rules) == "" {
		return result.BadRequest("rules: property is empty or missing from request", "empty rules")
	}

	created, err := api.Backend.CreateGrammar(req.Context(), user.ID, gr.Name, gr.NonTerminals, gr.Terminals, gr.Start, gr.Rules)
	if err != nil {
		if errors.Is(err, cnferr.ErrEmptyLanguage) {
			return result.UnprocessableEntity("The grammar does not generate any strings", "grammar '%s': %s", gr.Name, err.Error())
		} else if errors.Is(err, cnferr.ErrInvalidGrammar) && !errors.Is(err, serr.ErrBadArgument) {
			return result.UnprocessableEntity(err.Error(), "grammar '%s': %s", gr.Name, err.Error())
		} else if errors.Is(err, serr.ErrBadArgument) || errors.Is(err, cnferr.ErrMalformedRule) {
			return result.BadRequest(err.Error(), "grammar '%s': %s", gr.Name, err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	return result.Created(grammarModel(created), "user '%s' created grammar '%s' (%s)", user.Username, created.Name, created.ID)
}

// HTTPGetAllGrammars returns a HandlerFunc that retrieves every grammar owned
// by the logged-in user. For an admin user, every grammar on the server is
// returned.
func (api API) HTTPGetAllGrammars() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllGrammars)
}

func (api API) epGetAllGrammars(req *http.Request) result.Result {
	user := requestUser(req)

	owner := user.ID
	if user.Role == dao.Admin {
		owner = uuid.Nil
	}

	all, err := api.Backend.GetAllGrammars(req.Context(), owner)
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]GrammarModel, len(all))
	for i := range all {
		resp[i] = grammarModel(all[i])
	}

	return result.OK(resp, "user '%s' got %d grammar(s)", user.Username, len(resp))
}

// HTTPGetGrammar returns a HandlerFunc that retrieves a single grammar. Only
// its owner or an admin user may retrieve it.
func (api API) HTTPGetGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetGrammar)
}

func (api API) epGetGrammar(req *http.Request) result.Result {
	user := requestUser(req)

	g, r, ok := api.getOwnedGrammar(req, user)
	if !ok {
		return r
	}

	return result.OK(grammarModel(g), "user '%s' got grammar '%s'", user.Username, g.Name)
}

// HTTPDeleteGrammar returns a HandlerFunc that deletes a grammar. Only its
// owner or an admin user may delete it.
func (api API) HTTPDeleteGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteGrammar)
}

func (api API) epDeleteGrammar(req *http.Request) result.Result {
	user := requestUser(req)

	g, r, ok := api.getOwnedGrammar(req, user)
	if !ok {
		return r
	}

	deleted, err := api.Backend.DeleteGrammar(req.Context(), g.ID.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not delete grammar: " + err.Error())
	}

	return result.NoContent("user '%s' deleted grammar '%s'", user.Username, deleted.Name)
}

// HTTPCreateAccepts returns a HandlerFunc that tests whether a string of
// terminals is in the language of a stored grammar. Only its owner or an admin
// user may test it.
func (api API) HTTPCreateAccepts() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateAccepts)
}

func (api API) epCreateAccepts(req *http.Request) result.Result {
	user := requestUser(req)

	var ar AcceptsRequest
	if err := parseJSON(req, &ar); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	g, r, ok := api.getOwnedGrammar(req, user)
	if !ok {
		return r
	}

	for _, sym := range ar.Symbols {
		if !g.CNF.IsTerminal(sym) {
			return result.BadRequest("symbols: "+sym+" is not a terminal of the grammar", "non-terminal symbol %q", sym)
		}
	}

	if ar.Symbols == nil {
		ar.Symbols = []string{}
	}
	resp := AcceptsResponse{
		Symbols:  ar.Symbols,
		Accepted: g.CNF.Accepts(ar.Symbols),
	}
	return result.OK(resp, "user '%s' tested %d symbol(s) against grammar '%s'", user.Username, len(ar.Symbols), g.Name)
}
