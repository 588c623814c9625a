package cnfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/dekarrin/chomsky/internal/cnferr"
	"github.com/dekarrin/chomsky/internal/grammar"
	"github.com/dekarrin/chomsky/internal/normalize"
	"github.com/dekarrin/chomsky/server/dao"
	"github.com/dekarrin/chomsky/server/serr"
	"github.com/google/uuid"
)

// StoredGrammar is a grammar in persistence along with its decoded Chomsky
// Normal Form.
type StoredGrammar struct {
	dao.Grammar

	CNF *grammar.Grammar
}

// CreateGrammar parses the given declaration, converts it to Chomsky Normal
// Form, and stores both under a new ID owned by owner. If start is empty, the
// first nonterminal is the start symbol.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If the declaration or rules
// cannot be parsed, it will match serr.ErrBadArgument along with
// cnferr.ErrMalformedRule or cnferr.ErrInvalidGrammar. If the grammar
// generates no strings, it will match cnferr.ErrEmptyLanguage, and if one of
// its alternatives has too many nullable symbols to normalize, it will match
// cnferr.ErrInvalidGrammar without serr.ErrBadArgument. If the error
// occured due to an unexpected problem with the DB, it will match serr.ErrDB.
func (svc Service) CreateGrammar(ctx context.Context, owner uuid.UUID, name string, nonTerminals, terminals []string, start, rules string) (StoredGrammar, error) {
	if len(nonTerminals) < 1 {
		return StoredGrammar{}, serr.New("at least one nonterminal must be declared", serr.ErrBadArgument)
	}
	if start == "" {
		start = nonTerminals[0]
	}

	g, err := grammar.Parse(nonTerminals, terminals, start, rules)
	if err != nil {
		return StoredGrammar{}, serr.New("", err, serr.ErrBadArgument)
	}

	var opts []normalize.Option
	if svc.Log != nil {
		opts = append(opts, normalize.WithLogger(svc.Log))
	}
	if err := normalize.New(g, opts...).Normalize(); err != nil {
		if errors.Is(err, cnferr.ErrEmptyLanguage) || errors.Is(err, cnferr.ErrInvalidGrammar) {
			return StoredGrammar{}, serr.New("", err)
		}
		return StoredGrammar{}, fmt.Errorf("normalize: %w", err)
	}

	blob, err := g.MarshalBinary()
	if err != nil {
		return StoredGrammar{}, fmt.Errorf("encode normal form: %w", err)
	}

	stored, err := svc.DB.Grammars().Create(ctx, dao.Grammar{
		Owner:        owner,
		Name:         name,
		NonTerminals: nonTerminals,
		Terminals:    terminals,
		Start:        start,
		Rules:        rules,
		Normalized:   blob,
	})
	if err != nil {
		return StoredGrammar{}, serr.WrapDB("could not create grammar", err)
	}

	return StoredGrammar{Grammar: stored, CNF: g}, nil
}

// GetGrammar returns the grammar with the given ID.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no grammar with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if the ID
// is not valid, it will match serr.ErrBadArgument.
func (svc Service) GetGrammar(ctx context.Context, id string) (StoredGrammar, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return StoredGrammar{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	g, err := svc.DB.Grammars().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return StoredGrammar{}, serr.ErrNotFound
		}
		return StoredGrammar{}, serr.WrapDB("could not get grammar", err)
	}

	return decodeStored(g)
}

// GetAllGrammars returns every grammar owned by owner, or every grammar in
// persistence if owner is uuid.Nil.
func (svc Service) GetAllGrammars(ctx context.Context, owner uuid.UUID) ([]StoredGrammar, error) {
	var all []dao.Grammar
	var err error
	if owner == uuid.Nil {
		all, err = svc.DB.Grammars().GetAll(ctx)
	} else {
		all, err = svc.DB.Grammars().GetAllByOwner(ctx, owner)
	}
	if err != nil {
		return nil, serr.WrapDB("could not get grammars", err)
	}

	decoded := make([]StoredGrammar, len(all))
	for i := range all {
		decoded[i], err = decodeStored(all[i])
		if err != nil {
			return nil, err
		}
	}
	return decoded, nil
}

// DeleteGrammar deletes the grammar with the given ID and returns it as it
// was just before deletion. Errors are as for GetGrammar.
func (svc Service) DeleteGrammar(ctx context.Context, id string) (dao.Grammar, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Grammar{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	g, err := svc.DB.Grammars().Delete(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Grammar{}, serr.ErrNotFound
		}
		return dao.Grammar{}, serr.WrapDB("could not delete grammar", err)
	}

	return g, nil
}

func decodeStored(g dao.Grammar) (StoredGrammar, error) {
	cnf := &grammar.Grammar{}
	if err := cnf.UnmarshalBinary(g.Normalized); err != nil {
		return StoredGrammar{}, serr.WrapDB(fmt.Sprintf("stored normal form of %s is invalid", g.ID), err)
	}
	return StoredGrammar{Grammar: g, CNF: cnf}, nil
}
