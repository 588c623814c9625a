package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dekarrin/chomsky/internal/util"
	"github.com/dekarrin/chomsky/server/dao"
	"github.com/google/uuid"
)

func NewGrammarsRepository() *GrammarsRepository {
	return &GrammarsRepository{
		grammars: make(map[uuid.UUID]dao.Grammar),
	}
}

// GrammarsRepository is a dao.GrammarRepository that is safe for concurrent
// use.
type GrammarsRepository struct {
	mtx      sync.RWMutex
	grammars map[uuid.UUID]dao.Grammar
}

func (imgr *GrammarsRepository) Close() error {
	return nil
}

func (imgr *GrammarsRepository) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	imgr.mtx.Lock()
	defer imgr.mtx.Unlock()

	g.ID = newUUID
	g.Created = time.Now()
	imgr.grammars[g.ID] = copyGrammar(g)

	return g, nil
}

func (imgr *GrammarsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	imgr.mtx.RLock()
	defer imgr.mtx.RUnlock()

	g, ok := imgr.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	return copyGrammar(g), nil
}

func (imgr *GrammarsRepository) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	return imgr.filter(func(dao.Grammar) bool { return true }), nil
}

func (imgr *GrammarsRepository) GetAllByOwner(ctx context.Context, owner uuid.UUID) ([]dao.Grammar, error) {
	return imgr.filter(func(g dao.Grammar) bool { return g.Owner == owner }), nil
}

func (imgr *GrammarsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	imgr.mtx.Lock()
	defer imgr.mtx.Unlock()

	g, ok := imgr.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	delete(imgr.grammars, id)

	return g, nil
}

func (imgr *GrammarsRepository) filter(keep func(dao.Grammar) bool) []dao.Grammar {
	imgr.mtx.RLock()
	defer imgr.mtx.RUnlock()

	var all []dao.Grammar
	for k := range imgr.grammars {
		if keep(imgr.grammars[k]) {
			all = append(all, copyGrammar(imgr.grammars[k]))
		}
	}

	return util.SortBy(all, func(l, r dao.Grammar) bool {
		if l.Created.Equal(r.Created) {
			return l.ID.String() < r.ID.String()
		}
		return l.Created.Before(r.Created)
	})
}

// copyGrammar returns a copy of g that shares no slices with it.
func copyGrammar(g dao.Grammar) dao.Grammar {
	g.NonTerminals = append([]string(nil), g.NonTerminals...)
	g.Terminals = append([]string(nil), g.Terminals...)
	g.Normalized = append([]byte(nil), g.Normalized...)
	return g
}
