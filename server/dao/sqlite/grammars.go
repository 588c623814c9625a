package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/chomsky/server/dao"
	"github.com/google/uuid"
)

const grammarColumns = `id, owner, name, nonterminals, terminals, start, rules, normalized, created`

type GrammarsDB struct {
	db *sql.DB
}

func (repo *GrammarsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS grammars (
		id TEXT NOT NULL PRIMARY KEY,
		owner TEXT NOT NULL,
		name TEXT NOT NULL,
		nonterminals TEXT NOT NULL,
		terminals TEXT NOT NULL,
		start TEXT NOT NULL,
		rules TEXT NOT NULL,
		normalized TEXT NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}

	return nil
}

func (repo *GrammarsDB) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	_, err = repo.db.ExecContext(ctx, `INSERT INTO grammars (`+grammarColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		convertToDB_UUID(newUUID),
		convertToDB_UUID(g.Owner),
		g.Name,
		convertToDB_Symbols(g.NonTerminals),
		convertToDB_Symbols(g.Terminals),
		g.Start,
		g.Rules,
		convertToDB_ByteSlice(g.Normalized),
		convertToDB_Time(time.Now()),
	)
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *GrammarsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT `+grammarColumns+` FROM grammars WHERE id = ?;`, convertToDB_UUID(id))
	return scanGrammar(row)
}

func (repo *GrammarsDB) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	return repo.query(ctx, `SELECT `+grammarColumns+` FROM grammars ORDER BY created, id;`)
}

func (repo *GrammarsDB) GetAllByOwner(ctx context.Context, owner uuid.UUID) ([]dao.Grammar, error) {
	return repo.query(ctx, `SELECT `+grammarColumns+` FROM grammars WHERE owner = ? ORDER BY created, id;`, convertToDB_UUID(owner))
}

func (repo *GrammarsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM grammars WHERE id = ?`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *GrammarsDB) Close() error {
	return nil
}

func (repo *GrammarsDB) query(ctx context.Context, q string, args ...any) ([]dao.Grammar, error) {
	rows, err := repo.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Grammar
	for rows.Next() {
		g, err := scanGrammar(rows)
		if err != nil {
			return all, err
		}
		all = append(all, g)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func scanGrammar(row scanner) (dao.Grammar, error) {
	var g dao.Grammar
	var id, owner, nts, ts, normalized string
	var created int64

	err := row.Scan(
		&id,
		&owner,
		&g.Name,
		&nts,
		&ts,
		&g.Start,
		&g.Rules,
		&normalized,
		&created,
	)
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}

	if err := convertFromDB_UUID(id, &g.ID); err != nil {
		return dao.Grammar{}, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	if err := convertFromDB_UUID(owner, &g.Owner); err != nil {
		return dao.Grammar{}, fmt.Errorf("stored owner UUID %q is invalid: %w", owner, err)
	}
	if err := convertFromDB_ByteSlice(normalized, &g.Normalized); err != nil {
		return dao.Grammar{}, fmt.Errorf("stored normal form of %s is invalid: %w", id, err)
	}
	convertFromDB_Symbols(nts, &g.NonTerminals)
	convertFromDB_Symbols(ts, &g.Terminals)
	convertFromDB_Time(created, &g.Created)

	return g, nil
}
