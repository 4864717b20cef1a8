package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS banned_terms (
		term TEXT PRIMARY KEY
	)
`

type Store struct {
	db *pgxpool.Pool
}

// New connects to Postgres and makes sure the banned_terms table exists.
func New(ctx context.Context, conStr string) (*Store, error) {
	db, err := pgxpool.Connect(ctx, conStr)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) Close() {
	s.db.Close()
}

func (s *Store) String() string {
	return "postgres banned_terms"
}

// AddTerms inserts terms in a single transaction. Terms already present are
// left untouched.
func (s *Store) AddTerms(ctx context.Context, terms []string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := new(pgx.Batch)
	for _, term := range terms {
		if term == "" {
			continue
		}
		batch.Queue(`
			INSERT INTO banned_terms (term)
			VALUES ($1)
			ON CONFLICT (term) DO NOTHING
		`,
			term,
		)
	}
	if batch.Len() == 0 {
		return nil
	}

	res := tx.SendBatch(ctx, batch)
	if err := res.Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Terms returns every stored term ordered by text.
func (s *Store) Terms(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT term
		FROM banned_terms
		ORDER BY term
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []string
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return terms, err
		}
		terms = append(terms, term)
	}

	return terms, rows.Err()
}
