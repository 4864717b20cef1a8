package memdb

import (
	"context"
	"slices"
	"sync"
)

type Store struct {
	mu    sync.Mutex
	terms map[string]struct{}
}

func New() *Store {
	db := Store{
		terms: make(map[string]struct{}),
	}

	return &db
}

func (db *Store) AddTerms(ctx context.Context, terms []string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, term := range terms {
		if term == "" {
			continue
		}
		db.terms[term] = struct{}{}
	}

	return nil
}

// Terms returns the stored terms in lexical order.
func (db *Store) Terms(ctx context.Context) ([]string, error) {
	db.mu.Lock()
	terms := make([]string, 0, len(db.terms))
	for term := range db.terms {
		terms = append(terms, term)
	}
	db.mu.Unlock()

	slices.Sort(terms)
	return terms, nil
}

func (db *Store) String() string {
	return "memdb"
}
