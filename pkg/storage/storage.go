// Package storage defines the term store contract. Every store is also a
// dictionary.Source.
package storage

import (
	"context"
	"fmt"
	"os"
)

var (
	ErrConnectDB       = fmt.Errorf("unable to establish DB connection")
	ErrDBNotResponding = fmt.Errorf("DB not responding")
)

type Store interface {
	// Terms returns every stored term.
	Terms(ctx context.Context) ([]string, error)
	// AddTerms stores terms, skipping empty and already stored ones.
	AddTerms(ctx context.Context, terms []string) error
}

// Getenv returns the environment variable key, or def when it is unset or
// empty.
func Getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
