// Package dictionary loads the banned term list the filter is built from.
//
// Terms come from one or more Sources: plain text files with one term per
// line, JSON files, HTTP endpoints and the term stores in pkg/storage.
package dictionary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"

	"redactor/pkg/filter"
)

var ErrUnexpectedStatus = errors.New("unexpected response status")

// Source yields banned terms. On failure a Source may return the terms it
// managed to read together with the error.
type Source interface {
	Terms(ctx context.Context) ([]string, error)
}

// Load collects the terms of all sources in order. It does not fail: an
// erroring source is logged and the terms it returned before the error are
// kept, so a broken source weakens filtering instead of stopping the service.
// Terms are normalized and blank ones are dropped.
func Load(ctx context.Context, sources ...Source) []string {
	var terms []string
	for _, src := range sources {
		got, err := src.Terms(ctx)
		if err != nil {
			log.Errorf("[dictionary] failed to load terms from %v, keeping %d read before the failure: %v", src, len(got), err)
		}

		for _, term := range got {
			term = Normalize(term)
			if term == "" {
				continue
			}
			if hasNoise(term) {
				log.Warnf("[dictionary] term %q contains noise characters and will never match", term)
			}
			terms = append(terms, term)
		}
		log.Debugf("[dictionary] %d terms from %v", len(got), src)
	}

	log.Infof("[dictionary] loaded %d terms from %d sources", len(terms), len(sources))
	return terms
}

// Normalize trims surrounding whitespace and converts term to Unicode NFC.
func Normalize(term string) string {
	return norm.NFC.String(strings.TrimSpace(term))
}

func hasNoise(term string) bool {
	return strings.IndexFunc(term, filter.IsSkippable) >= 0
}

func statusError(url string, code int) error {
	return fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, url, code)
}
