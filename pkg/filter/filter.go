// Package filter redacts banned terms from user-submitted text.
//
// Terms are kept in a prefix tree of runes. The scanner walks the text once,
// skipping noise characters (see IsSkippable) inside a candidate match, so
// "b@d" still matches the term "bd". Every recognized term is replaced with a
// fixed placeholder; everything else is copied to the output byte for byte.
//
// A Filter is read-only once built. Any number of goroutines may use it at the
// same time.
package filter

import (
	"iter"
	"slices"
	"strings"
	"unicode/utf8"
)

// DefaultPlaceholder replaces every recognized term.
const DefaultPlaceholder = "**"

type Filter struct {
	root        *node
	placeholder string
	longest     bool
	size        int
}

type Option func(*Filter)

// WithPlaceholder sets the text substituted for a recognized term.
func WithPlaceholder(s string) Option {
	return func(f *Filter) {
		f.placeholder = s
	}
}

// WithLongestMatch makes the scanner keep walking past a term end and commit
// the longest term found along the path. By default the first term end wins,
// so with the terms "ab" and "abc" the text "abc" becomes "**c".
func WithLongestMatch() Option {
	return func(f *Filter) {
		f.longest = true
	}
}

// Build inserts every term yielded by terms into a new Filter. Empty terms are
// ignored and duplicates are inserted once. A nil or empty sequence yields a
// Filter that returns its input unchanged.
func Build(terms iter.Seq[string], opts ...Option) *Filter {
	f := &Filter{
		root:        newNode(),
		placeholder: DefaultPlaceholder,
	}
	for _, opt := range opts {
		opt(f)
	}

	if terms == nil {
		return f
	}
	for term := range terms {
		if f.root.insert(term) {
			f.size++
		}
	}

	return f
}

// New is Build over a slice.
func New(terms []string, opts ...Option) *Filter {
	return Build(slices.Values(terms), opts...)
}

// Len returns the number of distinct terms in the filter.
func (f *Filter) Len() int {
	if f == nil {
		return 0
	}
	return f.size
}

// Filter returns text with every recognized term replaced by the placeholder.
// An empty text yields an empty result. Blank text is not special-cased: it
// is scanned like any other, and since whitespace is noise it comes back
// unchanged rather than empty.
func (f *Filter) Filter(text string) string {
	out, _ := f.Redact(text)
	return out
}

// Contains reports whether text holds at least one banned term.
func (f *Filter) Contains(text string) bool {
	_, n := f.Redact(text)
	return n > 0
}

// Redact is Filter that also returns how many terms were replaced. Only ""
// short-circuits; whitespace-only text is returned as is with a count of 0.
func (f *Filter) Redact(text string) (string, int) {
	if text == "" {
		return "", 0
	}
	if f == nil || f.root.isLeaf() {
		return text, 0
	}

	s := newScan(f, text)
	s.run()
	return s.out.String(), s.count
}

// scanState is the cursor set of a single scan. begin and position are rune
// indexes; node is the root whenever no match is in progress.
type scanState struct {
	begin    int
	position int
	node     *node

	// last is the position of the deepest term end passed by the current
	// candidate, or -1. Only used in longest-match mode.
	last int
}

type scan struct {
	f     *Filter
	text  string
	runes []rune
	offs  []int // byte offset of every rune, plus len(text)
	out   strings.Builder
	count int

	scanState
}

func newScan(f *Filter, text string) *scan {
	n := utf8.RuneCountInString(text)
	s := &scan{
		f:     f,
		text:  text,
		runes: make([]rune, 0, n),
		offs:  make([]int, 0, n+1),
	}
	for i, r := range text {
		s.runes = append(s.runes, r)
		s.offs = append(s.offs, i)
	}
	s.offs = append(s.offs, len(text))
	s.out.Grow(len(text))
	s.scanState = scanState{node: f.root, last: -1}

	return s
}

// segment returns the original bytes of rune i.
func (s *scan) segment(i int) string {
	return s.text[s.offs[i]:s.offs[i+1]]
}

func (s *scan) run() {
	root := s.f.root
	n := len(s.runes)

	for {
		if s.position >= n {
			if s.last < 0 {
				break
			}
			s.commit(s.last)
			continue
		}

		r := s.runes[s.position]
		if IsSkippable(r) {
			if s.node == root {
				s.out.WriteString(s.segment(s.position))
				s.begin++
			}
			s.position++
			continue
		}

		next := s.node.childAt(r)
		switch {
		case next == nil && s.last >= 0:
			s.commit(s.last)
		case next == nil:
			// The candidate starting at begin is not a term.
			s.out.WriteString(s.segment(s.begin))
			s.begin++
			s.position = s.begin
			s.node = root
		case next.end && (!s.f.longest || next.isLeaf()):
			s.commit(s.position)
		default:
			if next.end {
				s.last = s.position
			}
			s.node = next
			s.position++
		}
	}

	s.out.WriteString(s.text[s.offs[s.begin]:])
}

// commit replaces runes begin..end with the placeholder and restarts the scan
// right after end.
func (s *scan) commit(end int) {
	s.out.WriteString(s.f.placeholder)
	s.count++

	s.begin = end + 1
	s.position = s.begin
	s.node = s.f.root
	s.last = -1
}
