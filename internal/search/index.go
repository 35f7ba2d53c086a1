// Package search ranks stored food names against what the user typed. The
// storage layer does the broad "contains" lookup; this package orders those
// candidates so the closest name is offered first.
//
//   - No logging in the library (callers decide how/what to log)
//   - Functional options for stop words and result caps
//   - Unicode-aware, case-folded tokenization
//   - Deterministic scoring and sorting (stable order for ties)
//
// Scoring uses Jaccard similarity between the query token set and each
// name's token set: score = |Q ∩ N| / |Q ∪ N|. Candidates that share no whole
// token (a substring hit such as "apple" in "pineapple") are kept with a zero
// score after every overlapping name.
package search

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Candidate is a stored item that may match the query.
type Candidate struct {
	ID   string
	Name string
}

// Result is a ranked candidate with its similarity score.
type Result struct {
	ID    string
	Name  string
	Score float64
}

// Ranker orders candidates by name similarity. It is immutable after
// construction and safe for concurrent use.
type Ranker struct {
	cfg config
}

// ----------------------------------------------------------------------------
// Options

type Option func(*config)

type config struct {
	stopwords  map[string]struct{}
	maxResults int
}

// DefaultStopwords are filler words that carry no food identity.
var DefaultStopwords = []string{"a", "an", "the", "of", "with", "and", "some", "my", "fresh"}

func defaultConfig() config {
	c := config{maxResults: 3}
	WithStopwords(DefaultStopwords)(&c)
	return c
}

// WithStopwords replaces the stop word list. An empty list disables removal.
func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = fold(strings.TrimSpace(w))
			if w != "" {
				m[w] = struct{}{}
			}
		}
		if len(m) == 0 {
			c.stopwords = nil
			return
		}
		c.stopwords = m
	}
}

// WithMaxResults caps Rank output when k <= 0.
func WithMaxResults(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// NewRanker builds a Ranker with the given options.
func NewRanker(opts ...Option) *Ranker {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Ranker{cfg: cfg}
}

// ----------------------------------------------------------------------------
// Ranking

// Rank returns up to k candidates ordered by descending score, then shorter
// name, then name. k <= 0 uses the configured maximum.
func (r *Ranker) Rank(query string, cands []Candidate, k int) []Result {
	if len(cands) == 0 || strings.TrimSpace(query) == "" {
		return nil
	}
	if k <= 0 {
		k = r.cfg.maxResults
	}
	qTokens := tokenize(query, r.cfg.stopwords)

	type scored struct {
		Result
		lenRunes int
	}
	buf := make([]scored, 0, len(cands))
	for _, c := range cands {
		nTokens := tokenize(c.Name, r.cfg.stopwords)
		buf = append(buf, scored{
			Result:   Result{ID: c.ID, Name: c.Name, Score: jaccard(qTokens, nTokens)},
			lenRunes: utf8.RuneCountInString(c.Name),
		})
	}

	sort.SliceStable(buf, func(a, b int) bool {
		if buf[a].Score != buf[b].Score {
			return buf[a].Score > buf[b].Score
		}
		if buf[a].lenRunes != buf[b].lenRunes {
			return buf[a].lenRunes < buf[b].lenRunes
		}
		return buf[a].Name < buf[b].Name
	})

	if k > len(buf) {
		k = len(buf)
	}
	out := make([]Result, k)
	for i := 0; i < k; i++ {
		out[i] = buf[i].Result
	}
	return out
}

// Similarity is the Jaccard score between two names under the default
// stop words.
func Similarity(a, b string) float64 {
	stop := defaultConfig().stopwords
	return jaccard(tokenize(a, stop), tokenize(b, stop))
}

// ----------------------------------------------------------------------------
// Helpers

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*|\p{N}+`)

var folder = cases.Fold()

func fold(s string) string { return folder.String(s) }

func tokenize(s string, stop map[string]struct{}) map[string]struct{} {
	words := wordRE.FindAllString(fold(s), -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if stop != nil {
			if _, skip := stop[w]; skip {
				continue
			}
		}
		out[w] = struct{}{}
	}
	return out
}

func jaccard(a, b map[string]struct{}) float64 {
	over := overlap(a, b)
	if over == 0 {
		return 0
	}
	union := len(a) + len(b) - over
	return float64(over) / float64(union)
}

func overlap(a, b map[string]struct{}) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := 0
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
