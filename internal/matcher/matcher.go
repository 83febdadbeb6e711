package matcher

import (
	"fmt"
	"sync/atomic"

	"faqbot/internal/domain"
	"faqbot/internal/embedding/tfidf"
	"faqbot/internal/faq"
	"faqbot/internal/vectorstore/memory"
)

const (
	DefaultThreshold = 0.5
	DefaultFallback  = "I'm not sure I understand. Could you rephrase your question?"
)

// model is a fitted vector space. It is never mutated after publication.
type model struct {
	entries    []domain.Entry
	vectorizer *tfidf.Vectorizer
	store      *memory.Storage
}

// Matcher answers questions by TF-IDF cosine similarity against a FAQ corpus.
type Matcher struct {
	normalizer domain.Normalizer
	threshold  float64
	fallback   string
	current    atomic.Pointer[model]
}

// Option customizes a Matcher.
type Option func(*Matcher)

// WithThreshold sets the acceptance threshold. A match is accepted only when
// its score is strictly greater than the threshold.
func WithThreshold(threshold float64) Option {
	return func(m *Matcher) { m.threshold = threshold }
}

// WithFallback sets the reply used when no entry is accepted.
func WithFallback(text string) Option {
	return func(m *Matcher) { m.fallback = text }
}

// New creates a Matcher fitted on entries.
func New(normalizer domain.Normalizer, entries []domain.Entry, opts ...Option) (*Matcher, error) {
	m := &Matcher{
		normalizer: normalizer,
		threshold:  DefaultThreshold,
		fallback:   DefaultFallback,
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.Fit(entries); err != nil {
		return nil, err
	}
	return m, nil
}

// Fit rebuilds the vector space from entries and swaps it in. On error the
// previous model is kept.
func (m *Matcher) Fit(entries []domain.Entry) error {
	if err := faq.Validate(entries); err != nil {
		return err
	}
	owned := make([]domain.Entry, len(entries))
	copy(owned, entries)

	var docs []domain.Document
	for i, e := range owned {
		docs = append(docs, domain.Document{Entry: i, Text: m.normalizer.Normalize(e.Question)})
		for _, v := range e.Variants {
			docs = append(docs, domain.Document{Entry: i, Text: m.normalizer.Normalize(v)})
		}
	}
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}

	vectorizer := tfidf.NewVectorizer()
	if err := vectorizer.Fit(texts); err != nil {
		return fmt.Errorf("fit vectorizer: %w", err)
	}
	store := memory.NewStorage()
	if err := store.Init(vectorizer.Dimension()); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	vectors := make([][]float64, len(docs))
	for i, d := range docs {
		vec, err := vectorizer.Transform(d.Text)
		if err != nil {
			return fmt.Errorf("vectorize entry %d: %w", d.Entry, err)
		}
		vectors[i] = vec
	}
	if err := store.Upsert(docs, vectors); err != nil {
		return fmt.Errorf("store vectors: %w", err)
	}
	m.current.Store(&model{entries: owned, vectorizer: vectorizer, store: store})
	return nil
}

// Len returns the number of corpus entries.
func (m *Matcher) Len() int { return len(m.current.Load().entries) }

// Entry returns the corpus entry at index i.
func (m *Matcher) Entry(i int) (domain.Entry, bool) {
	entries := m.current.Load().entries
	if i < 0 || i >= len(entries) {
		return domain.Entry{}, false
	}
	return entries[i], true
}

// Threshold returns the acceptance threshold.
func (m *Matcher) Threshold() float64 { return m.threshold }

// Score returns the best matching entry for query. Ties go to the lowest
// index; a query with no known terms scores 0 against entry 0.
func (m *Matcher) Score(query string) domain.Match {
	return m.score(m.current.Load(), query)
}

func (m *Matcher) score(mdl *model, query string) domain.Match {
	vec, err := mdl.vectorizer.Transform(m.normalizer.Normalize(query))
	if err != nil {
		return domain.Match{}
	}
	res, err := mdl.store.Best(vec)
	if err != nil {
		return domain.Match{}
	}
	return domain.Match{Index: res.Document.Entry, Score: res.Score}
}

// Rank returns up to k entries ordered by their best score, ties by index.
func (m *Matcher) Rank(query string, k int) []domain.Match {
	mdl := m.current.Load()
	if k <= 0 || k > len(mdl.entries) {
		k = len(mdl.entries)
	}
	vec, err := mdl.vectorizer.Transform(m.normalizer.Normalize(query))
	if err != nil {
		return nil
	}
	results, err := mdl.store.Search(vec, mdl.store.Len())
	if err != nil {
		return nil
	}
	seen := make(map[int]struct{}, len(mdl.entries))
	out := make([]domain.Match, 0, k)
	for _, r := range results {
		if _, ok := seen[r.Document.Entry]; ok {
			continue
		}
		seen[r.Document.Entry] = struct{}{}
		out = append(out, domain.Match{Index: r.Document.Entry, Score: r.Score})
		if len(out) == k {
			break
		}
	}
	return out
}

// Respond returns the answer of the best entry when its score exceeds the
// threshold, otherwise the fallback.
func (m *Matcher) Respond(query string) domain.Reply {
	mdl := m.current.Load()
	match := m.score(mdl, query)
	if match.Score > m.threshold {
		return domain.Reply{Text: mdl.entries[match.Index].Answer, Matched: true, Match: match}
	}
	return domain.Reply{Text: m.fallback, Match: match}
}
