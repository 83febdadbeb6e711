package tfidf

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"faqbot/internal/domain"
)

var (
	ErrEmptyCorpus     = errors.New("empty corpus for TF-IDF fit")
	ErrEmptyVocabulary = errors.New("no terms found in corpus")
	ErrNotFitted       = errors.New("tfidf vectorizer not fitted")
)

var _ domain.Vectorizer = (*Vectorizer)(nil)

// Vectorizer implements TF-IDF weighting over preprocessed token strings.
// Terms are separated by whitespace and must be at least two characters
// long; normalization happens upstream.
type Vectorizer struct {
	vocabulary map[string]int
	terms      []string
	idf        []float64
	fitted     bool
}

// NewVectorizer creates an unfitted TF-IDF vectorizer.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{vocabulary: make(map[string]int)}
}

// Fit builds the vocabulary and IDF values from the provided corpus,
// replacing any previous fit.
func (v *Vectorizer) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return ErrEmptyCorpus
	}
	// Build vocabulary and document frequencies
	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range splitTerms(doc) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return ErrEmptyVocabulary
	}
	// Create stable ordering for vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		vocabulary[term] = i
		// Smoothed IDF
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	v.vocabulary = vocabulary
	v.terms = terms
	v.idf = idf
	v.fitted = true
	return nil
}

// Dimension returns the vocabulary size.
func (v *Vectorizer) Dimension() int { return len(v.terms) }

// Vocabulary returns the fitted terms in dimension order.
func (v *Vectorizer) Vocabulary() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// IDF returns the weight of term and whether it is in the vocabulary.
func (v *Vectorizer) IDF(term string) (float64, bool) {
	idx, ok := v.vocabulary[term]
	if !ok {
		return 0, false
	}
	return v.idf[idx], true
}

// Transform computes the L2-normalized TF-IDF vector for doc. Terms outside
// the vocabulary are ignored; a doc with no known terms yields the zero vector.
func (v *Vectorizer) Transform(doc string) ([]float64, error) {
	if !v.fitted {
		return nil, ErrNotFitted
	}
	vec := make([]float64, len(v.terms))
	tf := make(map[int]int)
	total := 0
	for _, tok := range splitTerms(doc) {
		if idx, ok := v.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}
	for idx, count := range tf {
		tfv := float64(count) / float64(total)
		vec[idx] = tfv * v.idf[idx]
	}
	// L2 normalize
	norm := 0.0
	for _, x := range vec {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// splitTerms splits doc on whitespace and drops single-character tokens.
func splitTerms(doc string) []string {
	fields := strings.Fields(doc)
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) < 2 {
			continue
		}
		out = append(out, f)
	}
	return out
}
