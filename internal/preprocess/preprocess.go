package preprocess

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/clipperhouse/uax29/v2/words"
	"github.com/sirupsen/logrus"

	"faqbot/internal/domain"
)

var _ domain.Normalizer = (*Preprocessor)(nil)

// Lemmatizer reduces a word to its dictionary base form.
type Lemmatizer interface {
	Lemma(word string) string
}

// Preprocessor normalizes raw text into a space separated token string:
// lowercase, strip punctuation, segment words, drop stop words, lemmatize.
type Preprocessor struct {
	stripPattern *regexp.Regexp
	stopwords    map[string]struct{}
	lemmatizer   Lemmatizer
}

// Option customizes a Preprocessor.
type Option func(*Preprocessor)

// WithStopwords replaces the English stop-word set.
func WithStopwords(words []string) Option {
	return func(p *Preprocessor) {
		p.stopwords = toSet(words)
	}
}

// WithLemmatizer replaces the dictionary lemmatizer.
func WithLemmatizer(l Lemmatizer) Option {
	return func(p *Preprocessor) {
		p.lemmatizer = l
	}
}

// New creates a Preprocessor backed by the embedded English lemma dictionary.
func New(opts ...Option) (*Preprocessor, error) {
	p := &Preprocessor{
		stripPattern: regexp.MustCompile(`[^a-zA-Z0-9\s]`),
		stopwords:    toSet(englishStopwords),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.lemmatizer == nil {
		l, err := englishLemmatizer()
		if err != nil {
			return nil, err
		}
		p.lemmatizer = l
	}
	return p, nil
}

var (
	defaultOnce sync.Once
	defaultPre  *Preprocessor
)

// Default returns the shared English Preprocessor. The lemma dictionary is
// loaded once per process; if it cannot be loaded, words are kept unchanged
// and a warning is logged.
func Default(log logrus.FieldLogger) *Preprocessor {
	defaultOnce.Do(func() {
		p, err := New()
		if err != nil {
			log.WithError(err).Warn("lemma dictionary unavailable, continuing without lemmatization")
			p, _ = New(WithLemmatizer(identity{}))
		}
		defaultPre = p
	})
	return defaultPre
}

// Normalize returns the canonical token string for text. It may be empty.
func (p *Preprocessor) Normalize(text string) string {
	return strings.Join(p.Tokens(text), " ")
}

// Tokens returns the canonical tokens for text in input order.
func (p *Preprocessor) Tokens(text string) []string {
	cleaned := p.stripPattern.ReplaceAllString(strings.Map(spaceToASCII, strings.ToLower(text)), "")
	var out []string
	seg := words.FromString(cleaned)
	for seg.Next() {
		tok := strings.TrimSpace(seg.Value())
		if tok == "" {
			continue
		}
		if _, isStop := p.stopwords[tok]; isStop {
			continue
		}
		out = append(out, p.lemmatizer.Lemma(tok))
	}
	return out
}

var (
	lemmaOnce sync.Once
	lemma     *golem.Lemmatizer
	lemmaErr  error
)

func englishLemmatizer() (Lemmatizer, error) {
	lemmaOnce.Do(func() {
		lemma, lemmaErr = golem.New(en.New())
	})
	if lemmaErr != nil {
		return nil, lemmaErr
	}
	return lemma, nil
}

// spaceToASCII maps any Unicode whitespace to a plain space so it survives
// the ASCII strip as a word boundary.
func spaceToASCII(r rune) rune {
	if unicode.IsSpace(r) {
		return ' '
	}
	return r
}

type identity struct{}

func (identity) Lemma(word string) string { return word }

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
