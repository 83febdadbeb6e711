package matcher

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faqbot/internal/domain"
	"faqbot/internal/embedding/tfidf"
	"faqbot/internal/faq"
	"faqbot/internal/preprocess"
)

func newDefault(t *testing.T, opts ...Option) *Matcher {
	t.Helper()
	pre, err := preprocess.New()
	require.NoError(t, err)
	m, err := New(pre, faq.Default(), opts...)
	require.NoError(t, err)
	return m
}

type plain struct{}

func (plain) Lemma(word string) string { return word }

func newPlain(t *testing.T, entries []domain.Entry, opts ...Option) *Matcher {
	t.Helper()
	pre, err := preprocess.New(preprocess.WithLemmatizer(plain{}))
	require.NoError(t, err)
	m, err := New(pre, entries, opts...)
	require.NoError(t, err)
	return m
}

func TestSelfMatch(t *testing.T) {
	m := newDefault(t)
	for i, e := range faq.Default() {
		match := m.Score(e.Question)
		assert.Equal(t, i, match.Index, e.Question)
		assert.InDelta(t, 1.0, match.Score, 1e-9, e.Question)

		reply := m.Respond(e.Question)
		assert.True(t, reply.Matched)
		assert.Equal(t, e.Answer, reply.Text)
	}
}

func TestScoreRange(t *testing.T) {
	m := newDefault(t)
	queries := []string{
		"", "   ", "?!", "order", "tracking my orders", "password reset link",
		"international shipping rates", "hours", "asdlkjasd", "what what what",
	}
	for _, q := range queries {
		match := m.Score(q)
		assert.GreaterOrEqual(t, match.Index, 0, q)
		assert.Less(t, match.Index, m.Len(), q)
		assert.GreaterOrEqual(t, match.Score, 0.0, q)
		assert.LessOrEqual(t, match.Score, 1.0, q)
	}
}

func TestFallback(t *testing.T) {
	m := newDefault(t)
	for _, q := range []string{"", "    \t", "?!?...", "asdlkjasd", "the is a"} {
		reply := m.Respond(q)
		assert.False(t, reply.Matched, q)
		assert.Equal(t, DefaultFallback, reply.Text, q)
	}
	assert.Equal(t, domain.Match{}, m.Score(""))
}

func TestCaseAndPunctuationInsensitive(t *testing.T) {
	m := newDefault(t)
	a := m.Score("WHAT is Your RETURN policy?!")
	b := m.Score("what is your return policy")
	assert.Equal(t, b, a)
	assert.Equal(t, 0, a.Index)
}

func TestLemmatizedMatch(t *testing.T) {
	m := newDefault(t)
	match := m.Score("tracking my orders")
	assert.Equal(t, 1, match.Index)
	assert.Greater(t, match.Score, DefaultThreshold)
}

func TestEndToEnd(t *testing.T) {
	m := newDefault(t)
	reply := m.Respond("How do I get a refund?")
	assert.True(t, reply.Matched)
	assert.Equal(t, "Our return policy allows returns within 30 days of purchase with a receipt for a full refund.", reply.Text)

	reply = m.Respond("asdlkjasd")
	assert.False(t, reply.Matched)
	assert.Equal(t, "I'm not sure I understand. Could you rephrase your question?", reply.Text)
}

func TestGenericVerbDoesNotSelectReturnPolicy(t *testing.T) {
	m := newDefault(t)
	for _, q := range []string{"How do I get help?", "Where can I get a catalog?"} {
		reply := m.Respond(q)
		assert.False(t, reply.Matched, q)
		assert.Equal(t, DefaultFallback, reply.Text, q)
		assert.Equal(t, 0.0, reply.Match.Score, q)
	}

	// only "order" is a known term, which belongs to the tracking entry first
	reply := m.Respond("How can I get my order?")
	assert.NotEqual(t, 0, reply.Match.Index)
	assert.Equal(t, 1, reply.Match.Index)
	assert.Equal(t, m.Score("order"), reply.Match)
}

func TestDeterministic(t *testing.T) {
	m := newDefault(t)
	first := m.Respond("can I cancel an order")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, m.Respond("can I cancel an order"))
	}
}

func TestTieGoesToLowestIndex(t *testing.T) {
	m := newPlain(t, []domain.Entry{
		{Question: "alpha beta", Answer: "first"},
		{Question: "alpha gamma", Answer: "second"},
		{Question: "beta alpha", Answer: "third"},
	})
	match := m.Score("beta alpha")
	assert.Equal(t, 0, match.Index)
	assert.InDelta(t, 1.0, match.Score, 1e-9)

	m = newPlain(t, []domain.Entry{
		{Question: "alpha beta", Answer: "first"},
		{Question: "alpha gamma", Answer: "second"},
	})
	// beta and gamma share a document frequency, so alpha scores both equally
	match = m.Score("alpha")
	assert.Equal(t, 0, match.Index)
	assert.Equal(t, 1, m.Score("gamma").Index)
}

func TestThresholdIsStrict(t *testing.T) {
	entries := []domain.Entry{{Question: "alpha beta", Answer: "yes"}}
	m := newPlain(t, entries, WithThreshold(1.0), WithFallback("no"))
	reply := m.Respond("alpha beta")
	assert.False(t, reply.Matched)
	assert.Equal(t, "no", reply.Text)
	assert.Equal(t, 1.0, m.Threshold())

	m = newPlain(t, entries, WithThreshold(0.99))
	assert.Equal(t, "yes", m.Respond("alpha beta").Text)
}

func TestVariants(t *testing.T) {
	m := newPlain(t, []domain.Entry{
		{Question: "return policy", Answer: "returns", Variants: []string{"refund"}},
		{Question: "track order", Answer: "tracking"},
	})
	match := m.Score("refund")
	assert.Equal(t, 0, match.Index)
	assert.InDelta(t, 1.0, match.Score, 1e-9)

	match = m.Score("track order")
	assert.Equal(t, 1, match.Index)
}

func TestRank(t *testing.T) {
	m := newDefault(t)
	ranked := m.Rank("order", 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, 1, ranked[0].Index)
	assert.Equal(t, 9, ranked[1].Index)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)

	all := m.Rank("order", 0)
	require.Len(t, all, 10)
	idx := make([]int, len(all))
	for i, r := range all {
		idx[i] = r.Index
	}
	assert.Equal(t, []int{1, 9, 0, 2, 3, 4, 5, 6, 7, 8}, idx)
}

func TestRefit(t *testing.T) {
	m := newDefault(t)
	require.NoError(t, m.Fit([]domain.Entry{{Question: "Do you sell gift cards?", Answer: "Yes, online."}}))
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, "Yes, online.", m.Respond("gift cards").Text)
	assert.Equal(t, DefaultFallback, m.Respond("What is your return policy?").Text)

	e, ok := m.Entry(0)
	require.True(t, ok)
	assert.Equal(t, "Do you sell gift cards?", e.Question)
	_, ok = m.Entry(1)
	assert.False(t, ok)
}

func TestFailedRefitKeepsModel(t *testing.T) {
	m := newDefault(t)
	assert.ErrorIs(t, m.Fit(nil), faq.ErrNoEntries)
	err := m.Fit([]domain.Entry{{Question: "how do I", Answer: "stop words only"}})
	assert.ErrorIs(t, err, tfidf.ErrEmptyVocabulary)
	assert.Equal(t, 10, m.Len())
	assert.True(t, m.Respond("What is your return policy?").Matched)
}

func TestNewRejectsEmptyCorpus(t *testing.T) {
	pre, err := preprocess.New()
	require.NoError(t, err)
	_, err = New(pre, nil)
	assert.ErrorIs(t, err, faq.ErrNoEntries)
}

func TestFitDoesNotAliasInput(t *testing.T) {
	entries := []domain.Entry{{Question: "alpha", Answer: "a"}}
	m := newPlain(t, entries)
	entries[0].Answer = "changed"
	assert.Equal(t, "a", m.Respond("alpha").Text)
}

func TestConcurrentRefit(t *testing.T) {
	first := []domain.Entry{{Question: "alpha", Answer: "A"}}
	second := []domain.Entry{{Question: "alpha", Answer: "B"}, {Question: "beta", Answer: "C"}}
	m := newPlain(t, first)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			corpus := first
			if i%2 == 0 {
				corpus = second
			}
			assert.NoError(t, m.Fit(corpus))
		}
	}()
	for i := 0; i < 100; i++ {
		text := m.Respond("alpha").Text
		assert.Contains(t, []string{"A", "B"}, text)
	}
	wg.Wait()
}
