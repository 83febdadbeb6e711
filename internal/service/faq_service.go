package service

import (
	"strings"

	"github.com/sirupsen/logrus"

	"faqbot/internal/domain"
)

const greeting = "Hello! Ask me about our products/services."

// Matcher is the core the service answers from.
type Matcher interface {
	Rank(query string, k int) []domain.Match
	Respond(query string) domain.Reply
	Entry(i int) (domain.Entry, bool)
	Len() int
}

// RankedEntry is a ranked corpus entry for display.
type RankedEntry struct {
	domain.Match
	Question string
}

type FAQService struct {
	matcher Matcher
	log     logrus.FieldLogger
}

func NewFAQService(matcher Matcher, log logrus.FieldLogger) *FAQService {
	return &FAQService{matcher: matcher, log: log}
}

// Greeting is the first line of every chat session.
func (s *FAQService) Greeting() string { return greeting }

// Ask answers a single question. Blank input gets the fallback reply.
func (s *FAQService) Ask(query string) domain.Reply {
	q := strings.TrimSpace(query)
	reply := s.matcher.Respond(q)
	s.log.WithFields(logrus.Fields{
		"query":   q,
		"index":   reply.Match.Index,
		"score":   reply.Match.Score,
		"matched": reply.Matched,
	}).Debug("answered question")
	return reply
}

// Rank lists the k closest entries for query.
func (s *FAQService) Rank(query string, k int) []RankedEntry {
	q := strings.TrimSpace(query)
	matches := s.matcher.Rank(q, k)
	out := make([]RankedEntry, 0, len(matches))
	for _, m := range matches {
		e, ok := s.matcher.Entry(m.Index)
		if !ok {
			continue
		}
		out = append(out, RankedEntry{Match: m, Question: e.Question})
	}
	s.log.WithFields(logrus.Fields{"query": q, "results": len(out)}).Debug("ranked entries")
	return out
}

// Size returns the number of FAQ entries being served.
func (s *FAQService) Size() int { return s.matcher.Len() }
