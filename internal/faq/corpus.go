package faq

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"faqbot/internal/domain"
)

var ErrNoEntries = errors.New("faq corpus has no entries")

// File is the on-disk layout of a corpus file.
type File struct {
	Entries []domain.Entry `yaml:"entries"`
}

// Default returns the built-in store FAQ.
func Default() []domain.Entry {
	return []domain.Entry{
		{
			Question: "What is your return policy?",
			Answer:   "Our return policy allows returns within 30 days of purchase with a receipt for a full refund.",
			Variants: []string{"Refunds"},
		},
		{
			Question: "How can I track my order?",
			Answer:   "You can track your order by logging into your account and viewing your order history.",
		},
		{
			Question: "What payment methods do you accept?",
			Answer:   "We accept all major credit cards, PayPal, and Apple Pay.",
		},
		{
			Question: "How do I contact customer support?",
			Answer:   "You can contact support via email at support@example.com or call us at 1-800-123-4567.",
		},
		{
			Question: "Do you offer international shipping?",
			Answer:   "Yes, we offer international shipping with rates calculated at checkout.",
		},
		{
			Question: "What are your business hours?",
			Answer:   "Our customer service is available Monday to Friday from 9 AM to 5 PM EST.",
		},
		{
			Question: "How can I reset my password?",
			Answer:   "Visit the password reset page and enter your email to receive a reset link.",
		},
		{
			Question: "Where are your products made?",
			Answer:   "Our products are manufactured in facilities that meet international quality standards.",
		},
		{
			Question: "What is your warranty policy?",
			Answer:   "All products come with a 1-year limited warranty against manufacturing defects.",
		},
		{
			Question: "Can I change or cancel my order?",
			Answer:   "You can change or cancel your order within 1 hour of placement from your order history.",
		},
	}
}

// Load reads a YAML corpus file.
func Load(path string) ([]domain.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a YAML corpus.
func Parse(data []byte) ([]domain.Entry, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode faq corpus: %w", err)
	}
	if err := Validate(f.Entries); err != nil {
		return nil, err
	}
	return f.Entries, nil
}

// Validate checks that every entry has a question and an answer.
func Validate(entries []domain.Entry) error {
	if len(entries) == 0 {
		return ErrNoEntries
	}
	for i, e := range entries {
		if strings.TrimSpace(e.Question) == "" {
			return fmt.Errorf("faq entry %d: empty question", i)
		}
		if strings.TrimSpace(e.Answer) == "" {
			return fmt.Errorf("faq entry %d: empty answer", i)
		}
	}
	return nil
}
