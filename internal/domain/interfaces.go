package domain

// Entry is a single FAQ item. Its position in the corpus is its identity.
type Entry struct {
	Question string   `yaml:"question"`
	Answer   string   `yaml:"answer"`
	Variants []string `yaml:"variants,omitempty"`
}

// Document is one vectorized phrasing of an entry's question.
type Document struct {
	Entry int
	Text  string
}

// SearchResult represents a matching document with a relevance score.
type SearchResult struct {
	Position int
	Document Document
	Score    float64
}

// Match is the best entry for a query and its cosine similarity.
type Match struct {
	Index int
	Score float64
}

// Reply is the outcome of a single question/answer turn.
type Reply struct {
	Text    string
	Matched bool
	Match   Match
}

// Normalizer turns raw text into a canonical token string.
type Normalizer interface {
	Normalize(text string) string
}

// Vectorizer converts normalized text into a numeric vector representation.
// Implementations require a fitting phase over the corpus.
type Vectorizer interface {
	Fit(corpus []string) error
	Dimension() int
	Transform(text string) ([]float64, error)
}

// VectorStore keeps document vectors and supports similarity search.
type VectorStore interface {
	Init(dimension int) error
	Upsert(docs []Document, vectors [][]float64) error
	Best(vector []float64) (SearchResult, error)
	Search(vector []float64, topK int) ([]SearchResult, error)
	Clear() error
}
