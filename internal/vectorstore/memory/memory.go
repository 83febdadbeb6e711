package memory

import (
	"errors"
	"sort"
	"sync"

	"faqbot/internal/domain"
)

var (
	ErrDimension = errors.New("vector dimension mismatch")
	ErrEmpty     = errors.New("vector store is empty")
)

var _ domain.VectorStore = (*Storage)(nil)

// Storage is a simple in-memory vector store using brute-force cosine similarity.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	docs      []domain.Document
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	s.docs = nil
	return nil
}

func (s *Storage) Upsert(docs []domain.Document, vectors [][]float64) error {
	if len(docs) != len(vectors) {
		return errors.New("documents and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.dimension {
			return ErrDimension
		}
	}
	s.docs = append(s.docs, docs...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Len returns the number of stored documents.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Best returns the highest scoring document. Ties go to the earliest
// stored document.
func (s *Storage) Best(vector []float64) (domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.vectors) == 0 {
		return domain.SearchResult{}, ErrEmpty
	}
	if len(vector) != s.dimension {
		return domain.SearchResult{}, ErrDimension
	}
	best := 0
	bestScore := cosine(s.vectors[0], vector)
	for i := 1; i < len(s.vectors); i++ {
		if sc := cosine(s.vectors[i], vector); sc > bestScore {
			best, bestScore = i, sc
		}
	}
	return domain.SearchResult{Position: best, Document: s.docs[best], Score: bestScore}, nil
}

// Search returns up to topK documents by descending score, ties in
// storage order.
func (s *Storage) Search(vector []float64, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(vector) != s.dimension {
		return nil, ErrDimension
	}
	if topK <= 0 {
		topK = 5
	}
	results := make([]domain.SearchResult, len(s.vectors))
	for i := range s.vectors {
		results[i] = domain.SearchResult{Position: i, Document: s.docs[i], Score: cosine(s.vectors[i], vector)}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	s.docs = nil
	return nil
}

// cosine assumes L2-normalized or zero vectors, so the dot product is the
// cosine similarity. The result is clamped to [0, 1].
func cosine(a, b []float64) float64 {
	sum := dot(a, b)
	if sum < 0 {
		return 0
	}
	if sum > 1 {
		return 1
	}
	return sum
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
