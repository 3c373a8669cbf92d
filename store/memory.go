package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/Jerrywu108150/Sentiment-Stocks-APP/types"
)

// MemoryStore keeps collections in process memory. It backs tests and
// the no-DSN degraded mode; entries survive only as long as the process.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]memEntry
}

type memEntry struct {
	chunk     types.Chunk
	embedding []float32
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]memEntry),
	}
}

func (m *MemoryStore) EnsureCollection(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[name]; !ok {
		m.collections[name] = nil
	}
	return nil
}

func (m *MemoryStore) Upsert(_ context.Context, collection string, chunk types.Chunk, embedding []float32) error {
	vec := make([]float32, len(embedding))
	copy(vec, embedding)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection] = append(m.collections[collection], memEntry{
		chunk:     chunk,
		embedding: vec,
	})
	return nil
}

func (m *MemoryStore) Query(_ context.Context, collection string, embedding []float32, k int) ([]types.ScoredChunk, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("empty query vector")
	}

	m.mu.RLock()
	entries := m.collections[collection]
	scored := make([]types.ScoredChunk, 0, len(entries))
	for _, e := range entries {
		scored = append(scored, types.ScoredChunk{
			Chunk:      e.chunk,
			Similarity: cosineSimilarity(embedding, e.embedding),
		})
	}
	m.mu.RUnlock()

	// Stable sort keeps insertion order for equal similarities, so the
	// same query against unchanged state returns the same ordering.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// Size reports how many entries a collection holds.
func (m *MemoryStore) Size(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collection])
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
