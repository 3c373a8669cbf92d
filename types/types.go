package types

import (
	"github.com/google/uuid"
)

// NewsRecord is one headline/summary pair returned by the news provider.
// Records are ephemeral: they only live long enough to be chunked.
type NewsRecord struct {
	Title   string
	Summary string
	URL     string
}

// ChunkMetadata carries the provenance of a chunk: which symbol and
// day it was ingested for, and the article it came from.
type ChunkMetadata struct {
	Symbol string
	Date   string
	URL    string
}

// Chunk is a bounded span of normalized news text. Immutable once built.
type Chunk struct {
	ID   uuid.UUID
	Text string
	Meta ChunkMetadata
}

// ScoredChunk is a chunk returned from a similarity query.
// Higher similarity means more relevant.
type ScoredChunk struct {
	Chunk
	Similarity float64
}
