package model

import "context"

// Embedder maps text to a fixed-length vector. Implementations are
// swappable; the index manager only depends on this interface.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
