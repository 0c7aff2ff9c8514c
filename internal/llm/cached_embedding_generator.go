package llm

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	db "mealgen/internal/llm/vector_db"
)

// CachedEmbeddingGenerator wraps an EmbeddingGenerator with a persistent
// cache keyed by a SHA-256 of the input text, reducing API calls when the
// same catalog text is embedded repeatedly.
type CachedEmbeddingGenerator struct {
	realGen EmbeddingGenerator
	queries *db.Queries
}

// NewCachedEmbeddingGenerator creates a new CachedEmbeddingGenerator backed
// by the embedding cache table.
func NewCachedEmbeddingGenerator(realGen EmbeddingGenerator, d *sql.DB) *CachedEmbeddingGenerator {
	return &CachedEmbeddingGenerator{
		realGen: realGen,
		queries: db.New(d),
	}
}

// GenerateEmbedding checks the cache first. If the embedding is not found,
// it calls the real generator, stores the result, and returns it.
func (c *CachedEmbeddingGenerator) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	hash := hashText(text)

	cached, err := c.queries.GetCachedEmbedding(ctx, hash)
	if err == nil {
		embedding, convErr := byteSliceToFloat32Slice(cached)
		if convErr == nil && len(embedding) > 0 {
			return embedding, nil
		}
		// A corrupt cache entry falls through to regeneration.
	} else if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read embedding cache: %w", err)
	}

	embedding, err := c.realGen.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	embeddingBytes, err := float32SliceToByteSlice(embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize embedding: %w", err)
	}

	if err := c.queries.UpsertCachedEmbedding(ctx, db.UpsertCachedEmbeddingParams{
		TextHash:  hash,
		Embedding: embeddingBytes,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("failed to write embedding cache: %w", err)
	}

	return embedding, nil
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
