package llm

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"

	"mealgen/internal/database"
)

type countingEmbedder struct {
	calls     int
	embedding []float32
	err       error
}

func (c *countingEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.embedding, nil
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCachedEmbeddingGenerator(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	embedder := &countingEmbedder{embedding: []float32{0.1, 0.2, 0.3}}
	cached := NewCachedEmbeddingGenerator(embedder, db.SQL)

	first, err := cached.GenerateEmbedding(ctx, "name: Penne Pasta")
	if err != nil {
		t.Fatalf("first generation failed: %v", err)
	}
	if !reflect.DeepEqual(first, []float32{0.1, 0.2, 0.3}) {
		t.Errorf("embedding = %v", first)
	}
	if embedder.calls != 1 {
		t.Fatalf("calls = %d, want 1", embedder.calls)
	}

	// Same text comes from the cache tier.
	second, err := cached.GenerateEmbedding(ctx, "name: Penne Pasta")
	if err != nil {
		t.Fatalf("cached generation failed: %v", err)
	}
	if !reflect.DeepEqual(second, first) {
		t.Errorf("cached embedding = %v, want %v", second, first)
	}
	if embedder.calls != 1 {
		t.Errorf("calls = %d, want 1 after cache hit", embedder.calls)
	}

	// Different text misses.
	if _, err := cached.GenerateEmbedding(ctx, "name: Rigatoni"); err != nil {
		t.Fatalf("second text failed: %v", err)
	}
	if embedder.calls != 2 {
		t.Errorf("calls = %d, want 2", embedder.calls)
	}
}

func TestCachedEmbeddingGeneratorPropagatesErrors(t *testing.T) {
	db := newTestDB(t)

	embedder := &countingEmbedder{err: fmt.Errorf("quota exceeded")}
	cached := NewCachedEmbeddingGenerator(embedder, db.SQL)

	if _, err := cached.GenerateEmbedding(context.Background(), "anything"); err == nil {
		t.Fatal("expected an error from the underlying generator")
	}
	// Failures must not poison the cache.
	embedder.err = nil
	embedder.embedding = []float32{1}
	if _, err := cached.GenerateEmbedding(context.Background(), "anything"); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if embedder.calls != 2 {
		t.Errorf("calls = %d, want 2", embedder.calls)
	}
}

func TestVectorRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewVectorRepository(db.SQL)

	vectors := map[int64][]float32{
		1: {1, 0, 0},
		2: {0.9, 0.1, 0},
		3: {0, 1, 0},
		4: {0, 0, 1},
	}
	for id, vec := range vectors {
		if err := repo.Save(ctx, id, vec); err != nil {
			t.Fatalf("failed to save vector %d: %v", id, err)
		}
	}

	t.Run("round trip", func(t *testing.T) {
		got, err := repo.Get(ctx, 2)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !reflect.DeepEqual(got, []float32{0.9, 0.1, 0}) {
			t.Errorf("vector = %v", got)
		}
	})

	t.Run("missing vector", func(t *testing.T) {
		got, err := repo.Get(ctx, 999)
		if err != nil || got != nil {
			t.Errorf("Get(999) = %v, %v, want nil, nil", got, err)
		}
	})

	t.Run("count", func(t *testing.T) {
		n, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if n != 4 {
			t.Errorf("count = %d, want 4", n)
		}
	})

	t.Run("similarity ranking", func(t *testing.T) {
		ids, err := repo.FindSimilar(ctx, []float32{1, 0, 0}, 2, nil)
		if err != nil {
			t.Fatalf("FindSimilar failed: %v", err)
		}
		if !reflect.DeepEqual(ids, []int64{1, 2}) {
			t.Errorf("ids = %v, want [1 2]", ids)
		}
	})

	t.Run("restricted to a store subset", func(t *testing.T) {
		allow := map[int64]struct{}{3: {}, 4: {}}
		ids, err := repo.FindSimilar(ctx, []float32{1, 0, 0}, 10, allow)
		if err != nil {
			t.Fatalf("FindSimilar failed: %v", err)
		}
		if len(ids) != 2 {
			t.Fatalf("ids = %v, want 2 entries", ids)
		}
		for _, id := range ids {
			if _, ok := allow[id]; !ok {
				t.Errorf("id %d outside the allowed subset", id)
			}
		}
	})

	t.Run("overwrite keeps one row per item", func(t *testing.T) {
		if err := repo.Save(ctx, 1, []float32{0, 0, 1}); err != nil {
			t.Fatalf("re-save failed: %v", err)
		}
		n, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if n != 4 {
			t.Errorf("count = %d, want 4 after upsert", n)
		}
	})
}
