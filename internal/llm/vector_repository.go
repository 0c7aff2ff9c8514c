package llm

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"slices"

	db "mealgen/internal/llm/vector_db"
)

// VectorRepository stores catalog item embeddings and answers cosine
// similarity searches over them. Vectors are serialized as little-endian
// float32 blobs.
type VectorRepository struct {
	queries *db.Queries
	db      *sql.DB
}

func NewVectorRepository(d *sql.DB) *VectorRepository {
	return &VectorRepository{
		queries: db.New(d),
		db:      d,
	}
}

// WithTx returns a new VectorRepository that uses the provided transaction.
func (r *VectorRepository) WithTx(tx *sql.Tx) *VectorRepository {
	return &VectorRepository{
		queries: r.queries.WithTx(tx),
		db:      r.db,
	}
}

func (r *VectorRepository) Save(ctx context.Context, itemID int64, embedding []float32) error {
	embeddingBytes, err := float32SliceToByteSlice(embedding)
	if err != nil {
		return fmt.Errorf("failed to convert float32 slice to byte slice: %w", err)
	}

	return r.queries.UpsertVector(ctx, db.UpsertVectorParams{
		ItemID:    itemID,
		Embedding: embeddingBytes,
	})
}

func (r *VectorRepository) Get(ctx context.Context, itemID int64) ([]float32, error) {
	row, err := r.queries.GetVectorByItemID(ctx, itemID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // embedding not found
		}
		return nil, fmt.Errorf("failed to get embedding for item %d: %w", itemID, err)
	}

	embedding, err := byteSliceToFloat32Slice(row.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to convert byte slice to float32 slice: %w", err)
	}
	return embedding, nil
}

// Count reports how many item embeddings are stored.
func (r *VectorRepository) Count(ctx context.Context) (int64, error) {
	return r.queries.CountVectors(ctx)
}

// FindSimilar returns the IDs of the items whose embeddings are closest to
// the query by cosine similarity, best first. restrictTo, when non-nil,
// limits candidates to that set of item IDs.
func (r *VectorRepository) FindSimilar(ctx context.Context, queryEmbedding []float32, limit int, restrictTo map[int64]struct{}) ([]int64, error) {
	allVectors, err := r.queries.ListAllVectors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list all embeddings: %w", err)
	}

	type scoredItem struct {
		ItemID int64
		Score  float64
	}

	scored := []scoredItem{}
	for _, row := range allVectors {
		if restrictTo != nil {
			if _, ok := restrictTo[row.ItemID]; !ok {
				continue
			}
		}

		embed, err := byteSliceToFloat32Slice(row.Embedding)
		if err != nil {
			log.Printf("Warning: failed to convert embedding for item %d: %v", row.ItemID, err)
			continue
		}

		scored = append(scored, scoredItem{
			ItemID: row.ItemID,
			Score:  cosineSimilarity(queryEmbedding, embed),
		})
	}

	// Sort by score descending, item ID ascending as a stable tie-break.
	slices.SortFunc(scored, func(a, b scoredItem) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		case a.ItemID < b.ItemID:
			return -1
		case a.ItemID > b.ItemID:
			return 1
		default:
			return 0
		}
	})

	if limit > len(scored) {
		limit = len(scored)
	}

	var result []int64
	for i := 0; i < limit; i++ {
		result = append(result, scored[i].ItemID)
	}
	return result, nil
}

// float32SliceToByteSlice converts a slice of float32 to a byte slice.
func float32SliceToByteSlice(floats []float32) ([]byte, error) {
	if len(floats) == 0 {
		return nil, nil
	}
	buf := make([]byte, 4*len(floats)) // 4 bytes per float32
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(f))
	}
	return buf, nil
}

// byteSliceToFloat32Slice converts a byte slice to a slice of float32.
func byteSliceToFloat32Slice(bytes []byte) ([]float32, error) {
	if len(bytes) == 0 {
		return nil, nil
	}
	if len(bytes)%4 != 0 {
		return nil, fmt.Errorf("byte slice length is not a multiple of 4")
	}
	floats := make([]float32, len(bytes)/4)
	for i := 0; i < len(bytes)/4; i++ {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(bytes[i*4 : (i+1)*4]))
	}
	return floats, nil
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
