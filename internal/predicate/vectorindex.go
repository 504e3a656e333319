package predicate

import (
	"context"
	"math"
	"sort"

	"github.com/vital-ai/kgraphinfer/internal/value"
)

// Embedder turns text into a fixed-dimension embedding vector. Callers
// supply their own implementation (spec.md §2 treats the embedding model
// itself as an external collaborator, out of scope for this engine).
type Embedder interface {
	Embed(text string) ([]float64, error)
}

// VectorIndex is a nearest-neighbour predicate, grounded on the original's
// FilterVectorPredicate (original filter_vector_predicate.py): arity 3
// (query string, matching id, cosine distance) over a fixed (id,
// description) corpus. The original builds an hnswlib approximate index
// over embeddings produced by vital_ai_vitalsigns' EmbeddingModel; no ANN
// index library (hnswlib or equivalent) appeared anywhere in the retrieved
// example pack, so VectorIndex scores every corpus vector by brute-force
// cosine similarity instead of an approximate index — exact rather than
// approximate, and the right trade for the corpus sizes this engine
// targets.
type VectorIndex struct {
	ids      []value.Value
	vectors  [][]float64
	embedder Embedder
	topK     int
}

// NewVectorIndex embeds every description up front and keeps the resulting
// vectors alongside their ids.
func NewVectorIndex(ids []value.Value, descriptions []string, embedder Embedder, topK int) (*VectorIndex, error) {
	vectors := make([][]float64, len(descriptions))
	for i, d := range descriptions {
		v, err := embedder.Embed(d)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return &VectorIndex{ids: ids, vectors: vectors, embedder: embedder, topK: topK}, nil
}

func (v *VectorIndex) Arity() int            { return 3 }
func (v *VectorIndex) Annotations() []string { return []string{"query", "matchID", "distance"} }

func cosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

type vectorMatch struct {
	id       value.Value
	distance float64
}

func (v *VectorIndex) EvalImpl(_ context.Context, input map[int]value.Value) ([]map[int]value.Value, error) {
	query, ok := input[0]
	if !ok || query.Kind != value.String {
		return nil, nil
	}

	qv, err := v.embedder.Embed(query.S)
	if err != nil {
		return nil, err
	}

	matches := make([]vectorMatch, len(v.vectors))
	for i, vec := range v.vectors {
		// Distance, like the original's hnswlib cosine space, is
		// 1 - similarity: 0 is an exact match, larger is further away.
		matches[i] = vectorMatch{id: v.ids[i], distance: 1 - cosineSimilarity(qv, vec)}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].distance < matches[j].distance })

	if v.topK > 0 && len(matches) > v.topK {
		matches = matches[:v.topK]
	}

	results := make([]map[int]value.Value, 0, len(matches))
	for _, m := range matches {
		results = append(results, map[int]value.Value{
			0: query,
			1: m.id,
			2: value.NewFloat(math.Round(m.distance*10000) / 10000),
		})
	}
	return results, nil
}
