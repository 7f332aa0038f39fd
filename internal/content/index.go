package content

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
)

// Neighbor is one nearest-neighbour hit from the index.
type Neighbor struct {
	Word       string
	Similarity float64
}

// Index is an in-memory nearest-neighbour index over a lexicon's
// embeddings, backed by a chromem-go collection. Built once per lexicon
// and shared read-only by sessions.
type Index struct {
	lexicon    *Lexicon
	collection *chromem.Collection
}

// NewIndex builds the index for a lexicon. The embedding function is a
// plain lexicon lookup, so queries are exact and deterministic.
func NewIndex(lex *Lexicon) (*Index, error) {
	db := chromem.NewDB()

	embed := func(_ context.Context, word string) ([]float32, error) {
		v, ok := lex.Vector(word)
		if !ok {
			return nil, fmt.Errorf("content: word %q not in lexicon", word)
		}
		return toFloat32(v), nil
	}

	name := fmt.Sprintf("lexicon-%s", lex.Language)
	collection, err := db.GetOrCreateCollection(name, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("content: create collection: %w", err)
	}

	ctx := context.Background()
	for _, e := range lex.Words {
		doc := chromem.Document{
			ID:        e.Word,
			Content:   e.Word,
			Embedding: toFloat32(e.Vector),
			Metadata:  map[string]string{"theme": e.Theme},
		}
		if err := collection.AddDocument(ctx, doc); err != nil {
			return nil, fmt.Errorf("content: index word %q: %w", e.Word, err)
		}
	}

	return &Index{lexicon: lex, collection: collection}, nil
}

// Neighbors returns up to k lexicon words nearest to the given word,
// most similar first. The word itself is excluded.
func (ix *Index) Neighbors(ctx context.Context, word string, k int) ([]Neighbor, error) {
	if _, ok := ix.lexicon.Lookup(word); !ok {
		return nil, fmt.Errorf("content: word %q not in lexicon", word)
	}

	// Ask for one extra so dropping the word itself still yields k.
	n := k + 1
	if max := ix.collection.Count(); n > max {
		n = max
	}

	results, err := ix.collection.Query(ctx, word, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("content: neighbor query for %q: %w", word, err)
	}

	neighbors := make([]Neighbor, 0, k)
	for _, r := range results {
		if r.ID == word {
			continue
		}
		neighbors = append(neighbors, Neighbor{
			Word:       r.ID,
			Similarity: float64(r.Similarity),
		})
		if len(neighbors) == k {
			break
		}
	}

	return neighbors, nil
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
