package embedding

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"unicode"
)

// HashingProvider is an offline embedder: lower-cased word tokens are hashed into a fixed
// number of signed buckets. It needs no network and is deterministic.
type HashingProvider struct {
	Dimension int
}

func NewHashingProvider(dimension int) *HashingProvider {
	if dimension <= 0 {
		dimension = 512
	}
	return &HashingProvider{Dimension: dimension}
}

func (p *HashingProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(tokens) == 0 {
		return nil, errors.New("hashing embedder: text has no tokens")
	}

	values := make([]float32, p.Dimension)
	for _, tok := range tokens {
		h := fnv.New64a()
		h.Write([]byte(tok))
		sum := h.Sum64()

		bucket := int(sum % uint64(p.Dimension))
		if sum>>63 == 1 {
			values[bucket]--
		} else {
			values[bucket]++
		}
	}

	return newEmbeddingResponse(values), nil
}
