package embeddings

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/resumatch/resumatch/pkg/logx"
)

// CachedGenerator wraps a Generator with a Redis read-through cache.
// Embeddings for identical text are deterministic per model, so cache
// hits are always safe to serve.
type CachedGenerator struct {
	inner *Generator
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedGenerator(inner *Generator, rdb *redis.Client, ttl time.Duration) *CachedGenerator {
	return &CachedGenerator{
		inner: inner,
		rdb:   rdb,
		ttl:   ttl,
	}
}

// cacheKey hashes model and text together so a model change never
// serves stale vectors.
func cacheKey(text string) string {
	h := sha256.New()
	h.Write([]byte(Model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return "emb:" + hex.EncodeToString(h.Sum(nil))
}

// GenerateEmbedding returns the cached vector when present, otherwise
// generates and stores it. Cache failures degrade to direct generation.
func (c *CachedGenerator) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(text)

	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var vec []float32
		if jsonErr := json.Unmarshal(raw, &vec); jsonErr == nil {
			return vec, nil
		}
		// Unreadable entry, drop it and regenerate.
		c.rdb.Del(ctx, key)
	} else if err != redis.Nil {
		logx.Warnf("Embedding cache read failed: %v", err)
	}

	vec, err := c.inner.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, vec)
	return vec, nil
}

// GenerateBatchEmbeddings serves cached vectors and generates only the
// misses, preserving input order.
func (c *CachedGenerator) GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	missTexts := make([]string, 0, len(texts))
	missIdx := make([]int, 0, len(texts))

	for i, text := range texts {
		raw, err := c.rdb.Get(ctx, cacheKey(text)).Bytes()
		if err != nil {
			missTexts = append(missTexts, text)
			missIdx = append(missIdx, i)
			continue
		}
		var vec []float32
		if jsonErr := json.Unmarshal(raw, &vec); jsonErr != nil {
			missTexts = append(missTexts, text)
			missIdx = append(missIdx, i)
			continue
		}
		results[i] = vec
	}

	if len(missTexts) > 0 {
		generated, err := c.inner.GenerateBatchEmbeddings(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		for n, vec := range generated {
			i := missIdx[n]
			results[i] = vec
			c.store(ctx, cacheKey(texts[i]), vec)
		}
	}
	return results, nil
}

func (c *CachedGenerator) store(ctx context.Context, key string, vec []float32) {
	raw, err := json.Marshal(vec)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logx.Warnf("Embedding cache write failed: %v", err)
	}
}
