// Package embed turns event text into fixed-length vectors and groups
// near-duplicate events into clusters by cosine similarity.
package embed

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

// HashingEmbedder is a deterministic, CPU-only embedder: it hashes
// whitespace-tokenized n-grams of the input text into fixed-length buckets
// and L2-normalizes the result. Given the same dim and the same text it
// always produces the same vector, with no external model dependency.
type HashingEmbedder struct {
	dim int
}

// NewHashingEmbedder constructs a HashingEmbedder producing vectors of the
// given dimension.
func NewHashingEmbedder(dim int) *HashingEmbedder {
	if dim <= 0 {
		dim = 64
	}
	return &HashingEmbedder{dim: dim}
}

// Embed implements domain.Embedder.
func (e *HashingEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, e.dim)
	tokens := tokenize(text)
	for i, tok := range tokens {
		bigram := tok
		if i+1 < len(tokens) {
			bigram = tok + "_" + tokens[i+1]
		}
		addHashed(vec, tok, 1.0)
		addHashed(vec, bigram, 0.5)
	}
	normalize(vec)
	return vec, nil
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:()[]\"'")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func addHashed(vec []float64, token string, weight float64) {
	if token == "" {
		return
	}
	sum := sha256.Sum256([]byte(token))
	idx := int(sum[0])<<8 | int(sum[1])
	vec[idx%len(vec)] += weight
}

func normalize(vec []float64) {
	var ss float64
	for _, v := range vec {
		ss += v * v
	}
	if ss == 0 {
		return
	}
	norm := math.Sqrt(ss)
	for i := range vec {
		vec[i] /= norm
	}
}

// cachedVector is the JSON envelope stored in Redis for one embedding,
// following the CachedAt/ExpiresAt envelope of a prior evidence cache
// adapted here for embedding vectors.
type cachedVector struct {
	Vector    []float64 `json:"vector"`
	CachedAt  time.Time `json:"cached_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CachingEmbedder wraps a domain.Embedder with a Redis-backed result cache,
// since the embedder runs over the same handful of representative terms
// and surface forms on every run.
type CachingEmbedder struct {
	inner      domain.Embedder
	redis      *redis.Client
	defaultTTL time.Duration
}

// NewCachingEmbedder constructs a CachingEmbedder. If cfg.Enabled is false,
// or the Redis ping fails, it returns inner unwrapped so the stage can still
// run without a cache.
func NewCachingEmbedder(ctx context.Context, inner domain.Embedder, cfg domain.CacheConfig, ttlSeconds int) (domain.Embedder, error) {
	if !cfg.Enabled {
		return inner, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return inner, nil
	}

	ttl := time.Duration(ttlSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachingEmbedder{inner: inner, redis: client, defaultTTL: ttl}, nil
}

// Embed implements domain.Embedder.
func (c *CachingEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	key := c.cacheKey(text)

	val, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		var cached cachedVector
		if json.Unmarshal([]byte(val), &cached) == nil && time.Now().Before(cached.ExpiresAt) {
			return cached.Vector, nil
		}
		c.redis.Del(ctx, key)
	} else if err != redis.Nil {
		return nil, fmt.Errorf("reading embedding cache: %w", err)
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	entry := cachedVector{Vector: vec, CachedAt: time.Now(), ExpiresAt: time.Now().Add(c.defaultTTL)}
	if payload, err := json.Marshal(entry); err == nil {
		c.redis.Set(ctx, key, payload, c.defaultTTL)
	}
	return vec, nil
}

func (c *CachingEmbedder) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("embed:vector:%x", sum[:8])
}

// Close releases the underlying Redis connection.
func (c *CachingEmbedder) Close() error { return c.redis.Close() }

var (
	_ domain.Embedder = (*HashingEmbedder)(nil)
	_ domain.Embedder = (*CachingEmbedder)(nil)
)
