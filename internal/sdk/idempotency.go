package sdk

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dantweb/vbwd-sdk/internal/cache"
)

const (
	idempotencyPrefix  = "idempotency:"
	idempotencyKeySize = 32

	DefaultIdempotencyTTL = 24 * time.Hour
)

// GenerateKey derives a stable key from provider, operation and args. Any
// change in any input changes the key.
func GenerateKey(provider, operation string, args ...any) string {
	parts := make([]string, 0, len(args)+2)
	parts = append(parts, provider, operation)
	for _, a := range args {
		if a == nil {
			parts = append(parts, "")
			continue
		}
		parts = append(parts, fmt.Sprint(a))
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:])[:idempotencyKeySize]
}

// IdempotencyService caches successful provider responses by key.
type IdempotencyService struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewIdempotencyService uses DefaultIdempotencyTTL when ttl is zero.
func NewIdempotencyService(c cache.Cache, ttl time.Duration) *IdempotencyService {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotencyService{cache: c, ttl: ttl}
}

func (s *IdempotencyService) GenerateKey(provider, operation string, args ...any) string {
	return GenerateKey(provider, operation, args...)
}

// Check returns the stored response, or nil when there is none.
func (s *IdempotencyService) Check(ctx context.Context, key string) (*Response, error) {
	raw, err := s.cache.Get(ctx, idempotencyPrefix+key)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("checking idempotency key: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decoding cached response: %w", err)
	}
	return &resp, nil
}

// Store saves resp under key. A zero ttl uses the service default.
func (s *IdempotencyService) Store(ctx context.Context, key string, resp Response, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.ttl
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	if err := s.cache.Set(ctx, idempotencyPrefix+key, raw, ttl); err != nil {
		return fmt.Errorf("storing idempotency key: %w", err)
	}
	return nil
}

func (s *IdempotencyService) Delete(ctx context.Context, key string) error {
	if err := s.cache.Delete(ctx, idempotencyPrefix+key); err != nil {
		return fmt.Errorf("deleting idempotency key: %w", err)
	}
	return nil
}
