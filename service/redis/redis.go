package redis

import (
	"errors"
	"time"

	"github.com/x-xyz/auctionapi/base/ctx"
)

// Forever means the key has no associated expire
const Forever = time.Duration(-1)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("key not found")

	// ErrNoTTL is returned when the key exists but has no associated expire
	ErrNoTTL = errors.New("key has no ttl")
)

// Service is a thin facade over redigo
type Service interface {
	Get(context ctx.Ctx, key string) ([]byte, error)
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	Del(context ctx.Ctx, ks ...string) (int, error)
	Incr(context ctx.Ctx, key string) (int64, error)
	Incrby(context ctx.Ctx, key string, val int) (int64, error)
	Exists(context ctx.Ctx, key string) (bool, error)
	TTL(context ctx.Ctx, key string) (int, error)
}
