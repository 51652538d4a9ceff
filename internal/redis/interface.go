package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client wraps redis.UniversalClient so stores depend on a local type and
// work against single-node, cluster and in-memory test servers alike.
type Client interface {
	redis.UniversalClient
}
