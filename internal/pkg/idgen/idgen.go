// Package idgen generates party identifiers.
//
// IDs end up inside Redis keys, where ':' separates key segments and braces
// mark cluster hash tags, so prefixes may contain neither.
package idgen

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator generates unique identifiers
type Generator interface {
	Generate() string
}

const separator = "_"

// ValidPrefix reports whether prefix is safe to embed in a Redis key
func ValidPrefix(prefix string) bool {
	return !strings.ContainsAny(prefix, ":{} \t\n")
}

func join(prefix, id string) string {
	if prefix == "" {
		return id
	}
	return prefix + separator + id
}

// Sequential yields prefix_1, prefix_2, ... for deterministic tests
type Sequential struct {
	prefix string
	n      atomic.Uint64
}

// NewSequential creates a Sequential generator
func NewSequential(prefix string) *Sequential {
	return &Sequential{prefix: prefix}
}

// Generate returns the next ID
func (g *Sequential) Generate() string {
	return join(g.prefix, strconv.FormatUint(g.n.Add(1), 10))
}

// UUID yields prefixed version 7 UUIDs, which sort by creation time
type UUID struct {
	prefix string
}

// NewUUID creates a UUID generator
func NewUUID(prefix string) *UUID {
	return &UUID{prefix: prefix}
}

// Generate returns a new ID
func (g *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Only fails when the random source does; fall back to v4.
		id = uuid.New()
	}
	return join(g.prefix, id.String())
}

var (
	_ Generator = (*Sequential)(nil)
	_ Generator = (*UUID)(nil)
)
