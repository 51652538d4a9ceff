// Package engine resolves choice effects against character state.
//
// Resolution is pure: no I/O, no randomness, and the caller's character is
// never modified in place. Persisting the outcome is the caller's job.
package engine

//go:generate mockgen -destination=mock/mock_resolver.go -package=enginemock github.com/KirkDiggler/rpg-narrative/internal/engine Resolver

import (
	"slices"

	"github.com/KirkDiggler/rpg-narrative/internal/entities"
	"github.com/KirkDiggler/rpg-narrative/internal/errors"
)

// Resolver applies effects to characters
type Resolver interface {
	// Resolve returns the character after applying e and whether a stat
	// check failed.
	Resolve(c entities.Character, e entities.Effect) (entities.Character, bool)
}

// Config holds the dependencies of the resolver
type Config struct {
	Catalog *entities.Catalog
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}

	return vb.Build()
}

type resolver struct {
	catalog *entities.Catalog
}

// New creates a Resolver
func New(cfg *Config) (Resolver, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &resolver{catalog: cfg.Catalog}, nil
}

// NewDefault creates a Resolver over the default item catalog
func NewDefault() Resolver {
	return &resolver{catalog: entities.DefaultCatalog()}
}

var _ Resolver = (*resolver)(nil)

// Resolve implements Resolver
func (r *resolver) Resolve(c entities.Character, e entities.Effect) (entities.Character, bool) {
	out := c.Clone()
	failed := false

	switch e.Kind {
	case entities.EffectDamage:
		applyDamage(&out, e.Amount)

	case entities.EffectHeal:
		out.Health += min(e.Amount, max(out.MaxHealth-out.Health, 0))

	case entities.EffectAddItem:
		if _, ok := r.catalog.Get(e.Target); ok {
			out.Inventory = append(out.Inventory, e.Target)
		}

	case entities.EffectRemoveItem:
		if idx := slices.Index(out.Inventory, e.Target); idx >= 0 {
			out.Inventory = slices.Delete(out.Inventory, idx, idx+1)
		}

	case entities.EffectCheckStat:
		if out.Stat(e.Target) < e.Amount {
			applyDamage(&out, CheckFailureDamage)
			failed = true
		}
	}

	out.Health = min(max(out.Health, 0), out.MaxHealth)
	return out, failed
}

func applyDamage(c *entities.Character, n int) {
	c.Health = max(0, c.Health-n)
}
