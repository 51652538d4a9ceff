package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-narrative/internal/entities"
)

const (
	// DefaultCheckThreshold applies to "check:<stat>" without a threshold
	DefaultCheckThreshold = 10

	// CheckFailureDamage is the penalty for a failed stat check
	CheckFailureDamage = 20

	// MaxAmount bounds parsed damage, heal and threshold values
	MaxAmount = 1_000_000
)

// ErrUnparsableEffect is returned for effect strings outside the grammar.
// The accompanying effect is always the zero (no effect) value.
var ErrUnparsableEffect = errors.New("unparsable effect")

// ParseEffect parses the authoring grammar:
//
//	hp-<n>             damage
//	heal:<n>           heal
//	add:<item>         grant item
//	remove:<item>      remove item
//	check:<stat>       stat check against DefaultCheckThreshold
//	check:<stat>:<n>   stat check against n
//
// The empty string is no effect and not an error.
func ParseEffect(raw string) (entities.Effect, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return entities.Effect{}, nil
	}

	switch {
	case strings.HasPrefix(s, "hp-"):
		n, err := parseAmount(s, strings.TrimPrefix(s, "hp-"))
		if err != nil {
			return entities.Effect{}, err
		}
		return entities.Damage(n), nil

	case strings.HasPrefix(s, "heal:"):
		n, err := parseAmount(s, strings.TrimPrefix(s, "heal:"))
		if err != nil {
			return entities.Effect{}, err
		}
		return entities.Heal(n), nil

	case strings.HasPrefix(s, "add:"):
		id, err := parseName(s, strings.TrimPrefix(s, "add:"))
		if err != nil {
			return entities.Effect{}, err
		}
		return entities.AddItem(id), nil

	case strings.HasPrefix(s, "remove:"):
		id, err := parseName(s, strings.TrimPrefix(s, "remove:"))
		if err != nil {
			return entities.Effect{}, err
		}
		return entities.RemoveItem(id), nil

	case strings.HasPrefix(s, "check:"):
		stat, threshold, hasThreshold := strings.Cut(strings.TrimPrefix(s, "check:"), ":")
		stat, err := parseName(s, stat)
		if err != nil {
			return entities.Effect{}, err
		}
		if !hasThreshold {
			return entities.CheckStat(stat, DefaultCheckThreshold), nil
		}
		n, err := parseAmount(s, threshold)
		if err != nil {
			return entities.Effect{}, err
		}
		return entities.CheckStat(stat, n), nil
	}

	return entities.Effect{}, fmt.Errorf("%w: %q", ErrUnparsableEffect, raw)
}

// parseAmount accepts unsigned decimal digits only, up to MaxAmount
func parseAmount(raw, text string) (int, error) {
	n, err := strconv.ParseUint(text, 10, 64)
	if err != nil || n > MaxAmount {
		return 0, fmt.Errorf("%w: %q: amount must be an integer from 0 to %d", ErrUnparsableEffect, raw, MaxAmount)
	}
	return int(n), nil
}

func parseName(raw, text string) (string, error) {
	if text == "" || strings.ContainsAny(text, ": \t") {
		return "", fmt.Errorf("%w: %q: name must be a single token", ErrUnparsableEffect, raw)
	}
	return text, nil
}
