package entities

import "fmt"

// EffectKind tags the variant of an Effect
type EffectKind string

// Effect kinds
const (
	EffectNone       EffectKind = ""
	EffectDamage     EffectKind = "damage"
	EffectHeal       EffectKind = "heal"
	EffectAddItem    EffectKind = "add_item"
	EffectRemoveItem EffectKind = "remove_item"
	EffectCheckStat  EffectKind = "check_stat"
)

// Effect is a parsed effect descriptor. Target holds the item or stat name;
// Amount holds the damage, heal amount or check threshold. The zero value is
// no effect.
type Effect struct {
	Kind   EffectKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Target string     `json:"target,omitempty" yaml:"target,omitempty"`
	Amount int        `json:"amount,omitempty" yaml:"amount,omitempty"`
}

// IsNone reports whether e has no effect
func (e Effect) IsNone() bool {
	return e.Kind == EffectNone
}

// Damage builds a damage effect
func Damage(n int) Effect { return Effect{Kind: EffectDamage, Amount: n} }

// Heal builds a heal effect
func Heal(n int) Effect { return Effect{Kind: EffectHeal, Amount: n} }

// AddItem builds an item grant
func AddItem(itemID string) Effect { return Effect{Kind: EffectAddItem, Target: itemID} }

// RemoveItem builds an item removal
func RemoveItem(itemID string) Effect { return Effect{Kind: EffectRemoveItem, Target: itemID} }

// CheckStat builds a stat check against threshold
func CheckStat(stat string, threshold int) Effect {
	return Effect{Kind: EffectCheckStat, Target: stat, Amount: threshold}
}

// String renders e in the authoring grammar
func (e Effect) String() string {
	switch e.Kind {
	case EffectDamage:
		return fmt.Sprintf("hp-%d", e.Amount)
	case EffectHeal:
		return fmt.Sprintf("heal:%d", e.Amount)
	case EffectAddItem:
		return "add:" + e.Target
	case EffectRemoveItem:
		return "remove:" + e.Target
	case EffectCheckStat:
		return fmt.Sprintf("check:%s:%d", e.Target, e.Amount)
	default:
		return ""
	}
}
