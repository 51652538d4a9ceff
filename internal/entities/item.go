package entities

import "sort"

// ItemType classifies catalog items
type ItemType string

// Item types
const (
	ItemTypeWeapon ItemType = "weapon"
	ItemTypeArmor  ItemType = "armor"
	ItemTypePotion ItemType = "potion"
	ItemTypeQuest  ItemType = "quest"
	ItemTypeMisc   ItemType = "misc"
)

// Item is a static catalog entry
type Item struct {
	ID          string
	Name        string
	Description string
	Type        ItemType
	Value       int
	Effect      string
}

// Catalog is the read-only item lookup used when granting items and when
// rendering inventories.
type Catalog struct {
	items map[string]Item
}

// NewCatalog builds a catalog from items. Later duplicates win.
func NewCatalog(items ...Item) *Catalog {
	c := &Catalog{items: make(map[string]Item, len(items))}
	for _, it := range items {
		c.items[it.ID] = it
	}
	return c
}

// DefaultCatalog returns the predefined items
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Item{ID: "health_potion", Name: "Health Potion", Description: "Restores 20 HP", Type: ItemTypePotion, Value: 10, Effect: "heal:20"},
		Item{ID: "sword", Name: "Steel Sword", Description: "A plain steel sword", Type: ItemTypeWeapon, Value: 50, Effect: "damage:10"},
		Item{ID: "shield", Name: "Wooden Shield", Description: "A simple wooden shield", Type: ItemTypeArmor, Value: 30, Effect: "defense:5"},
		Item{ID: "key", Name: "Rusty Key", Description: "Opens an old door", Type: ItemTypeMisc},
	)
}

// Get looks up an item by ID
func (c *Catalog) Get(id string) (Item, bool) {
	if c == nil {
		return Item{}, false
	}
	it, ok := c.items[id]
	return it, ok
}

// DisplayName returns the item's name, or the raw ID for unknown items
func (c *Catalog) DisplayName(id string) string {
	if it, ok := c.Get(id); ok {
		return it.Name
	}
	return id
}

// IDs returns every item ID in sorted order
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
