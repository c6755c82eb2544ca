package inventory

import (
	"strings"

	"farmhand/internal/domain/farm"
)

const (
	CategoryTool     = "tool"
	CategorySeed     = "seed"
	CategoryResource = "resource"
)

var toolNames = []string{"axe", "hoe", "pickaxe", "scythe", "watering can", "fishing rod"}

// Categorize classifies an item. An explicit category from the bridge
// wins; otherwise name heuristics apply, then the declared type, then
// resource as the catch-all.
func Categorize(item farm.InventoryItem) string {
	if item.Category != "" {
		return item.Category
	}
	name := strings.ToLower(item.Name)
	if strings.Contains(name, "seed") {
		return CategorySeed
	}
	for _, tool := range toolNames {
		if strings.Contains(name, tool) {
			return CategoryTool
		}
	}
	return CategoryResource
}

// FindSlot returns the slot of the first item matching name exactly.
func FindSlot(items []*farm.InventoryItem, name string) (int, bool) {
	for _, item := range items {
		if item != nil && item.Name == name {
			return item.Slot, true
		}
	}
	return 0, false
}

// Seeds returns every seed item, preserving slot order.
func Seeds(items []*farm.InventoryItem) []*farm.InventoryItem {
	var out []*farm.InventoryItem
	for _, item := range items {
		if item != nil && Categorize(*item) == CategorySeed {
			out = append(out, item)
		}
	}
	return out
}

// PrioritySeed picks the seed to plant next: catalog tier first
// (cheaper, faster-growing seeds ahead of slower ones), largest stack
// as the tiebreak and for anything outside the catalog.
func PrioritySeed(items []*farm.InventoryItem, tuning farm.Tuning) (*farm.InventoryItem, bool) {
	seeds := Seeds(items)
	if len(seeds) == 0 {
		return nil, false
	}
	best := seeds[0]
	bestTier, bestKnown := tuning.SeedTier(best.Name)
	for _, seed := range seeds[1:] {
		tier, known := tuning.SeedTier(seed.Name)
		switch {
		case known && !bestKnown:
			best, bestTier, bestKnown = seed, tier, true
		case known && bestKnown && tier < bestTier:
			best, bestTier = seed, tier
		case known == bestKnown && (!known || tier == bestTier) && seed.Stack > best.Stack:
			best = seed
			if known {
				bestTier = tier
			}
		}
	}
	return best, true
}

// FirstSellable finds an item the resolver may ship to afford seeds.
// Reserved crops are kept back except when a stack holds spares; one
// unit is always retained. Tools are never sellable.
func FirstSellable(items []*farm.InventoryItem, tuning farm.Tuning) (*farm.InventoryItem, bool) {
	for _, item := range items {
		if item == nil || item.Stack <= 0 {
			continue
		}
		switch Categorize(*item) {
		case CategoryTool, CategorySeed:
			continue
		}
		if tuning.ReservedCrop(item.Name) {
			if item.Stack > 1 {
				return item, true
			}
			continue
		}
		return item, true
	}
	return nil, false
}
