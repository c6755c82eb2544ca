package farm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	MaxTargetRetries  = 3
	StuckTickLimit    = 3
	MinPatchSize      = 3
	CandidateOverscan = 3
	// DoorExclusionRadius keeps selected standing positions away from
	// the warp-in spawn tile at the farmhouse door.
	DoorExclusionRadius = 2
	AdjacencyDistance   = 1

	FarmLocationName     = "Farm"
	SeedShopLocationName = "SeedShop"
)

// ProgressMilestones are the completion percentages that fire a
// commentary event, each at most once per task.
var ProgressMilestones = []int{25, 50, 75}

type SeedInfo struct {
	Name string `yaml:"name" json:"name"`
	Item string `yaml:"item" json:"item"`
	// Price in gold at the seed shop.
	Price int `yaml:"price" json:"price"`
	// Tier orders seed preference; lower is planted first.
	Tier int `yaml:"tier" json:"tier"`
}

// ToolSlots are the fixed inventory slots tools occupy in a fresh
// save. Tool acquisition is deliberately not modeled as a
// prerequisite.
type ToolSlots struct {
	Axe         int `yaml:"axe" json:"axe"`
	Hoe         int `yaml:"hoe" json:"hoe"`
	WateringCan int `yaml:"watering_can" json:"watering_can"`
	Pickaxe     int `yaml:"pickaxe" json:"pickaxe"`
	Scythe      int `yaml:"scythe" json:"scythe"`
}

type Tuning struct {
	Seeds     []SeedInfo `yaml:"seeds" json:"seeds"`
	Tools     ToolSlots  `yaml:"tools" json:"tools"`
	Reserved  []string   `yaml:"reserved_crops" json:"reserved_crops"`
	Farmhouse Point      `yaml:"farmhouse_door" json:"farmhouse_door"`
	// WaterSource is the pond tile the executor navigates to when the
	// watering can runs dry mid-task.
	WaterSource Point `yaml:"water_source" json:"water_source"`
	// CommentFallbackTicks bounds how long commentary stays silent
	// when nothing interesting happens.
	CommentFallbackTicks int `yaml:"comment_fallback_ticks" json:"comment_fallback_ticks"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Seeds: []SeedInfo{
			{Name: "Parsnip Seeds", Item: "Parsnip", Price: 20, Tier: 0},
			{Name: "Potato Seeds", Item: "Potato", Price: 50, Tier: 1},
			{Name: "Cauliflower Seeds", Item: "Cauliflower", Price: 80, Tier: 2},
		},
		Tools:                ToolSlots{Axe: 0, Hoe: 1, WateringCan: 2, Pickaxe: 3, Scythe: 4},
		Reserved:             []string{"Parsnip", "Potato", "Cauliflower"},
		Farmhouse:            Point{X: 64, Y: 15},
		WaterSource:          Point{X: 53, Y: 29},
		CommentFallbackTicks: 20,
	}
}

// LoadTuning reads a YAML tuning file over the defaults. Fields left
// out of the file keep their default values.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return Tuning{}, fmt.Errorf("parse tuning file: %w", err)
	}
	return t, nil
}

// CheapestSeed returns the lowest-priced catalog entry.
func (t Tuning) CheapestSeed() (SeedInfo, bool) {
	if len(t.Seeds) == 0 {
		return SeedInfo{}, false
	}
	best := t.Seeds[0]
	for _, s := range t.Seeds[1:] {
		if s.Price < best.Price {
			best = s
		}
	}
	return best, true
}

// SeedTier returns the preference tier for a seed item name, or false
// when the name is not in the catalog.
func (t Tuning) SeedTier(name string) (int, bool) {
	for _, s := range t.Seeds {
		if s.Name == name {
			return s.Tier, true
		}
	}
	return 0, false
}

// ClearToolSlot maps a debris name to the fixed slot of the tool that
// clears it. Unknown debris defaults to the scythe.
func (t Tuning) ClearToolSlot(debris string) int {
	switch debris {
	case "Stone":
		return t.Tools.Pickaxe
	case "Twig", "Wood":
		return t.Tools.Axe
	default:
		return t.Tools.Scythe
	}
}

// ReservedCrop reports whether a crop item is held back from
// sell-to-afford resolution.
func (t Tuning) ReservedCrop(name string) bool {
	for _, r := range t.Reserved {
		if r == name {
			return true
		}
	}
	return false
}
