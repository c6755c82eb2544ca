package farm

type ActionKind string

const (
	ActionMoveTo     ActionKind = "move_to"
	ActionFace       ActionKind = "face"
	ActionSelectSlot ActionKind = "select_slot"
	ActionUseTool    ActionKind = "use_tool"
	ActionWarp       ActionKind = "warp"
	ActionSkill      ActionKind = "skill"
)

type Skill string

const (
	SkillWaterCrop         Skill = "water_crop"
	SkillHarvestCrop       Skill = "harvest_crop"
	SkillTillSoil          Skill = "till_soil"
	SkillPlantSeed         Skill = "plant_seed"
	SkillClearStone        Skill = "clear_stone"
	SkillClearWeeds        Skill = "clear_weeds"
	SkillClearWood         Skill = "clear_wood"
	SkillRefillWateringCan Skill = "refill_watering_can"
	SkillBuySeeds          Skill = "buy_seeds"
	SkillShipItem          Skill = "ship_item"
	SkillInteract          Skill = "interact"
)

// Action is the discriminated primitive the executor emits, at most
// one per tick. Only the fields relevant to Kind are set.
type Action struct {
	Kind      ActionKind `json:"kind"`
	Target    Point      `json:"target,omitempty"`
	Direction Direction  `json:"direction,omitempty"`
	Slot      int        `json:"slot,omitempty"`
	Location  string     `json:"location,omitempty"`
	Skill     Skill      `json:"skill,omitempty"`
}

// SkillForTask maps a task type to the skill used at each of its
// targets. Unknown task types fall back to a generic interact rather
// than failing the tick.
func SkillForTask(t TaskType) Skill {
	switch t {
	case TaskWaterCrops:
		return SkillWaterCrop
	case TaskHarvestCrops:
		return SkillHarvestCrop
	case TaskTillSoil:
		return SkillTillSoil
	case TaskPlantSeeds:
		return SkillPlantSeed
	case TaskClearDebris:
		return SkillInteract
	case TaskRefillWater:
		return SkillRefillWateringCan
	case TaskBuySeeds:
		return SkillBuySeeds
	case TaskShipItems:
		return SkillShipItem
	default:
		return SkillInteract
	}
}

// ClearSkillForDebris maps an observed debris name to the skill that
// removes it. The bool result is false for things no starter tool can
// clear, such as resource clumps.
func ClearSkillForDebris(name string) (Skill, bool) {
	switch name {
	case "Stone":
		return SkillClearStone, true
	case "Weeds":
		return SkillClearWeeds, true
	case "Twig", "Wood":
		return SkillClearWood, true
	default:
		return "", false
	}
}

// IsDebrisName reports whether an object name counts as clearable
// debris for target generation and surveying.
func IsDebrisName(name string) bool {
	_, ok := ClearSkillForDebris(name)
	return ok
}
