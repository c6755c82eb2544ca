package stardew

import (
	"encoding/json"

	"farmhand/internal/domain/farm"
)

// encodeAction maps a core action onto the mod's command vocabulary.
// Unknown kinds degrade to a generic interact rather than erroring;
// the mod reports failure if it cannot act.
func encodeAction(action farm.Action) (string, map[string]any) {
	switch action.Kind {
	case farm.ActionMoveTo:
		return "move_to", map[string]any{
			"tileX": action.Target.X,
			"tileY": action.Target.Y,
		}
	case farm.ActionFace:
		return "face_direction", map[string]any{
			"direction": string(action.Direction),
		}
	case farm.ActionSelectSlot:
		return "select_item", map[string]any{
			"slot": action.Slot,
		}
	case farm.ActionUseTool:
		return "use_tool", map[string]any{
			"direction": string(action.Direction),
		}
	case farm.ActionWarp:
		return "warp", map[string]any{
			"location": action.Location,
		}
	case farm.ActionSkill:
		return "run_skill", map[string]any{
			"skill":     string(action.Skill),
			"direction": string(action.Direction),
			"tileX":     action.Target.X,
			"tileY":     action.Target.Y,
		}
	default:
		return "interact", map[string]any{
			"tileX": action.Target.X,
			"tileY": action.Target.Y,
		}
	}
}

type rawSurroundings struct {
	Blockers []struct {
		Direction string `json:"direction"`
		Type      string `json:"type"`
		Distance  int    `json:"distance"`
	} `json:"blockers"`
	NearestWaterDistance *int `json:"nearestWaterDistance"`
}

func decodeSurroundings(data json.RawMessage) (farm.Surroundings, error) {
	var raw rawSurroundings
	if err := json.Unmarshal(data, &raw); err != nil {
		return farm.Surroundings{}, err
	}

	out := farm.Surroundings{NearestWaterDistance: -1}
	if raw.NearestWaterDistance != nil {
		out.NearestWaterDistance = *raw.NearestWaterDistance
	}
	for _, b := range raw.Blockers {
		dir := normalizeBridgeDirection(b.Direction)
		if dir == "" {
			continue
		}
		if out.Blockers == nil {
			out.Blockers = make(map[farm.Direction]farm.Blocker, 4)
		}
		out.Blockers[dir] = farm.Blocker{
			Type:     b.Type,
			Distance: b.Distance,
		}
	}
	return out, nil
}

func normalizeBridgeDirection(raw string) farm.Direction {
	switch raw {
	case "0", "up", "north":
		return farm.DirectionNorth
	case "1", "right", "east":
		return farm.DirectionEast
	case "2", "down", "south":
		return farm.DirectionSouth
	case "3", "left", "west":
		return farm.DirectionWest
	default:
		return ""
	}
}
