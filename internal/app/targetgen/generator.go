package targetgen

import (
	"sort"

	"farmhand/internal/domain/farm"
)

// Generator turns a snapshot into the ordered target list for one task
// type. It holds no state and is safe to call with any snapshot.
type Generator struct{}

// Generate dispatches to the extractor for taskType and orders the
// result by strategy. Unknown task types yield an empty list, not an
// error, so a malformed plan entry degrades to a no-op task.
func (Generator) Generate(taskType farm.TaskType, snap farm.Snapshot, playerPos farm.Point, strategy farm.SortStrategy) []farm.Target {
	var targets []farm.Target
	switch taskType {
	case farm.TaskWaterCrops:
		targets = waterTargets(snap)
	case farm.TaskHarvestCrops:
		targets = harvestTargets(snap)
	case farm.TaskClearDebris:
		targets = debrisTargets(snap)
	case farm.TaskTillSoil:
		targets = tillTargets(snap)
	case farm.TaskPlantSeeds:
		targets = plantTargets(snap)
	default:
		return nil
	}
	Sort(targets, playerPos, strategy)
	return targets
}

// Sort orders targets in place by the given strategy. Both sorts are
// stable so equal keys keep their extraction order.
func Sort(targets []farm.Target, playerPos farm.Point, strategy farm.SortStrategy) {
	switch strategy {
	case farm.SortRowByRow:
		sort.SliceStable(targets, func(i, j int) bool {
			if targets[i].Pos.Y != targets[j].Pos.Y {
				return targets[i].Pos.Y < targets[j].Pos.Y
			}
			return targets[i].Pos.X < targets[j].Pos.X
		})
	case farm.SortNearestFirst:
		sort.SliceStable(targets, func(i, j int) bool {
			return playerPos.ManhattanTo(targets[i].Pos) < playerPos.ManhattanTo(targets[j].Pos)
		})
	case farm.SortSpiralOut:
		// Reserved; passthrough until a spiral traversal is needed.
	}
}

func waterTargets(snap farm.Snapshot) []farm.Target {
	var out []farm.Target
	for _, crop := range snap.Location.Crops {
		if crop.Watered {
			continue
		}
		out = append(out, farm.Target{
			Pos:  crop.Pos,
			Type: farm.TargetCrop,
			Meta: map[string]string{"crop": crop.Name},
		})
	}
	return out
}

func harvestTargets(snap farm.Snapshot) []farm.Target {
	var out []farm.Target
	for _, crop := range snap.Location.Crops {
		if !crop.ReadyForHarvest {
			continue
		}
		out = append(out, farm.Target{
			Pos:  crop.Pos,
			Type: farm.TargetCrop,
			Meta: map[string]string{"crop": crop.Name},
		})
	}
	return out
}

func debrisTargets(snap farm.Snapshot) []farm.Target {
	var out []farm.Target
	for _, obj := range snap.Location.Objects {
		if !isDebris(obj) {
			continue
		}
		out = append(out, farm.Target{
			Pos:  obj.Pos,
			Type: farm.TargetDebris,
			Meta: map[string]string{"name": obj.Name},
		})
	}
	return out
}

func isDebris(obj farm.MapObject) bool {
	if obj.Type == "Litter" || obj.Type == "debris" {
		return true
	}
	return farm.IsDebrisName(obj.Name)
}

func tillTargets(snap farm.Snapshot) []farm.Target {
	tilled := make(map[farm.Point]bool, len(snap.Location.TilledTiles))
	for _, pos := range snap.Location.TilledTiles {
		tilled[pos] = true
	}
	occupied := make(map[farm.Point]bool, len(snap.Location.Objects))
	for _, obj := range snap.Location.Objects {
		occupied[obj.Pos] = true
	}
	var out []farm.Target
	for _, tile := range snap.Location.Terrain {
		if !tile.Diggable || tile.Kind != farm.TerrainGround {
			continue
		}
		if tilled[tile.Pos] || occupied[tile.Pos] {
			continue
		}
		out = append(out, farm.Target{Pos: tile.Pos, Type: farm.TargetTile})
	}
	return out
}

func plantTargets(snap farm.Snapshot) []farm.Target {
	planted := make(map[farm.Point]bool, len(snap.Location.Crops))
	for _, crop := range snap.Location.Crops {
		planted[crop.Pos] = true
	}
	var out []farm.Target
	for _, pos := range snap.Location.TilledTiles {
		if planted[pos] {
			continue
		}
		out = append(out, farm.Target{Pos: pos, Type: farm.TargetTile})
	}
	return out
}
