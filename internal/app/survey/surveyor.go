package survey

import (
	"context"
	"errors"
	"sort"

	"farmhand/internal/app/inventory"
	"farmhand/internal/app/ports"
	"farmhand/internal/domain/farm"
)

var ErrNoSeeds = errors.New("no seeds in inventory")

// Surveyor reads a snapshot into a tile map and selects batches of
// cells worth cultivating. It keeps no state between calls: every
// survey rebuilds the map from scratch so stale assumptions cannot
// accumulate.
type Surveyor struct {
	Oracle  ports.ReachabilityOracle
	Metrics ports.TickMetrics
	Tuning  farm.Tuning
}

// Survey overlays the snapshot's collections into one tile map. Later
// layers only write tiles earlier layers have not claimed, so a crop
// is never downgraded to plain tilled ground and a blocking object is
// never mistaken for clearable debris.
func (s Surveyor) Survey(snap farm.Snapshot) farm.TileMap {
	m := make(farm.TileMap)

	for _, crop := range snap.Location.Crops {
		state := farm.TileState{Kind: farm.TilePlanted, CropName: crop.Name}
		if crop.Watered {
			state.Kind = farm.TileWatered
			state.Watered = true
		}
		m[crop.Pos] = state
	}

	for _, pos := range snap.Location.TilledTiles {
		if _, taken := m[pos]; taken {
			continue
		}
		m[pos] = farm.TileState{Kind: farm.TileTilled}
	}

	for _, obj := range snap.Location.Objects {
		if _, taken := m[obj.Pos]; taken {
			continue
		}
		if farm.IsDebrisName(obj.Name) || obj.Type == "Litter" || obj.Type == "debris" {
			m[obj.Pos] = farm.TileState{Kind: farm.TileDebris, DebrisType: obj.Name, CanTill: true}
		} else {
			m[obj.Pos] = farm.TileState{Kind: farm.TileBlocked}
		}
	}

	// Resource clumps need tool upgrades we do not assume, so their
	// whole footprint is off limits.
	for _, clump := range snap.Location.ResourceClumps {
		for dx := 0; dx < clump.Width; dx++ {
			for dy := 0; dy < clump.Height; dy++ {
				pos := farm.Point{X: clump.Pos.X + dx, Y: clump.Pos.Y + dy}
				m[pos] = farm.TileState{Kind: farm.TileBlocked}
			}
		}
	}

	return m
}

// FindContiguousPatches walks 4-connected regions of workable tiles
// inside a bounding box around center. A tile counts as workable only
// when the map explicitly knows it as debris or tilled; unknown ground
// is never assumed farmable. Fragments below the minimum patch size
// are dropped. Patches come back nearest-first by their closest tile.
func (s Surveyor) FindContiguousPatches(m farm.TileMap, center farm.Point, radius int) [][]farm.Point {
	visited := make(map[farm.Point]bool)
	var patches [][]farm.Point

	for y := center.Y - radius; y <= center.Y+radius; y++ {
		for x := center.X - radius; x <= center.X+radius; x++ {
			start := farm.Point{X: x, Y: y}
			if visited[start] || !workable(m, start) {
				continue
			}
			patch := bfsPatch(m, start, center, radius, visited)
			if len(patch) >= farm.MinPatchSize {
				patches = append(patches, patch)
			}
		}
	}

	sort.SliceStable(patches, func(i, j int) bool {
		return minDistance(patches[i], center) < minDistance(patches[j], center)
	})
	return patches
}

func workable(m farm.TileMap, pos farm.Point) bool {
	state, known := m[pos]
	if !known {
		return false
	}
	return state.Kind == farm.TileDebris || state.Kind == farm.TileTilled
}

func bfsPatch(m farm.TileMap, start, center farm.Point, radius int, visited map[farm.Point]bool) []farm.Point {
	queue := []farm.Point{start}
	visited[start] = true
	var patch []farm.Point

	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]
		patch = append(patch, pos)

		neighbors := []farm.Point{
			{X: pos.X + 1, Y: pos.Y},
			{X: pos.X - 1, Y: pos.Y},
			{X: pos.X, Y: pos.Y + 1},
			{X: pos.X, Y: pos.Y - 1},
		}
		for _, n := range neighbors {
			if visited[n] {
				continue
			}
			if absInt(n.X-center.X) > radius || absInt(n.Y-center.Y) > radius {
				continue
			}
			if !workable(m, n) {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return patch
}

func minDistance(patch []farm.Point, center farm.Point) int {
	best := patch[0].ManhattanTo(center)
	for _, pos := range patch[1:] {
		if d := pos.ManhattanTo(center); d < best {
			best = d
		}
	}
	return best
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// FindOptimalCells picks up to seedCount cells to cultivate. Existing
// tilled tiles near the center win over debris patches since they cost
// nothing to prepare. Candidates are overscanned so reachability
// filtering losses do not starve the batch, and the surviving batch is
// re-sorted row by row globally to minimize backtracking across
// patches.
func (s Surveyor) FindOptimalCells(ctx context.Context, snap farm.Snapshot, m farm.TileMap, seedCount int, center farm.Point, radius int, checkReachability bool) []farm.CellPlan {
	if seedCount <= 0 {
		return nil
	}
	budget := seedCount * farm.CandidateOverscan

	type candidate struct {
		pos     farm.Point
		patchID int
	}
	var candidates []candidate
	seen := make(map[farm.Point]bool)

	var tilled []farm.Point
	for pos, state := range m {
		if state.Kind != farm.TileTilled {
			continue
		}
		if absInt(pos.X-center.X) > radius || absInt(pos.Y-center.Y) > radius {
			continue
		}
		tilled = append(tilled, pos)
	}
	sort.SliceStable(tilled, func(i, j int) bool {
		di, dj := tilled[i].ManhattanTo(center), tilled[j].ManhattanTo(center)
		if di != dj {
			return di < dj
		}
		if tilled[i].Y != tilled[j].Y {
			return tilled[i].Y < tilled[j].Y
		}
		return tilled[i].X < tilled[j].X
	})
	for _, pos := range tilled {
		if len(candidates) >= budget {
			break
		}
		candidates = append(candidates, candidate{pos: pos, patchID: -1})
		seen[pos] = true
	}

	if len(candidates) < budget {
		for patchID, patch := range s.FindContiguousPatches(m, center, radius) {
			if len(candidates) >= budget {
				break
			}
			for _, pos := range patch {
				if len(candidates) >= budget {
					break
				}
				if seen[pos] {
					continue
				}
				candidates = append(candidates, candidate{pos: pos, patchID: patchID})
				seen[pos] = true
			}
		}
	}

	terrain := terrainIndex(snap)
	var cells []farm.CellPlan
	for _, cand := range candidates {
		if len(cells) >= seedCount {
			break
		}
		actionPos := farm.ActionPosition(cand.pos)
		if actionPos.ManhattanTo(s.Tuning.Farmhouse) < farm.DoorExclusionRadius {
			// Standing on the warp-in spawn tile confuses downstream
			// pathfinding.
			continue
		}
		if kind, known := terrain[actionPos]; known && (kind == farm.TerrainWater || kind == farm.TerrainCliff) {
			continue
		}
		if checkReachability && !s.reachable(ctx, center, actionPos) {
			continue
		}
		cells = append(cells, s.cellPlan(m, cand.pos, cand.patchID))
	}

	sort.SliceStable(cells, func(i, j int) bool {
		if cells[i].Pos.Y != cells[j].Pos.Y {
			return cells[i].Pos.Y < cells[j].Pos.Y
		}
		return cells[i].Pos.X < cells[j].Pos.X
	})
	return cells
}

// reachable asks the oracle about static terrain only. Debris on the
// way is expected to be cleared during execution, so filtering on live
// pathfinding would wrongly exclude good cells. Oracle failures count
// as reachable.
func (s Surveyor) reachable(ctx context.Context, from, to farm.Point) bool {
	if s.Oracle == nil {
		return true
	}
	ok, err := s.Oracle.IsReachable(ctx, from, to)
	if err != nil {
		if s.Metrics != nil {
			s.Metrics.RecordReachabilityFailOpen()
		}
		return true
	}
	return ok
}

func (s Surveyor) cellPlan(m farm.TileMap, pos farm.Point, patchID int) farm.CellPlan {
	state := m[pos]
	cell := farm.CellPlan{
		Pos:        pos,
		NeedsPlant: true,
		NeedsWater: true,
		PatchID:    patchID,
		Facing:     farm.DirectionNorth,
	}
	if state.Kind == farm.TileDebris {
		cell.NeedsClear = true
		cell.NeedsTill = true
		cell.DebrisType = state.DebrisType
		cell.ClearToolSlot = s.Tuning.ClearToolSlot(state.DebrisType)
	} else if state.Kind != farm.TileTilled {
		cell.NeedsTill = true
	}
	return cell
}

// FarmingPlan is one batch of cells plus the seed committed to it.
type FarmingPlan struct {
	Cells    []farm.CellPlan `json:"cells"`
	SeedName string          `json:"seed_name"`
	SeedSlot int             `json:"seed_slot"`
}

// CreateFarmingPlan surveys the snapshot and assembles a batch sized
// to the available priority seed stack, capped at seedCount.
func (s Surveyor) CreateFarmingPlan(ctx context.Context, snap farm.Snapshot, seedCount, radius int, checkReachability bool) (FarmingPlan, error) {
	seed, ok := inventory.PrioritySeed(snap.Inventory, s.Tuning)
	if !ok {
		return FarmingPlan{}, ErrNoSeeds
	}
	if seed.Stack < seedCount {
		seedCount = seed.Stack
	}

	m := s.Survey(snap)
	cells := s.FindOptimalCells(ctx, snap, m, seedCount, s.Tuning.Farmhouse, radius, checkReachability)
	for i := range cells {
		cells[i].SeedName = seed.Name
		cells[i].SeedSlot = seed.Slot
	}
	return FarmingPlan{Cells: cells, SeedName: seed.Name, SeedSlot: seed.Slot}, nil
}

func terrainIndex(snap farm.Snapshot) map[farm.Point]farm.TerrainKind {
	idx := make(map[farm.Point]farm.TerrainKind, len(snap.Location.Terrain))
	for _, tile := range snap.Location.Terrain {
		idx[tile.Pos] = tile.Kind
	}
	return idx
}
