package targetgen

import (
	"testing"

	"farmhand/internal/domain/farm"
)

func TestGenerateWaterSkipsWateredCrops(t *testing.T) {
	snap := farm.Snapshot{Location: farm.Location{Crops: []farm.Crop{
		{Pos: farm.Point{X: 1, Y: 1}, Watered: true},
		{Pos: farm.Point{X: 2, Y: 1}, Watered: false},
		{Pos: farm.Point{X: 3, Y: 1}, Watered: false},
	}}}

	targets := Generator{}.Generate(farm.TaskWaterCrops, snap, farm.Point{}, farm.SortRowByRow)
	if len(targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(targets))
	}
	for _, tgt := range targets {
		if tgt.Pos == (farm.Point{X: 1, Y: 1}) {
			t.Fatalf("watered crop selected as target")
		}
	}
}

func TestGenerateHarvestOnlyReadyCrops(t *testing.T) {
	snap := farm.Snapshot{Location: farm.Location{Crops: []farm.Crop{
		{Pos: farm.Point{X: 1, Y: 1}, ReadyForHarvest: true, Name: "Parsnip"},
		{Pos: farm.Point{X: 2, Y: 1}, ReadyForHarvest: false},
	}}}

	targets := Generator{}.Generate(farm.TaskHarvestCrops, snap, farm.Point{}, farm.SortRowByRow)
	if len(targets) != 1 || targets[0].Meta["crop"] != "Parsnip" {
		t.Fatalf("unexpected harvest targets: %+v", targets)
	}
}

func TestGenerateDebrisByTypeAndName(t *testing.T) {
	snap := farm.Snapshot{Location: farm.Location{Objects: []farm.MapObject{
		{Pos: farm.Point{X: 1, Y: 1}, Name: "Stone", Type: "Litter"},
		{Pos: farm.Point{X: 2, Y: 1}, Name: "Weeds", Type: ""},
		{Pos: farm.Point{X: 3, Y: 1}, Name: "Chest", Type: "Crafting"},
	}}}

	targets := Generator{}.Generate(farm.TaskClearDebris, snap, farm.Point{}, farm.SortRowByRow)
	if len(targets) != 2 {
		t.Fatalf("expected 2 debris targets, got %+v", targets)
	}
}

func TestGeneratePlantOnlyCropFreeTilledTiles(t *testing.T) {
	snap := farm.Snapshot{Location: farm.Location{
		TilledTiles: []farm.Point{{X: 1, Y: 1}, {X: 2, Y: 1}},
		Crops:       []farm.Crop{{Pos: farm.Point{X: 1, Y: 1}}},
	}}

	targets := Generator{}.Generate(farm.TaskPlantSeeds, snap, farm.Point{}, farm.SortRowByRow)
	if len(targets) != 1 || targets[0].Pos != (farm.Point{X: 2, Y: 1}) {
		t.Fatalf("unexpected plant targets: %+v", targets)
	}
}

func TestGenerateTillSkipsTilledAndOccupied(t *testing.T) {
	snap := farm.Snapshot{Location: farm.Location{
		Terrain: []farm.TerrainTile{
			{Pos: farm.Point{X: 1, Y: 1}, Kind: farm.TerrainGround, Diggable: true},
			{Pos: farm.Point{X: 2, Y: 1}, Kind: farm.TerrainGround, Diggable: true},
			{Pos: farm.Point{X: 3, Y: 1}, Kind: farm.TerrainGround, Diggable: true},
			{Pos: farm.Point{X: 4, Y: 1}, Kind: farm.TerrainWater, Diggable: false},
		},
		TilledTiles: []farm.Point{{X: 1, Y: 1}},
		Objects:     []farm.MapObject{{Pos: farm.Point{X: 2, Y: 1}, Name: "Stone"}},
	}}

	targets := Generator{}.Generate(farm.TaskTillSoil, snap, farm.Point{}, farm.SortRowByRow)
	if len(targets) != 1 || targets[0].Pos != (farm.Point{X: 3, Y: 1}) {
		t.Fatalf("unexpected till targets: %+v", targets)
	}
}

func TestGenerateUnknownTaskTypeYieldsEmpty(t *testing.T) {
	snap := farm.Snapshot{Location: farm.Location{Crops: []farm.Crop{{Pos: farm.Point{X: 1, Y: 1}}}}}
	if targets := (Generator{}).Generate(farm.TaskUnknown, snap, farm.Point{}, farm.SortRowByRow); len(targets) != 0 {
		t.Fatalf("expected empty list for unknown task type, got %+v", targets)
	}
}

func TestSortRowByRowReadingOrder(t *testing.T) {
	snap := farm.Snapshot{Location: farm.Location{Crops: []farm.Crop{
		{Pos: farm.Point{X: 13, Y: 16}},
		{Pos: farm.Point{X: 14, Y: 15}},
		{Pos: farm.Point{X: 12, Y: 15}},
	}}}

	targets := Generator{}.Generate(farm.TaskWaterCrops, snap, farm.Point{X: 10, Y: 10}, farm.SortRowByRow)
	want := []farm.Point{{X: 12, Y: 15}, {X: 14, Y: 15}, {X: 13, Y: 16}}
	for i, w := range want {
		if targets[i].Pos != w {
			t.Fatalf("position %d: got %+v, want %+v", i, targets[i].Pos, w)
		}
	}
}

func TestSortNearestFirstMonotoneDistance(t *testing.T) {
	player := farm.Point{X: 0, Y: 0}
	snap := farm.Snapshot{Location: farm.Location{Crops: []farm.Crop{
		{Pos: farm.Point{X: 9, Y: 9}},
		{Pos: farm.Point{X: 1, Y: 0}},
		{Pos: farm.Point{X: 4, Y: 4}},
		{Pos: farm.Point{X: 0, Y: 2}},
	}}}

	targets := Generator{}.Generate(farm.TaskWaterCrops, snap, player, farm.SortNearestFirst)
	for i := 1; i < len(targets); i++ {
		prev := player.ManhattanTo(targets[i-1].Pos)
		cur := player.ManhattanTo(targets[i].Pos)
		if prev > cur {
			t.Fatalf("distance not monotone at %d: %d > %d", i, prev, cur)
		}
	}
}

func TestSortSpiralOutPassthrough(t *testing.T) {
	targets := []farm.Target{
		{Pos: farm.Point{X: 5, Y: 5}},
		{Pos: farm.Point{X: 1, Y: 1}},
	}
	Sort(targets, farm.Point{}, farm.SortSpiralOut)
	if targets[0].Pos != (farm.Point{X: 5, Y: 5}) {
		t.Fatalf("spiral_out should leave order untouched")
	}
}
