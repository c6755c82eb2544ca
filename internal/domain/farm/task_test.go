package farm

import "testing"

func TestTaskTypeFromDescription(t *testing.T) {
	cases := []struct {
		desc string
		want TaskType
	}{
		{"Water the crops on the west field", TaskWaterCrops},
		{"Harvest everything that's ready", TaskHarvestCrops},
		{"Plant parsnip seeds", TaskPlantSeeds},
		{"Ship spare parsnips", TaskShipItems},
		{"sell extra wood", TaskShipItems},
		{"Clear debris around the house", TaskClearDebris},
		{"Buy seeds at Pierre's", TaskBuySeeds},
		{"Refill the watering can", TaskRefillWater},
		{"Till the soil for tomorrow", TaskTillSoil},
		{"hoe the back plot", TaskTillSoil},
		{"Talk to the mayor", TaskUnknown},
	}
	for _, tc := range cases {
		if got := TaskTypeFromDescription(tc.desc); got != tc.want {
			t.Fatalf("%q: got %q, want %q", tc.desc, got, tc.want)
		}
	}
}

func TestTaskTypeInferenceSpecificPhrasesWin(t *testing.T) {
	// "water" alone must not shadow a harvest instruction.
	if got := TaskTypeFromDescription("harvest the watered crops"); got != TaskHarvestCrops {
		t.Fatalf("got %q, want %q", got, TaskHarvestCrops)
	}
}

func TestDirectionBetween(t *testing.T) {
	from := Point{X: 5, Y: 5}
	cases := []struct {
		to   Point
		want Direction
	}{
		{Point{X: 5, Y: 4}, DirectionNorth},
		{Point{X: 5, Y: 6}, DirectionSouth},
		{Point{X: 7, Y: 5}, DirectionEast},
		{Point{X: 3, Y: 5}, DirectionWest},
		// Vertical axis wins ties.
		{Point{X: 6, Y: 6}, DirectionSouth},
	}
	for _, tc := range cases {
		if got := DirectionBetween(from, tc.to); got != tc.want {
			t.Fatalf("to %+v: got %q, want %q", tc.to, got, tc.want)
		}
	}
}

func TestSurroundingsAdjacentWater(t *testing.T) {
	s := Surroundings{
		Blockers:             map[Direction]Blocker{DirectionWest: {Type: "water", Distance: 0}},
		NearestWaterDistance: -1,
	}
	dir, ok := s.AdjacentWater()
	if !ok || dir != DirectionWest {
		t.Fatalf("expected west water adjacency, got %q %v", dir, ok)
	}

	s = Surroundings{NearestWaterDistance: 1}
	if _, ok := s.AdjacentWater(); !ok {
		t.Fatalf("expected adjacency from nearest-water distance")
	}

	s = Surroundings{NearestWaterDistance: 4}
	if _, ok := s.AdjacentWater(); ok {
		t.Fatalf("expected no adjacency at distance 4")
	}
}

func TestTuningClearToolSlot(t *testing.T) {
	tn := DefaultTuning()
	if got := tn.ClearToolSlot("Stone"); got != tn.Tools.Pickaxe {
		t.Fatalf("stone: got slot %d", got)
	}
	if got := tn.ClearToolSlot("Twig"); got != tn.Tools.Axe {
		t.Fatalf("twig: got slot %d", got)
	}
	if got := tn.ClearToolSlot("Weeds"); got != tn.Tools.Scythe {
		t.Fatalf("weeds: got slot %d", got)
	}
}

func TestTuningCheapestSeed(t *testing.T) {
	seed, ok := DefaultTuning().CheapestSeed()
	if !ok || seed.Name != "Parsnip Seeds" {
		t.Fatalf("unexpected cheapest seed: %+v ok=%v", seed, ok)
	}
}
