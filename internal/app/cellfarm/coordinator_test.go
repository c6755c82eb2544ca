package cellfarm

import (
	"testing"

	"farmhand/internal/domain/farm"
)

func TestCellActionsSatisfiedCellFacesOnly(t *testing.T) {
	c := NewCoordinator(nil, farm.DefaultTuning())
	cell := farm.CellPlan{Pos: farm.Point{X: 5, Y: 5}, Facing: farm.DirectionNorth}

	actions := c.CellActions(cell)
	if len(actions) != 1 {
		t.Fatalf("expected exactly the face action, got %d actions", len(actions))
	}
	if actions[0].Kind != ActionFace || actions[0].Direction != farm.DirectionNorth {
		t.Fatalf("unexpected first action: %+v", actions[0])
	}
}

func TestCellActionsFullCultivationSequence(t *testing.T) {
	tuning := farm.DefaultTuning()
	c := NewCoordinator(nil, tuning)
	cell := farm.CellPlan{
		Pos:           farm.Point{X: 5, Y: 5},
		Facing:        farm.DirectionNorth,
		NeedsClear:    true,
		NeedsTill:     true,
		NeedsPlant:    true,
		NeedsWater:    true,
		DebrisType:    "Stone",
		ClearToolSlot: tuning.Tools.Pickaxe,
		SeedSlot:      7,
	}

	actions := c.CellActions(cell)
	// face + 4 select/use pairs
	if len(actions) != 9 {
		t.Fatalf("expected 9 actions, got %d: %+v", len(actions), actions)
	}
	if actions[1].Slot != tuning.Tools.Pickaxe {
		t.Fatalf("clear step should select the pickaxe, got slot %d", actions[1].Slot)
	}
	if actions[3].Slot != tuning.Tools.Hoe {
		t.Fatalf("till step should select the hoe, got slot %d", actions[3].Slot)
	}
	if actions[5].Slot != 7 {
		t.Fatalf("plant step should select the seed slot, got %d", actions[5].Slot)
	}
	if actions[7].Slot != tuning.Tools.WateringCan {
		t.Fatalf("water step should select the can, got slot %d", actions[7].Slot)
	}
}

func TestCellActionsSkipsSatisfiedSteps(t *testing.T) {
	c := NewCoordinator(nil, farm.DefaultTuning())
	cell := farm.CellPlan{NeedsPlant: true, NeedsWater: true, Facing: farm.DirectionNorth, SeedSlot: 6}

	actions := c.CellActions(cell)
	if len(actions) != 5 {
		t.Fatalf("expected face + plant pair + water pair, got %d", len(actions))
	}
}

func TestOutOfOrderCompletionDoesNotCorruptProgress(t *testing.T) {
	cells := []farm.CellPlan{
		{Pos: farm.Point{X: 1, Y: 1}},
		{Pos: farm.Point{X: 2, Y: 1}},
		{Pos: farm.Point{X: 3, Y: 1}},
	}
	c := NewCoordinator(cells, farm.DefaultTuning())

	// Finish the middle cell first, then skip the first.
	c.MarkCellComplete(farm.Point{X: 2, Y: 1})
	c.SkipCell(farm.Point{X: 1, Y: 1})

	cell, ok := c.CurrentCell()
	if !ok || cell.Pos != (farm.Point{X: 3, Y: 1}) {
		t.Fatalf("expected cursor on the last cell, got %+v ok=%v", cell, ok)
	}
	if total, finished := c.Progress(); total != 3 || finished != 2 {
		t.Fatalf("unexpected progress %d/%d", finished, total)
	}

	c.MarkCellComplete(farm.Point{X: 3, Y: 1})
	if !c.Done() {
		t.Fatalf("expected batch done")
	}
}

func TestTickWiseExecution(t *testing.T) {
	cells := []farm.CellPlan{{Pos: farm.Point{X: 1, Y: 1}, NeedsWater: true, Facing: farm.DirectionNorth}}
	c := NewCoordinator(cells, farm.DefaultTuning())

	if !c.StartCellExecution() {
		t.Fatalf("expected a cell to execute")
	}
	var count int
	for {
		_, ok := c.NextAction()
		if !ok {
			break
		}
		count++
	}
	if count != 3 {
		t.Fatalf("expected 3 tick actions, got %d", count)
	}
	if !c.CellExecutionComplete() {
		t.Fatalf("expected execution complete")
	}
	c.FinishCell()
	if !c.Done() {
		t.Fatalf("expected single-cell batch done")
	}
	if c.StartCellExecution() {
		t.Fatalf("no further cells should execute")
	}
}
