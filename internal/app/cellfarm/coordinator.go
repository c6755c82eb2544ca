package cellfarm

import "farmhand/internal/domain/farm"

type CellActionKind string

const (
	ActionFace       CellActionKind = "face"
	ActionSelectSlot CellActionKind = "select_slot"
	ActionUseTool    CellActionKind = "use_tool"
)

type CellAction struct {
	Kind      CellActionKind `json:"kind"`
	Direction farm.Direction `json:"direction,omitempty"`
	Slot      int            `json:"slot,omitempty"`
}

// Coordinator drives one CellPlan batch to completion, one cell at a
// time. The completed/skipped sets, not the cursor, are authoritative
// for whether a cell is done, so callers may finish cells out of
// order.
type Coordinator struct {
	tuning farm.Tuning

	cells     []farm.CellPlan
	cursor    int
	completed map[farm.Point]bool
	skipped   map[farm.Point]bool

	active    []CellAction
	actionIdx int
	executing bool
}

func NewCoordinator(cells []farm.CellPlan, tuning farm.Tuning) *Coordinator {
	return &Coordinator{
		tuning:    tuning,
		cells:     cells,
		completed: make(map[farm.Point]bool),
		skipped:   make(map[farm.Point]bool),
	}
}

// CellActions builds the minimal action sequence for one cell. Steps
// whose precondition flag is already satisfied are omitted entirely;
// a fully satisfied cell still gets its initial face so the follow-up
// validation looks at the right tile.
func (c *Coordinator) CellActions(cell farm.CellPlan) []CellAction {
	actions := []CellAction{{Kind: ActionFace, Direction: cell.Facing}}
	if cell.NeedsClear {
		actions = append(actions,
			CellAction{Kind: ActionSelectSlot, Slot: cell.ClearToolSlot},
			CellAction{Kind: ActionUseTool},
		)
	}
	if cell.NeedsTill {
		actions = append(actions,
			CellAction{Kind: ActionSelectSlot, Slot: c.tuning.Tools.Hoe},
			CellAction{Kind: ActionUseTool},
		)
	}
	if cell.NeedsPlant {
		actions = append(actions,
			CellAction{Kind: ActionSelectSlot, Slot: cell.SeedSlot},
			CellAction{Kind: ActionUseTool},
		)
	}
	if cell.NeedsWater {
		actions = append(actions,
			CellAction{Kind: ActionSelectSlot, Slot: c.tuning.Tools.WateringCan},
			CellAction{Kind: ActionUseTool},
		)
	}
	return actions
}

// CurrentCell returns the first not-yet-finished cell at or after the
// cursor.
func (c *Coordinator) CurrentCell() (farm.CellPlan, bool) {
	for i := c.cursor; i < len(c.cells); i++ {
		pos := c.cells[i].Pos
		if c.completed[pos] || c.skipped[pos] {
			continue
		}
		return c.cells[i], true
	}
	return farm.CellPlan{}, false
}

func (c *Coordinator) MarkCellComplete(pos farm.Point) {
	c.completed[pos] = true
	c.advance()
}

func (c *Coordinator) SkipCell(pos farm.Point) {
	c.skipped[pos] = true
	c.advance()
}

func (c *Coordinator) advance() {
	for c.cursor < len(c.cells) {
		pos := c.cells[c.cursor].Pos
		if !c.completed[pos] && !c.skipped[pos] {
			return
		}
		c.cursor++
	}
}

// StartCellExecution prepares the tick-wise action stream for the
// current cell. It returns false when the batch is finished.
func (c *Coordinator) StartCellExecution() bool {
	cell, ok := c.CurrentCell()
	if !ok {
		return false
	}
	c.active = c.CellActions(cell)
	c.actionIdx = 0
	c.executing = true
	return true
}

// NextAction yields one action per call so the caller can interleave
// cell work with the rest of its tick.
func (c *Coordinator) NextAction() (CellAction, bool) {
	if !c.executing || c.actionIdx >= len(c.active) {
		return CellAction{}, false
	}
	action := c.active[c.actionIdx]
	c.actionIdx++
	return action, true
}

func (c *Coordinator) CellExecutionComplete() bool {
	return !c.executing || c.actionIdx >= len(c.active)
}

// FinishCell closes the tick-wise stream, marking the current cell
// complete.
func (c *Coordinator) FinishCell() {
	if cell, ok := c.CurrentCell(); ok {
		c.MarkCellComplete(cell.Pos)
	}
	c.executing = false
	c.active = nil
	c.actionIdx = 0
}

func (c *Coordinator) Done() bool {
	_, ok := c.CurrentCell()
	return !ok
}

func (c *Coordinator) Progress() (total, finished int) {
	return len(c.cells), len(c.completed) + len(c.skipped)
}
