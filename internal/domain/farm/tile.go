package farm

type TileStateKind string

const (
	TileClear   TileStateKind = "clear"
	TileDebris  TileStateKind = "debris"
	TileTilled  TileStateKind = "tilled"
	TilePlanted TileStateKind = "planted"
	TileWatered TileStateKind = "watered"
	TileBlocked TileStateKind = "blocked"
)

type TileState struct {
	Kind       TileStateKind `json:"kind"`
	DebrisType string        `json:"debris_type,omitempty"`
	CropName   string        `json:"crop_name,omitempty"`
	Watered    bool          `json:"watered"`
	CanTill    bool          `json:"can_till"`
}

// TileMap is the surveyor's view of the farm, rebuilt in full from a
// fresh snapshot on every survey. It is never updated incrementally.
type TileMap map[Point]TileState

// CellPlan is one tile selected for full cultivation. The needs flags
// come from the tile's observed state so already-satisfied steps are
// never repeated.
type CellPlan struct {
	Pos           Point     `json:"pos"`
	NeedsClear    bool      `json:"needs_clear"`
	NeedsTill     bool      `json:"needs_till"`
	NeedsPlant    bool      `json:"needs_plant"`
	NeedsWater    bool      `json:"needs_water"`
	DebrisType    string    `json:"debris_type,omitempty"`
	ClearToolSlot int       `json:"clear_tool_slot"`
	SeedName      string    `json:"seed_name"`
	SeedSlot      int       `json:"seed_slot"`
	PatchID       int       `json:"patch_id"`
	Facing        Direction `json:"facing"`
}

// ActionPosition is where the player stands to work a tile: one tile
// south, facing north. Workability of a cell is judged by this tile's
// passability, not the cell's own.
func ActionPosition(target Point) Point {
	return Point{X: target.X, Y: target.Y + 1}
}
