package farm

type TargetType string

const (
	TargetCrop     TargetType = "crop"
	TargetDebris   TargetType = "debris"
	TargetTile     TargetType = "tile"
	TargetObject   TargetType = "object"
	TargetWarp     TargetType = "warp"
	TargetObstacle TargetType = "obstacle"
)

// Target is one unit of spatial work. Targets are derived from a
// snapshot, consumed by the executor, and never persisted.
type Target struct {
	Pos  Point             `json:"pos"`
	Type TargetType        `json:"type"`
	Meta map[string]string `json:"meta,omitempty"`
}

// NavigateOnly reports whether reaching the target completes it without
// any skill execution (warps and pure movement waypoints).
func (t Target) NavigateOnly() bool {
	return t.Type == TargetWarp || t.Meta["navigate"] == "true"
}

type SortStrategy string

const (
	// SortRowByRow orders targets in reading order (y then x) to keep
	// traversal sweeping rows instead of zig-zagging.
	SortRowByRow SortStrategy = "row_by_row"
	// SortNearestFirst orders targets by Manhattan distance from the
	// player's position at planning time.
	SortNearestFirst SortStrategy = "nearest_first"
	// SortSpiralOut is reserved; it currently leaves the input order
	// untouched.
	SortSpiralOut SortStrategy = "spiral_out"
)
