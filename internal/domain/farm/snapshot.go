package farm

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) ManhattanTo(q Point) int {
	return absInt(p.X-q.X) + absInt(p.Y-q.Y)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type Direction string

const (
	DirectionNorth Direction = "north"
	DirectionSouth Direction = "south"
	DirectionEast  Direction = "east"
	DirectionWest  Direction = "west"
)

// DirectionBetween picks the facing a player at from needs to act on to.
// Ties on the axes resolve to the vertical axis, matching how directional
// tools are aimed in-game.
func DirectionBetween(from, to Point) Direction {
	dx := to.X - from.X
	dy := to.Y - from.Y
	if absInt(dy) >= absInt(dx) {
		if dy < 0 {
			return DirectionNorth
		}
		return DirectionSouth
	}
	if dx < 0 {
		return DirectionWest
	}
	return DirectionEast
}

type Crop struct {
	Pos             Point  `json:"pos"`
	Name            string `json:"name"`
	Watered         bool   `json:"watered"`
	ReadyForHarvest bool   `json:"ready_for_harvest"`
}

type MapObject struct {
	Pos  Point  `json:"pos"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ResourceClump is a multi-tile blocking obstacle (boulder, stump, log)
// that cannot be cleared with starter tools.
type ResourceClump struct {
	Pos    Point  `json:"pos"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Name   string `json:"name"`
}

type TerrainKind string

const (
	TerrainGround TerrainKind = "ground"
	TerrainWater  TerrainKind = "water"
	TerrainCliff  TerrainKind = "cliff"
)

// TerrainTile is static map terrain, independent of crops and debris.
// The surveyor uses it to reject standing positions on water or cliffs.
type TerrainTile struct {
	Pos      Point       `json:"pos"`
	Kind     TerrainKind `json:"kind"`
	Diggable bool        `json:"diggable"`
}

type InventoryItem struct {
	Slot     int    `json:"slot"`
	Name     string `json:"name"`
	Stack    int    `json:"stack"`
	Category string `json:"category"`
}

type Player struct {
	Pos              Point     `json:"pos"`
	Facing           Direction `json:"facing"`
	Energy           int       `json:"energy"`
	MaxEnergy        int       `json:"max_energy"`
	CurrentTool      string    `json:"current_tool"`
	WateringCanWater int       `json:"watering_can_water"`
	WateringCanMax   int       `json:"watering_can_max"`
	Money            int       `json:"money"`
}

type Location struct {
	Name           string          `json:"name"`
	Crops          []Crop          `json:"crops"`
	Objects        []MapObject     `json:"objects"`
	TilledTiles    []Point         `json:"tilled_tiles"`
	ResourceClumps []ResourceClump `json:"resource_clumps"`
	Terrain        []TerrainTile   `json:"terrain,omitempty"`
}

// Snapshot is a point-in-time read of game state supplied by the bridge.
// The core never mutates it; staleness is expected and every action is
// re-validated against the freshest snapshot before it is issued.
type Snapshot struct {
	Player    Player           `json:"player"`
	Location  Location         `json:"location"`
	Inventory []*InventoryItem `json:"inventory"`
}

// Blocker describes what the bridge reports in one compass direction
// from the player, with its tile distance (0 = immediately adjacent).
type Blocker struct {
	Type     string `json:"type"`
	Distance int    `json:"distance"`
}

// Surroundings is the bridge's short-range report around the player,
// used for water adjacency and obstacle identification.
type Surroundings struct {
	Blockers             map[Direction]Blocker `json:"blockers,omitempty"`
	NearestWaterDistance int                   `json:"nearest_water_distance"`
}

// AdjacentWater reports whether the player can refill from where they
// stand, checked both against the directional blocker report and the
// bridge's nearest-water estimate. The returned direction is empty when
// only the distance estimate matched; callers fall back to the player's
// current facing.
func (s Surroundings) AdjacentWater() (Direction, bool) {
	for _, dir := range []Direction{DirectionNorth, DirectionSouth, DirectionEast, DirectionWest} {
		b, ok := s.Blockers[dir]
		if ok && b.Type == "water" && b.Distance == 0 {
			return dir, true
		}
	}
	if s.NearestWaterDistance >= 0 && s.NearestWaterDistance <= 1 {
		return "", true
	}
	return "", false
}
