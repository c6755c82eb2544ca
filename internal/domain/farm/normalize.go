package farm

// NormalizeSnapshot converts the loose JSON shape the game bridge
// sends into the canonical Snapshot. Bridges have historically nested
// the same collections under different keys (location.crops vs crops),
// so every lookup here tolerates both; the rest of the core only ever
// sees the normalized form. Entities without integer coordinates are
// dropped rather than guessed at.
func NormalizeSnapshot(raw map[string]any) Snapshot {
	var snap Snapshot

	player := subMap(raw, "player")
	snap.Player = Player{
		Pos:              Point{X: intField(player, "tileX", "x"), Y: intField(player, "tileY", "y")},
		Facing:           normalizeDirection(strField(player, "facingDirection", "facing")),
		Energy:           intField(player, "energy"),
		MaxEnergy:        intField(player, "maxEnergy", "max_energy"),
		CurrentTool:      strField(player, "currentTool", "current_tool"),
		WateringCanWater: intField(player, "wateringCanWater", "watering_can_water"),
		WateringCanMax:   intField(player, "wateringCanMax", "watering_can_max"),
		Money:            intField(player, "money"),
	}

	loc := subMap(raw, "location")
	snap.Location.Name = strField(loc, "name")
	if snap.Location.Name == "" {
		snap.Location.Name = strField(raw, "locationName", "location_name")
	}

	for _, m := range listField(raw, loc, "crops") {
		pos, ok := posOf(m)
		if !ok {
			continue
		}
		snap.Location.Crops = append(snap.Location.Crops, Crop{
			Pos:             pos,
			Name:            strField(m, "cropName", "name"),
			Watered:         boolField(m, "isWatered", "watered"),
			ReadyForHarvest: boolField(m, "isReadyForHarvest", "ready_for_harvest"),
		})
	}
	for _, m := range listField(raw, loc, "objects") {
		pos, ok := posOf(m)
		if !ok {
			continue
		}
		snap.Location.Objects = append(snap.Location.Objects, MapObject{
			Pos:  pos,
			Name: strField(m, "name"),
			Type: strField(m, "type"),
		})
	}
	for _, m := range listField(raw, loc, "tilledTiles", "tilled_tiles") {
		pos, ok := posOf(m)
		if !ok {
			continue
		}
		snap.Location.TilledTiles = append(snap.Location.TilledTiles, pos)
	}
	for _, m := range listField(raw, loc, "resourceClumps", "resource_clumps") {
		pos, ok := posOf(m)
		if !ok {
			continue
		}
		clump := ResourceClump{
			Pos:    pos,
			Width:  intField(m, "width"),
			Height: intField(m, "height"),
			Name:   strField(m, "name"),
		}
		if clump.Width <= 0 {
			clump.Width = 1
		}
		if clump.Height <= 0 {
			clump.Height = 1
		}
		snap.Location.ResourceClumps = append(snap.Location.ResourceClumps, clump)
	}
	for _, m := range listField(raw, loc, "terrain", "tiles") {
		pos, ok := posOf(m)
		if !ok {
			continue
		}
		kind := TerrainKind(strField(m, "kind", "type"))
		if kind == "" {
			kind = TerrainGround
		}
		snap.Location.Terrain = append(snap.Location.Terrain, TerrainTile{
			Pos:      pos,
			Kind:     kind,
			Diggable: boolField(m, "isDiggable", "diggable"),
		})
	}

	if items, ok := raw["inventory"].([]any); ok {
		for slot, entry := range items {
			m, ok := entry.(map[string]any)
			if !ok || m == nil {
				// Empty inventory slots arrive as nulls and stay nil.
				snap.Inventory = append(snap.Inventory, nil)
				continue
			}
			snap.Inventory = append(snap.Inventory, &InventoryItem{
				Slot:     slot,
				Name:     strField(m, "name"),
				Stack:    intField(m, "stack", "stackCount", "count"),
				Category: strField(m, "category"),
			})
		}
	}

	return snap
}

func normalizeDirection(raw string) Direction {
	switch raw {
	case "0", "up", "north":
		return DirectionNorth
	case "1", "right", "east":
		return DirectionEast
	case "2", "down", "south":
		return DirectionSouth
	case "3", "left", "west":
		return DirectionWest
	default:
		return DirectionSouth
	}
}

func subMap(raw map[string]any, key string) map[string]any {
	if raw == nil {
		return nil
	}
	if m, ok := raw[key].(map[string]any); ok {
		return m
	}
	return nil
}

// listField looks a collection up under the location map first, then
// at the top level, mirroring the shapes different bridge versions
// have sent.
func listField(raw, loc map[string]any, keys ...string) []map[string]any {
	for _, source := range []map[string]any{loc, raw} {
		if source == nil {
			continue
		}
		for _, key := range keys {
			items, ok := source[key].([]any)
			if !ok {
				continue
			}
			out := make([]map[string]any, 0, len(items))
			for _, it := range items {
				if m, ok := it.(map[string]any); ok {
					out = append(out, m)
				}
			}
			return out
		}
	}
	return nil
}

func posOf(m map[string]any) (Point, bool) {
	x, okX := numField(m, "tileX", "x")
	y, okY := numField(m, "tileY", "y")
	if !okX || !okY {
		return Point{}, false
	}
	return Point{X: x, Y: y}, true
}

func numField(m map[string]any, keys ...string) (int, bool) {
	for _, key := range keys {
		switch v := m[key].(type) {
		case float64:
			return int(v), true
		case int:
			return v, true
		case int64:
			return int(v), true
		}
	}
	return 0, false
}

func intField(m map[string]any, keys ...string) int {
	v, _ := numField(m, keys...)
	return v
}

func strField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok {
			return s
		}
	}
	return ""
}

func boolField(m map[string]any, keys ...string) bool {
	for _, key := range keys {
		if b, ok := m[key].(bool); ok {
			return b
		}
	}
	return false
}
