package ports

import (
	"context"

	"farmhand/internal/domain/farm"
)

// WorldProvider supplies read-only snapshots of live game state. The
// core tolerates staleness; it never mutates what it is handed.
type WorldProvider interface {
	Snapshot(ctx context.Context) (farm.Snapshot, error)
	Surroundings(ctx context.Context) (farm.Surroundings, error)
}

// ActionSink performs one primitive action against the live game and
// reports only whether it succeeded. Message is advisory.
type ActionSink interface {
	Execute(ctx context.Context, action farm.Action) (ok bool, message string, err error)
}

// ReachabilityOracle answers short-timeout pathability queries.
// Callers treat errors and timeouts as "reachable" (fail-open): an
// oracle outage degrades planning quality, never availability.
type ReachabilityOracle interface {
	IsReachable(ctx context.Context, from, to farm.Point) (bool, error)
}
