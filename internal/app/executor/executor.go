package executor

import (
	"time"

	"farmhand/internal/app/inventory"
	"farmhand/internal/app/ports"
	"farmhand/internal/app/targetgen"
	"farmhand/internal/domain/farm"
)

// Executor is the per-task state machine. One external driver loop
// calls NextAction once per tick, performs the returned action against
// the live game, and feeds the boolean outcome back through
// ReportResult before the next tick. The executor owns no goroutines
// and does no I/O; it is pure decision logic over supplied snapshots.
type Executor struct {
	gen     targetgen.Generator
	sink    ports.CommentarySink
	metrics ports.TickMetrics
	tuning  farm.Tuning

	state    farm.TaskState
	taskID   string
	taskType farm.TaskType
	targets  []farm.Target
	cursor   int
	progress farm.TaskProgress

	consecutiveFailures int
	refillPending       bool

	lastPos    farm.Point
	havePos    bool
	stuckTicks int

	lastRow int
	haveRow bool

	milestonesFired map[int]bool
	events          []ports.CommentaryEvent
	tick            int
	lastCommentTick int

	interruptReason string
	now             func() time.Time
}

// New builds an idle executor. Sink and metrics may be nil; their
// absence never affects decisions.
func New(tuning farm.Tuning, sink ports.CommentarySink, metrics ports.TickMetrics) *Executor {
	return &Executor{
		tuning:          tuning,
		sink:            sink,
		metrics:         metrics,
		state:           farm.StateIdle,
		milestonesFired: make(map[int]bool),
		now:             time.Now,
	}
}

func (e *Executor) State() farm.TaskState      { return e.state }
func (e *Executor) TaskID() string             { return e.taskID }
func (e *Executor) Progress() farm.TaskProgress { return e.progress }

// IsComplete is true only for a finished task. A BLOCKED task reports
// false: it should be retried later, not treated as done.
func (e *Executor) IsComplete() bool { return e.state == farm.StateComplete }

// SetTask generates targets for a new task and arms the machine. Zero
// targets blocks the task instead of completing it, so callers can
// tell "done" apart from "nothing to do right now".
func (e *Executor) SetTask(taskID string, taskType farm.TaskType, snap farm.Snapshot, playerPos farm.Point, strategy farm.SortStrategy) {
	e.taskID = taskID
	e.taskType = taskType
	e.targets = e.gen.Generate(taskType, snap, playerPos, strategy)
	e.cursor = 0
	e.consecutiveFailures = 0
	e.refillPending = false
	e.havePos = false
	e.stuckTicks = 0
	e.haveRow = false
	e.milestonesFired = make(map[int]bool)
	e.interruptReason = ""
	e.progress = farm.TaskProgress{TaskID: taskID, Type: taskType, Total: len(e.targets)}

	if len(e.targets) == 0 {
		e.state = farm.StateBlocked
		return
	}
	e.state = farm.StateMoving
	e.queueEvent(ports.EventTaskStarted, map[string]any{"targets": len(e.targets)})
}

// Interrupt parks a live task so an external override can take over.
// There is no automatic resumption; the driver must call SetTask or
// Clear.
func (e *Executor) Interrupt(reason string) {
	switch e.state {
	case farm.StateIdle, farm.StateComplete:
		return
	}
	e.state = farm.StateInterrupted
	e.interruptReason = reason
}

func (e *Executor) InterruptReason() string { return e.interruptReason }

// Clear discards all in-flight progress and returns to IDLE. It is the
// only way out of BLOCKED and INTERRUPTED.
func (e *Executor) Clear() {
	e.state = farm.StateIdle
	e.taskID = ""
	e.taskType = ""
	e.targets = nil
	e.cursor = 0
	e.progress = farm.TaskProgress{}
	e.consecutiveFailures = 0
	e.refillPending = false
	e.havePos = false
	e.stuckTicks = 0
	e.haveRow = false
	e.milestonesFired = make(map[int]bool)
	e.events = nil
	e.interruptReason = ""
}

// NextAction is the tick function: at most one action per call. A
// false second result means no action this tick; depending on state
// that is "keep polling", "task over", or "cursor advanced silently".
func (e *Executor) NextAction(player farm.Point, sur farm.Surroundings, snap farm.Snapshot) (farm.Action, bool) {
	e.tick++

	switch e.state {
	case farm.StateIdle, farm.StateComplete, farm.StateBlocked, farm.StateInterrupted:
		return farm.Action{}, false
	}

	// 1. Mid-refill: wait for water adjacency; an already-issued move
	// is assumed to be converging.
	if e.state == farm.StateNeedsRefill {
		if dir, ok := sur.AdjacentWater(); ok {
			return e.emitRefill(dir, snap), true
		}
		return farm.Action{}, false
	}

	// 2. Resource precondition. Only the watering can is checked; all
	// other tools are assumed present in their fixed slots.
	if e.taskType == farm.TaskWaterCrops && snap.Player.WateringCanWater <= 0 {
		if dir, ok := sur.AdjacentWater(); ok {
			return e.emitRefill(dir, snap), true
		}
		e.state = farm.StateNeedsRefill
		return e.emit(farm.Action{Kind: farm.ActionMoveTo, Target: e.tuning.WaterSource}), true
	}

	if e.cursor >= len(e.targets) {
		e.finishTask()
		return farm.Action{}, false
	}
	target := e.targets[e.cursor]

	// 3. Row change, for commentary only.
	if !e.haveRow || target.Pos.Y != e.lastRow {
		if e.haveRow {
			e.queueEvent(ports.EventRowChange, map[string]any{"row": target.Pos.Y})
		}
		e.lastRow = target.Pos.Y
		e.haveRow = true
	}

	// 4. Indoor guard: anywhere but the farm, warp back before any
	// spatial logic, unless this target is itself a navigation or we
	// are at the seed shop without seeds, which an external override
	// must handle.
	if snap.Location.Name != "" && snap.Location.Name != farm.FarmLocationName && !target.NavigateOnly() {
		if snap.Location.Name == farm.SeedShopLocationName && len(inventory.Seeds(snap.Inventory)) == 0 {
			e.Interrupt("at seed shop without seeds")
			return farm.Action{}, false
		}
		return e.emit(farm.Action{Kind: farm.ActionWarp, Location: farm.FarmLocationName}), true
	}

	// 5. Not yet adjacent: move, with bounded stuck handling.
	if player.ManhattanTo(target.Pos) > farm.AdjacencyDistance {
		if e.state == farm.StateMoving && e.havePos && player == e.lastPos {
			e.stuckTicks++
		} else {
			e.stuckTicks = 0
		}
		e.lastPos = player
		e.havePos = true

		if e.stuckTicks >= farm.StuckTickLimit {
			if action, ok := e.clearObstacleToward(player, target, sur); ok {
				e.stuckTicks = 0
				return action, true
			}
			e.abandonTarget("stuck with no clearable obstacle")
			return farm.Action{}, false
		}

		e.state = farm.StateMoving
		dest := target.Pos
		if !target.NavigateOnly() {
			dest = farm.ActionPosition(target.Pos)
		}
		return e.emit(farm.Action{Kind: farm.ActionMoveTo, Target: dest}), true
	}

	// 6. Navigation targets complete on arrival, no skill needed.
	if target.NavigateOnly() {
		e.progress.Completed++
		e.checkMilestones()
		e.advanceCursor()
		return farm.Action{}, false
	}

	// 7. Validate against the freshest observation before acting.
	if e.shouldSkipTarget(target, snap) {
		e.progress.Skipped++
		if e.metrics != nil {
			e.metrics.RecordTargetSkipped()
		}
		e.advanceCursor()
		return farm.Action{}, false
	}

	// 8. Act.
	dir := farm.Direction(target.Meta["direction"])
	if dir == "" {
		dir = farm.DirectionBetween(player, target.Pos)
	}
	e.state = farm.StateExecuting
	return e.emit(farm.Action{Kind: farm.ActionSkill, Skill: e.skillFor(target), Direction: dir}), true
}

// ReportResult feeds back the outcome of the last emitted skill.
func (e *Executor) ReportResult(success bool, errMsg string) {
	if e.state != farm.StateExecuting {
		return
	}

	if e.refillPending {
		if success {
			e.refillPending = false
			e.consecutiveFailures = 0
			e.state = farm.StateMoving
			return
		}
		e.consecutiveFailures++
		if e.consecutiveFailures >= farm.MaxTargetRetries {
			e.refillPending = false
			e.consecutiveFailures = 0
			e.Interrupt("refill kept failing: " + errMsg)
			return
		}
		e.state = farm.StateNeedsRefill
		return
	}

	if success {
		e.progress.Completed++
		e.consecutiveFailures = 0
		if e.metrics != nil {
			e.metrics.RecordTargetCompleted()
		}
		e.checkMilestones()
		e.advanceCursor()
		return
	}

	e.consecutiveFailures++
	if e.consecutiveFailures >= farm.MaxTargetRetries {
		e.abandonTarget(errMsg)
		return
	}
	e.state = farm.StateMoving
}

// abandonTarget gives up on the current target after bounded retries
// or an unclearable obstacle, counting it failed exactly once.
func (e *Executor) abandonTarget(reason string) {
	e.progress.Failed++
	e.consecutiveFailures = 0
	if e.metrics != nil {
		e.metrics.RecordTargetFailed()
	}
	e.queueEvent(ports.EventTargetFailed, map[string]any{
		"target": e.targets[e.cursor].Pos,
		"reason": reason,
	})
	e.advanceCursor()
}

func (e *Executor) advanceCursor() {
	e.cursor++
	e.stuckTicks = 0
	e.havePos = false
	if e.cursor >= len(e.targets) {
		e.finishTask()
		return
	}
	e.state = farm.StateMoving
}

func (e *Executor) finishTask() {
	if e.state == farm.StateComplete {
		return
	}
	e.state = farm.StateComplete
	e.queueEvent(ports.EventTaskComplete, map[string]any{
		"completed": e.progress.Completed,
		"failed":    e.progress.Failed,
		"skipped":   e.progress.Skipped,
	})
}

func (e *Executor) emitRefill(dir farm.Direction, snap farm.Snapshot) farm.Action {
	if dir == "" {
		dir = snap.Player.Facing
	}
	e.refillPending = true
	e.state = farm.StateExecuting
	return e.emit(farm.Action{Kind: farm.ActionSkill, Skill: farm.SkillRefillWateringCan, Direction: dir})
}

// clearObstacleToward inspects the adjacent tile in the direction of
// travel; a clearable debris type yields one clearing attempt.
func (e *Executor) clearObstacleToward(player farm.Point, target farm.Target, sur farm.Surroundings) (farm.Action, bool) {
	dir := farm.DirectionBetween(player, target.Pos)
	blocker, ok := sur.Blockers[dir]
	if !ok || blocker.Distance != 0 {
		return farm.Action{}, false
	}
	skill, clearable := farm.ClearSkillForDebris(blocker.Type)
	if !clearable {
		return farm.Action{}, false
	}
	return e.emit(farm.Action{Kind: farm.ActionSkill, Skill: skill, Direction: dir}), true
}

// shouldSkipTarget re-checks a target against the current snapshot
// right before acting. Stale targets are skipped, never failed.
func (e *Executor) shouldSkipTarget(target farm.Target, snap farm.Snapshot) bool {
	switch e.taskType {
	case farm.TaskWaterCrops:
		crop, ok := cropAt(snap, target.Pos)
		return !ok || crop.Watered
	case farm.TaskHarvestCrops:
		crop, ok := cropAt(snap, target.Pos)
		return !ok || !crop.ReadyForHarvest
	case farm.TaskTillSoil:
		for _, pos := range snap.Location.TilledTiles {
			if pos == target.Pos {
				return true
			}
		}
		return false
	case farm.TaskPlantSeeds:
		_, occupied := cropAt(snap, target.Pos)
		return occupied
	case farm.TaskClearDebris:
		for _, obj := range snap.Location.Objects {
			if obj.Pos == target.Pos {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func cropAt(snap farm.Snapshot, pos farm.Point) (farm.Crop, bool) {
	for _, crop := range snap.Location.Crops {
		if crop.Pos == pos {
			return crop, true
		}
	}
	return farm.Crop{}, false
}

func (e *Executor) skillFor(target farm.Target) farm.Skill {
	if e.taskType == farm.TaskClearDebris {
		if skill, ok := farm.ClearSkillForDebris(target.Meta["name"]); ok {
			return skill
		}
		return farm.SkillInteract
	}
	return farm.SkillForTask(e.taskType)
}

func (e *Executor) emit(action farm.Action) farm.Action {
	if e.metrics != nil {
		e.metrics.RecordAction(string(action.Kind))
	}
	return action
}

func (e *Executor) checkMilestones() {
	if e.progress.Total == 0 {
		return
	}
	pct := e.progress.Completed * 100 / e.progress.Total
	for _, milestone := range farm.ProgressMilestones {
		if pct >= milestone && !e.milestonesFired[milestone] {
			e.milestonesFired[milestone] = true
			e.queueEvent(ports.EventMilestone, map[string]any{"percent": milestone})
		}
	}
}

func (e *Executor) queueEvent(eventType string, payload map[string]any) {
	event := ports.CommentaryEvent{
		Type:       eventType,
		TaskID:     e.taskID,
		OccurredAt: e.now(),
		Payload:    payload,
	}
	if e.sink != nil {
		e.sink.Publish(event)
	}
	e.events = append(e.events, event)
}

// ShouldComment drains one queued event per call, falling back to a
// periodic check-in so commentary never goes silent through a long
// uneventful stretch.
func (e *Executor) ShouldComment() (ports.CommentaryEvent, bool) {
	if len(e.events) > 0 {
		event := e.events[0]
		e.events = e.events[1:]
		e.lastCommentTick = e.tick
		return event, true
	}
	fallback := e.tuning.CommentFallbackTicks
	if fallback > 0 && e.tick-e.lastCommentTick >= fallback && e.state != farm.StateIdle {
		e.lastCommentTick = e.tick
		return ports.CommentaryEvent{
			Type:       ports.EventIdleCheckIn,
			TaskID:     e.taskID,
			OccurredAt: e.now(),
		}, true
	}
	return ports.CommentaryEvent{}, false
}
