package inmemory

import "sync"

type Snapshot struct {
	ActionsTotal         uint64            `json:"actions_total"`
	ActionsByKind        map[string]uint64 `json:"actions_by_kind"`
	TargetsCompleted     uint64            `json:"targets_completed"`
	TargetsFailed        uint64            `json:"targets_failed"`
	TargetsSkipped       uint64            `json:"targets_skipped"`
	ReachabilityFailOpen uint64            `json:"reachability_fail_open"`
}

// Recorder is the in-process KPI counter behind /ops/kpi. It is the
// one piece of core wiring that sees concurrent callers, hence the
// mutex.
type Recorder struct {
	mu        sync.Mutex
	byKind    map[string]uint64
	completed uint64
	failed    uint64
	skipped   uint64
	failOpen  uint64
}

func NewRecorder() *Recorder {
	return &Recorder{byKind: map[string]uint64{}}
}

func (r *Recorder) RecordAction(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKind[kind]++
}

func (r *Recorder) RecordTargetCompleted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
}

func (r *Recorder) RecordTargetFailed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed++
}

func (r *Recorder) RecordTargetSkipped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped++
}

func (r *Recorder) RecordReachabilityFailOpen() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failOpen++
}

// SnapshotAny adapts Snapshot for callers that only need an opaque
// serializable value, such as the /ops/kpi handler.
func (r *Recorder) SnapshotAny() any { return r.Snapshot() }

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		TargetsCompleted:     r.completed,
		TargetsFailed:        r.failed,
		TargetsSkipped:       r.skipped,
		ReachabilityFailOpen: r.failOpen,
		ActionsByKind:        make(map[string]uint64, len(r.byKind)),
	}
	for kind, count := range r.byKind {
		out.ActionsByKind[kind] = count
		out.ActionsTotal += count
	}
	return out
}
