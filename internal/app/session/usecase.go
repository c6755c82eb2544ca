package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"farmhand/internal/app/executor"
	"farmhand/internal/app/planner"
	"farmhand/internal/app/ports"
	"farmhand/internal/domain/farm"
)

var (
	ErrInvalidRequest = errors.New("invalid session request")
	ErrNoActiveTask   = errors.New("no active task")
)

// UseCase owns one executor per agent and serializes the tick flow
// through it. The executor itself is single-threaded by design; this
// layer is the only place aware that requests may arrive concurrently.
type UseCase struct {
	Planner  planner.UseCase
	Progress ports.ProgressRepository
	Events   ports.EventRepository
	Sink     ports.CommentarySink
	Metrics  ports.TickMetrics
	Oracle   ports.ReachabilityOracle
	Tuning   farm.Tuning
	Now      func() time.Time

	mu     sync.Mutex
	agents map[string]*executor.Executor
	farms  map[string]*farmRun
}

func (u *UseCase) executorFor(agentID string) *executor.Executor {
	if u.agents == nil {
		u.agents = make(map[string]*executor.Executor)
	}
	e, ok := u.agents[agentID]
	if !ok {
		e = executor.New(u.Tuning, u.Sink, u.Metrics)
		u.agents[agentID] = e
	}
	return e
}

type StartTaskRequest struct {
	AgentID  string            `json:"agent_id"`
	TaskID   string            `json:"task_id"`
	TaskType farm.TaskType     `json:"task_type"`
	Strategy farm.SortStrategy `json:"strategy,omitempty"`
}

type StartTaskResponse struct {
	State    farm.TaskState    `json:"state"`
	Progress farm.TaskProgress `json:"progress"`
}

func (u *UseCase) StartTask(ctx context.Context, req StartTaskRequest, snap farm.Snapshot) (StartTaskResponse, error) {
	req.AgentID = strings.TrimSpace(req.AgentID)
	req.TaskID = strings.TrimSpace(req.TaskID)
	if req.AgentID == "" || req.TaskID == "" || req.TaskType == "" {
		return StartTaskResponse{}, ErrInvalidRequest
	}
	strategy := req.Strategy
	if strategy == "" {
		strategy = farm.SortRowByRow
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	e := u.executorFor(req.AgentID)
	e.SetTask(req.TaskID, req.TaskType, snap, snap.Player.Pos, strategy)
	u.persistProgress(ctx, req.AgentID, e)
	return StartTaskResponse{State: e.State(), Progress: e.Progress()}, nil
}

type TickRequest struct {
	AgentID      string            `json:"agent_id"`
	Surroundings farm.Surroundings `json:"surroundings"`
}

type TickResponse struct {
	Action    *farm.Action      `json:"action,omitempty"`
	State     farm.TaskState    `json:"state"`
	Progress  farm.TaskProgress `json:"progress"`
	Commented bool              `json:"commented"`
}

// Tick runs one decision step: at most one action comes back, and a
// nil action with a live state means "keep polling".
func (u *UseCase) Tick(ctx context.Context, req TickRequest, snap farm.Snapshot) (TickResponse, error) {
	req.AgentID = strings.TrimSpace(req.AgentID)
	if req.AgentID == "" {
		return TickResponse{}, ErrInvalidRequest
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	e := u.executorFor(req.AgentID)
	if e.State() == farm.StateIdle {
		return TickResponse{}, ErrNoActiveTask
	}

	action, ok := e.NextAction(snap.Player.Pos, req.Surroundings, snap)
	resp := TickResponse{State: e.State(), Progress: e.Progress()}
	if ok {
		resp.Action = &action
	}

	if event, comment := e.ShouldComment(); comment {
		resp.Commented = true
		if u.Events != nil {
			// Fire-and-forget: a failed event append never affects the tick.
			_ = u.Events.Append(ctx, req.AgentID, []ports.CommentaryEvent{event})
		}
	}
	u.persistProgress(ctx, req.AgentID, e)
	return resp, nil
}

type ResultRequest struct {
	AgentID string `json:"agent_id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type ResultResponse struct {
	State    farm.TaskState    `json:"state"`
	Progress farm.TaskProgress `json:"progress"`
}

func (u *UseCase) ReportResult(ctx context.Context, req ResultRequest) (ResultResponse, error) {
	req.AgentID = strings.TrimSpace(req.AgentID)
	if req.AgentID == "" {
		return ResultResponse{}, ErrInvalidRequest
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	e := u.executorFor(req.AgentID)
	e.ReportResult(req.Success, req.Error)
	u.persistProgress(ctx, req.AgentID, e)
	return ResultResponse{State: e.State(), Progress: e.Progress()}, nil
}

type StatusResponse struct {
	State           farm.TaskState    `json:"state"`
	Progress        farm.TaskProgress `json:"progress"`
	InterruptReason string            `json:"interrupt_reason,omitempty"`
}

func (u *UseCase) Status(agentID string) (StatusResponse, error) {
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return StatusResponse{}, ErrInvalidRequest
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	e := u.executorFor(agentID)
	return StatusResponse{
		State:           e.State(),
		Progress:        e.Progress(),
		InterruptReason: e.InterruptReason(),
	}, nil
}

func (u *UseCase) Interrupt(agentID, reason string) error {
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return ErrInvalidRequest
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.executorFor(agentID).Interrupt(reason)
	return nil
}

func (u *UseCase) ClearTask(agentID string) error {
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return ErrInvalidRequest
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.executorFor(agentID).Clear()
	return nil
}

func (u *UseCase) persistProgress(ctx context.Context, agentID string, e *executor.Executor) {
	if u.Progress == nil || e.TaskID() == "" {
		return
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	// Progress persistence is observational; failures must not break
	// the tick loop.
	_ = u.Progress.Save(ctx, ports.ProgressRecord{
		AgentID:   agentID,
		Progress:  e.Progress(),
		State:     e.State(),
		UpdatedAt: nowFn(),
	})
}
