package session

import (
	"context"
	"errors"
	"strings"

	"farmhand/internal/app/cellfarm"
	"farmhand/internal/app/survey"
	"farmhand/internal/domain/farm"
)

var ErrNoFarmingPlan = errors.New("no active farming plan")

// farmRun is the per-agent cell cultivation state: a coordinator over
// the surveyed batch plus whether the current cell's action stream has
// started.
type farmRun struct {
	coord     *cellfarm.Coordinator
	plan      survey.FarmingPlan
	executing bool
}

type StartFarmingRequest struct {
	AgentID           string `json:"agent_id"`
	SeedCount         int    `json:"seed_count"`
	Radius            int    `json:"radius"`
	CheckReachability bool   `json:"check_reachability"`
}

type StartFarmingResponse struct {
	SeedName string `json:"seed_name"`
	SeedSlot int    `json:"seed_slot"`
	Cells    int    `json:"cells"`
}

// StartFarming surveys the snapshot and arms a cell cultivation batch
// for the agent. It replaces any previous batch.
func (u *UseCase) StartFarming(ctx context.Context, req StartFarmingRequest, snap farm.Snapshot) (StartFarmingResponse, error) {
	req.AgentID = strings.TrimSpace(req.AgentID)
	if req.AgentID == "" || req.SeedCount <= 0 || req.Radius <= 0 {
		return StartFarmingResponse{}, ErrInvalidRequest
	}

	surveyor := survey.Surveyor{Oracle: u.Oracle, Metrics: u.Metrics, Tuning: u.Tuning}
	plan, err := surveyor.CreateFarmingPlan(ctx, snap, req.SeedCount, req.Radius, req.CheckReachability)
	if err != nil {
		return StartFarmingResponse{}, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.farms == nil {
		u.farms = make(map[string]*farmRun)
	}
	u.farms[req.AgentID] = &farmRun{
		coord: cellfarm.NewCoordinator(plan.Cells, u.Tuning),
		plan:  plan,
	}
	return StartFarmingResponse{SeedName: plan.SeedName, SeedSlot: plan.SeedSlot, Cells: len(plan.Cells)}, nil
}

type FarmTickResponse struct {
	Action   *farm.Action `json:"action,omitempty"`
	Done     bool         `json:"done"`
	Total    int          `json:"total"`
	Finished int          `json:"finished"`
}

// FarmTick advances the cultivation batch by at most one action. The
// driver walks the player to each cell's action position; once there,
// the coordinator's per-cell stream takes over.
func (u *UseCase) FarmTick(_ context.Context, agentID string, snap farm.Snapshot) (FarmTickResponse, error) {
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return FarmTickResponse{}, ErrInvalidRequest
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	run, ok := u.farms[agentID]
	if !ok {
		return FarmTickResponse{}, ErrNoFarmingPlan
	}
	coord := run.coord

	resp := FarmTickResponse{}
	resp.Total, resp.Finished = coord.Progress()
	if coord.Done() {
		resp.Done = true
		delete(u.farms, agentID)
		return resp, nil
	}

	cell, _ := coord.CurrentCell()
	if !run.executing {
		actionPos := farm.ActionPosition(cell.Pos)
		if snap.Player.Pos != actionPos {
			return u.emitFarmAction(resp, farm.Action{Kind: farm.ActionMoveTo, Target: actionPos}), nil
		}
		coord.StartCellExecution()
		run.executing = true
	}

	if step, ok := coord.NextAction(); ok {
		return u.emitFarmAction(resp, translateCellAction(step, cell)), nil
	}

	// Stream exhausted: close out the cell and report the new totals.
	coord.FinishCell()
	run.executing = false
	resp.Total, resp.Finished = coord.Progress()
	if coord.Done() {
		resp.Done = true
		delete(u.farms, agentID)
	}
	return resp, nil
}

// SkipFarmCell abandons the current cell after a failed action so one
// bad tile cannot stall the batch.
func (u *UseCase) SkipFarmCell(agentID string) error {
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return ErrInvalidRequest
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	run, ok := u.farms[agentID]
	if !ok {
		return ErrNoFarmingPlan
	}
	if cell, ok := run.coord.CurrentCell(); ok {
		run.coord.SkipCell(cell.Pos)
	}
	run.executing = false
	return nil
}

func (u *UseCase) emitFarmAction(resp FarmTickResponse, action farm.Action) FarmTickResponse {
	if u.Metrics != nil {
		u.Metrics.RecordAction(string(action.Kind))
	}
	resp.Action = &action
	return resp
}

func translateCellAction(step cellfarm.CellAction, cell farm.CellPlan) farm.Action {
	switch step.Kind {
	case cellfarm.ActionFace:
		return farm.Action{Kind: farm.ActionFace, Direction: step.Direction}
	case cellfarm.ActionSelectSlot:
		return farm.Action{Kind: farm.ActionSelectSlot, Slot: step.Slot}
	default:
		return farm.Action{Kind: farm.ActionUseTool, Direction: cell.Facing}
	}
}
