package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"farmhand/internal/app/planner"
	"farmhand/internal/app/ports"
	"farmhand/internal/app/session"
	"farmhand/internal/app/survey"
	"farmhand/internal/domain/farm"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Handler struct {
	PlannerUC planner.UseCase
	SessionUC *session.UseCase
	Notes     ports.NoteRepository
	Plans     ports.PlanRepository
	KPI       kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	agent := s.Group("/api/agent")
	agent.POST("/plan", h.plan)
	agent.POST("/task", h.startTask)
	agent.POST("/tick", h.tick)
	agent.POST("/result", h.result)
	agent.POST("/farm", h.startFarming)
	agent.POST("/farm/tick", h.farmTick)
	agent.POST("/farm/skip", h.farmSkip)
	agent.POST("/interrupt", h.interrupt)
	agent.POST("/clear", h.clear)
	agent.GET("/progress", h.progress)
	agent.GET("/notes", h.notes)
	agent.GET("/plan/latest", h.latestPlan)

	s.GET("/ops/kpi", h.kpi)
}

type planRequest struct {
	AgentID  string         `json:"agent_id"`
	Day      int            `json:"day"`
	Tasks    []taskEntry    `json:"tasks,omitempty"`
	Snapshot map[string]any `json:"snapshot"`
}

type taskEntry struct {
	ID          string `json:"id"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Priority    int    `json:"priority,omitempty"`
}

func (h Handler) plan(c context.Context, ctx *app.RequestContext) {
	var body planRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	tasks := make([]farm.Task, 0, len(body.Tasks))
	for _, entry := range body.Tasks {
		tasks = append(tasks, farm.Task{
			ID:          entry.ID,
			Type:        resolveTaskType(entry.Type, entry.Description),
			Description: entry.Description,
			Priority:    entry.Priority,
		})
	}

	resp, err := h.PlannerUC.Execute(c, planner.Request{
		AgentID: body.AgentID,
		Day:     body.Day,
		Tasks:   tasks,
	}, farm.NormalizeSnapshot(body.Snapshot))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type startTaskRequest struct {
	AgentID     string         `json:"agent_id"`
	TaskID      string         `json:"task_id"`
	TaskType    string         `json:"task_type,omitempty"`
	Description string         `json:"description,omitempty"`
	Strategy    string         `json:"strategy,omitempty"`
	Snapshot    map[string]any `json:"snapshot"`
}

func (h Handler) startTask(c context.Context, ctx *app.RequestContext) {
	var body startTaskRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.SessionUC.StartTask(c, session.StartTaskRequest{
		AgentID:  body.AgentID,
		TaskID:   body.TaskID,
		TaskType: resolveTaskType(body.TaskType, body.Description),
		Strategy: farm.SortStrategy(body.Strategy),
	}, farm.NormalizeSnapshot(body.Snapshot))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type tickRequest struct {
	AgentID      string            `json:"agent_id"`
	Surroundings farm.Surroundings `json:"surroundings"`
	Snapshot     map[string]any    `json:"snapshot"`
}

func (h Handler) tick(c context.Context, ctx *app.RequestContext) {
	var body tickRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.SessionUC.Tick(c, session.TickRequest{
		AgentID:      body.AgentID,
		Surroundings: body.Surroundings,
	}, farm.NormalizeSnapshot(body.Snapshot))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type startFarmingRequest struct {
	AgentID           string         `json:"agent_id"`
	SeedCount         int            `json:"seed_count"`
	Radius            int            `json:"radius"`
	CheckReachability bool           `json:"check_reachability"`
	Snapshot          map[string]any `json:"snapshot"`
}

func (h Handler) startFarming(c context.Context, ctx *app.RequestContext) {
	var body startFarmingRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.SessionUC.StartFarming(c, session.StartFarmingRequest{
		AgentID:           body.AgentID,
		SeedCount:         body.SeedCount,
		Radius:            body.Radius,
		CheckReachability: body.CheckReachability,
	}, farm.NormalizeSnapshot(body.Snapshot))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type farmTickRequest struct {
	AgentID  string         `json:"agent_id"`
	Snapshot map[string]any `json:"snapshot"`
}

func (h Handler) farmTick(c context.Context, ctx *app.RequestContext) {
	var body farmTickRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.SessionUC.FarmTick(c, body.AgentID, farm.NormalizeSnapshot(body.Snapshot))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) farmSkip(_ context.Context, ctx *app.RequestContext) {
	var body farmTickRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if err := h.SessionUC.SkipFarmCell(body.AgentID); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]string{"status": "skipped"})
}

func (h Handler) result(c context.Context, ctx *app.RequestContext) {
	var body session.ResultRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.SessionUC.ReportResult(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type interruptRequest struct {
	AgentID string `json:"agent_id"`
	Reason  string `json:"reason,omitempty"`
}

func (h Handler) interrupt(_ context.Context, ctx *app.RequestContext) {
	var body interruptRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if err := h.SessionUC.Interrupt(body.AgentID, body.Reason); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]string{"status": "interrupted"})
}

func (h Handler) clear(_ context.Context, ctx *app.RequestContext) {
	var body interruptRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if err := h.SessionUC.ClearTask(body.AgentID); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]string{"status": "cleared"})
}

func (h Handler) progress(_ context.Context, ctx *app.RequestContext) {
	agentID := string(ctx.Query("agent_id"))
	resp, err := h.SessionUC.Status(agentID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) notes(c context.Context, ctx *app.RequestContext) {
	agentID := strings.TrimSpace(string(ctx.Query("agent_id")))
	if agentID == "" {
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_agent_id", "agent_id is required")
		return
	}
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	if h.Notes == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "note repository not configured")
		return
	}

	notes, err := h.Notes.ListByAgentID(c, agentID, limit)
	if err != nil {
		writeError(ctx, err)
		return
	}
	out := make([]map[string]any, 0, len(notes))
	for _, note := range notes {
		out = append(out, map[string]any{
			"text":       note.Text,
			"created_at": note.CreatedAt,
		})
	}
	ctx.JSON(consts.StatusOK, map[string]any{"agent_id": agentID, "notes": out})
}

func (h Handler) latestPlan(c context.Context, ctx *app.RequestContext) {
	agentID := strings.TrimSpace(string(ctx.Query("agent_id")))
	if agentID == "" {
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_agent_id", "agent_id is required")
		return
	}
	if h.Plans == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "plan repository not configured")
		return
	}

	plan, err := h.Plans.GetLatest(c, agentID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{
		"plan_id":    plan.PlanID,
		"agent_id":   plan.AgentID,
		"day":        plan.Day,
		"queue":      plan.Resolved,
		"skipped":    plan.Skipped,
		"created_at": plan.CreatedAt,
	})
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

// resolveTaskType accepts either a typed task identifier or free text.
// Free-text descriptions only exist at this boundary; everything past
// it works with the typed enum.
func resolveTaskType(taskType, description string) farm.TaskType {
	switch t := farm.TaskType(strings.TrimSpace(taskType)); t {
	case farm.TaskWaterCrops, farm.TaskHarvestCrops, farm.TaskPlantSeeds,
		farm.TaskShipItems, farm.TaskClearDebris, farm.TaskBuySeeds,
		farm.TaskRefillWater, farm.TaskTillSoil, farm.TaskNavigate:
		return t
	}
	if taskType != "" {
		return farm.TaskTypeFromDescription(taskType)
	}
	return farm.TaskTypeFromDescription(description)
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, planner.ErrInvalidRequest),
		errors.Is(err, session.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, session.ErrNoActiveTask):
		writeErrorBody(ctx, consts.StatusConflict, "no_active_task", err.Error())
	case errors.Is(err, session.ErrNoFarmingPlan):
		writeErrorBody(ctx, consts.StatusConflict, "no_farming_plan", err.Error())
	case errors.Is(err, survey.ErrNoSeeds):
		writeErrorBody(ctx, consts.StatusConflict, "no_seeds", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
