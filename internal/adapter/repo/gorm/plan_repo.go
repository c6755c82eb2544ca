package gormrepo

import (
	"context"
	"encoding/json"
	"errors"

	"farmhand/internal/adapter/repo/gorm/model"
	"farmhand/internal/app/ports"
	"farmhand/internal/domain/farm"

	"gorm.io/gorm"
)

type PlanRepo struct {
	db *gorm.DB
}

func NewPlanRepo(db *gorm.DB) PlanRepo {
	return PlanRepo{db: db}
}

func (r PlanRepo) Save(ctx context.Context, plan ports.PlanRecord) error {
	resolved, _ := json.Marshal(plan.Resolved)
	skipped, _ := json.Marshal(plan.Skipped)
	row := model.PlanRun{
		PlanID:    plan.PlanID,
		AgentID:   plan.AgentID,
		Day:       int32(plan.Day),
		Resolved:  resolved,
		Skipped:   skipped,
		CreatedAt: plan.CreatedAt,
	}
	return getDBFromCtx(ctx, r.db).Create(&row).Error
}

func (r PlanRepo) GetLatest(ctx context.Context, agentID string) (ports.PlanRecord, error) {
	var row model.PlanRun
	err := getDBFromCtx(ctx, r.db).
		Where("agent_id = ?", agentID).
		Order("created_at DESC, id DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.PlanRecord{}, ports.ErrNotFound
		}
		return ports.PlanRecord{}, err
	}

	record := ports.PlanRecord{
		PlanID:    row.PlanID,
		AgentID:   row.AgentID,
		Day:       int(row.Day),
		CreatedAt: row.CreatedAt,
	}
	if len(row.Resolved) > 0 {
		var queue []farm.ResolvedTask
		if err := json.Unmarshal(row.Resolved, &queue); err != nil {
			return ports.PlanRecord{}, err
		}
		record.Resolved = queue
	}
	if len(row.Skipped) > 0 {
		var skipped []farm.SkippedTask
		if err := json.Unmarshal(row.Skipped, &skipped); err != nil {
			return ports.PlanRecord{}, err
		}
		record.Skipped = skipped
	}
	return record, nil
}
