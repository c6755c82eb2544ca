package gormrepo

import (
	"context"
	"errors"

	"farmhand/internal/adapter/repo/gorm/model"
	"farmhand/internal/app/ports"
	"farmhand/internal/domain/farm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepo struct {
	db *gorm.DB
}

func NewProgressRepo(db *gorm.DB) ProgressRepo {
	return ProgressRepo{db: db}
}

func (r ProgressRepo) Save(ctx context.Context, record ports.ProgressRecord) error {
	row := model.TaskProgress{
		AgentID:   record.AgentID,
		TaskID:    record.Progress.TaskID,
		TaskType:  string(record.Progress.Type),
		State:     string(record.State),
		Total:     int32(record.Progress.Total),
		Completed: int32(record.Progress.Completed),
		Failed:    int32(record.Progress.Failed),
		Skipped:   int32(record.Progress.Skipped),
		UpdatedAt: record.UpdatedAt,
	}
	return getDBFromCtx(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "agent_id"}, {Name: "task_id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
}

func (r ProgressRepo) GetByTaskID(ctx context.Context, agentID, taskID string) (ports.ProgressRecord, error) {
	var row model.TaskProgress
	err := getDBFromCtx(ctx, r.db).
		Where("agent_id = ? AND task_id = ?", agentID, taskID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ProgressRecord{}, ports.ErrNotFound
		}
		return ports.ProgressRecord{}, err
	}
	return ports.ProgressRecord{
		AgentID: row.AgentID,
		Progress: farm.TaskProgress{
			TaskID:    row.TaskID,
			Type:      farm.TaskType(row.TaskType),
			Total:     int(row.Total),
			Completed: int(row.Completed),
			Failed:    int(row.Failed),
			Skipped:   int(row.Skipped),
		},
		State:     farm.TaskState(row.State),
		UpdatedAt: row.UpdatedAt,
	}, nil
}
