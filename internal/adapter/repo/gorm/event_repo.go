package gormrepo

import (
	"context"
	"encoding/json"

	"farmhand/internal/adapter/repo/gorm/model"
	"farmhand/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, agentID string, events []ports.CommentaryEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.CommentaryEvent, 0, len(events))
	for _, e := range events {
		b, _ := json.Marshal(e.Payload)
		rows = append(rows, model.CommentaryEvent{
			AgentID:    agentID,
			Type:       e.Type,
			TaskID:     e.TaskID,
			OccurredAt: e.OccurredAt,
			Payload:    b,
		})
	}
	return getDBFromCtx(ctx, r.db).Create(&rows).Error
}

func (r EventRepo) ListByAgentID(ctx context.Context, agentID string, limit int) ([]ports.CommentaryEvent, error) {
	rows := []model.CommentaryEvent{}
	query := getDBFromCtx(ctx, r.db).
		Where(&model.CommentaryEvent{AgentID: agentID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "occurred_at"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]ports.CommentaryEvent, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &payload)
		}
		out = append(out, ports.CommentaryEvent{
			Type:       row.Type,
			TaskID:     row.TaskID,
			OccurredAt: row.OccurredAt,
			Payload:    payload,
		})
	}
	return out, nil
}
