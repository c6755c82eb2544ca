package gormrepo

import (
	"context"

	"farmhand/internal/adapter/repo/gorm/model"
	"farmhand/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NoteRepo struct {
	db *gorm.DB
}

func NewNoteRepo(db *gorm.DB) NoteRepo {
	return NoteRepo{db: db}
}

func (r NoteRepo) Append(ctx context.Context, agentID string, notes []ports.NoteRecord) error {
	if len(notes) == 0 {
		return nil
	}
	rows := make([]model.AgentNote, 0, len(notes))
	for _, note := range notes {
		rows = append(rows, model.AgentNote{
			AgentID:   agentID,
			Text:      note.Text,
			CreatedAt: note.CreatedAt,
		})
	}
	return getDBFromCtx(ctx, r.db).Create(&rows).Error
}

func (r NoteRepo) ListByAgentID(ctx context.Context, agentID string, limit int) ([]ports.NoteRecord, error) {
	rows := []model.AgentNote{}
	query := getDBFromCtx(ctx, r.db).
		Where(&model.AgentNote{AgentID: agentID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "created_at"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]ports.NoteRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.NoteRecord{
			AgentID:   row.AgentID,
			Text:      row.Text,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}
