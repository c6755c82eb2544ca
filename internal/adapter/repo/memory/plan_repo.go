package memory

import (
	"context"

	"farmhand/internal/app/ports"
)

type PlanRepo struct {
	store *Store
}

func NewPlanRepo(store *Store) PlanRepo {
	return PlanRepo{store: store}
}

func (r PlanRepo) Save(_ context.Context, plan ports.PlanRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.plans[plan.AgentID] = append(r.store.plans[plan.AgentID], plan)
	return nil
}

func (r PlanRepo) GetLatest(_ context.Context, agentID string) (ports.PlanRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	plans := r.store.plans[agentID]
	if len(plans) == 0 {
		return ports.PlanRecord{}, ports.ErrNotFound
	}
	return plans[len(plans)-1], nil
}
