package httpadapter

import (
	"encoding/json"
	"testing"

	"farmhand/internal/app/planner"
	"farmhand/internal/app/session"
	"farmhand/internal/domain/farm"
)

func TestResponseJSONUsesSnakeCase(t *testing.T) {
	action := farm.Action{Kind: farm.ActionSkill, Skill: farm.SkillWaterCrop, Direction: farm.DirectionNorth}
	progress := farm.TaskProgress{TaskID: "t1", Type: farm.TaskWaterCrops, Total: 4, Completed: 1}

	cases := []struct {
		name    string
		payload any
		want    []string
		notWant []string
	}{
		{
			name: "plan",
			payload: planner.Response{
				PlanID: "plan-a1-1",
				Queue: []farm.ResolvedTask{{
					TaskID:        "t1",
					Type:          farm.TaskWaterCrops,
					IsPrereq:      false,
					EstimatedTime: 30,
				}},
				Skipped: []farm.SkippedTask{{TaskID: "t2", Reason: "no seeds"}},
			},
			want:    []string{"plan_id", "queue", "skipped"},
			notWant: []string{"PlanID", "Queue", "Skipped"},
		},
		{
			name:    "tick",
			payload: session.TickResponse{Action: &action, State: farm.StateExecuting, Progress: progress},
			want:    []string{"action", "state", "progress"},
			notWant: []string{"Action", "State", "Progress"},
		},
		{
			name:    "status",
			payload: session.StatusResponse{State: farm.StateInterrupted, Progress: progress, InterruptReason: "sunset"},
			want:    []string{"state", "progress", "interrupt_reason"},
			notWant: []string{"State", "Progress", "InterruptReason"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := json.Marshal(tc.payload)
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			var got map[string]any
			if err := json.Unmarshal(b, &got); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			for _, key := range tc.want {
				if _, ok := got[key]; !ok {
					t.Fatalf("expected key %q in %s", key, string(b))
				}
			}
			for _, key := range tc.notWant {
				if _, ok := got[key]; ok {
					t.Fatalf("unexpected key %q in %s", key, string(b))
				}
			}
			if tc.name == "tick" {
				actionMap := asMap(got["action"])
				if _, ok := actionMap["kind"]; !ok {
					t.Fatalf("expected nested snake_case key action.kind in %s", string(b))
				}
				progressMap := asMap(got["progress"])
				if _, ok := progressMap["task_id"]; !ok {
					t.Fatalf("expected nested snake_case key progress.task_id in %s", string(b))
				}
			}
		})
	}
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
