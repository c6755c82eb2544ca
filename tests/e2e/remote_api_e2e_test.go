//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func TestRemoteAPI_MainEndpoints(t *testing.T) {
	baseURL := strings.TrimRight(envOr("E2E_BASE_URL", "http://localhost:8080"), "/")
	agentID := envOr("E2E_AGENT_ID", "e2e-agent-"+time.Now().UTC().Format("20060102150405"))
	client := &http.Client{Timeout: 20 * time.Second}

	snapshot := map[string]any{
		"player": map[string]any{
			"tileX": 10, "tileY": 10,
			"facingDirection":  "2",
			"wateringCanWater": 40,
			"wateringCanMax":   40,
		},
		"location": map[string]any{
			"name": "Farm",
			"crops": []any{
				map[string]any{"tileX": 12, "tileY": 10, "cropName": "Parsnip", "isWatered": false, "isReadyForHarvest": false},
				map[string]any{"tileX": 13, "tileY": 10, "cropName": "Parsnip", "isWatered": false, "isReadyForHarvest": false},
			},
		},
	}

	t.Run("plan requires agent id", func(t *testing.T) {
		status, body := mustJSON(t, client, http.MethodPost, baseURL+"/api/agent/plan", map[string]any{
			"day":      1,
			"snapshot": snapshot,
		})
		if status != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d body=%s", status, string(body))
		}
	})

	t.Run("plan task tick progress kpi", func(t *testing.T) {
		status, planBody := mustJSON(t, client, http.MethodPost, baseURL+"/api/agent/plan", map[string]any{
			"agent_id": agentID,
			"day":      1,
			"snapshot": snapshot,
		})
		if status != http.StatusOK {
			t.Fatalf("plan status=%d body=%s", status, string(planBody))
		}
		var plan map[string]any
		if err := json.Unmarshal(planBody, &plan); err != nil {
			t.Fatalf("unmarshal plan: %v body=%s", err, string(planBody))
		}
		queue := asSlice(plan["queue"])
		if len(queue) == 0 {
			t.Fatalf("expected non-empty queue, body=%s", string(planBody))
		}
		first := asMap(queue[0])
		taskID, _ := first["task_id"].(string)
		taskType, _ := first["type"].(string)

		status, startBody := mustJSON(t, client, http.MethodPost, baseURL+"/api/agent/task", map[string]any{
			"agent_id":  agentID,
			"task_id":   taskID,
			"task_type": taskType,
			"snapshot":  snapshot,
		})
		if status != http.StatusOK {
			t.Fatalf("task status=%d body=%s", status, string(startBody))
		}

		status, tickBody := mustJSON(t, client, http.MethodPost, baseURL+"/api/agent/tick", map[string]any{
			"agent_id": agentID,
			"snapshot": snapshot,
		})
		if status != http.StatusOK {
			t.Fatalf("tick status=%d body=%s", status, string(tickBody))
		}
		var tick map[string]any
		if err := json.Unmarshal(tickBody, &tick); err != nil {
			t.Fatalf("unmarshal tick: %v body=%s", err, string(tickBody))
		}
		if tick["action"] == nil {
			t.Fatalf("expected an action on first tick, body=%s", string(tickBody))
		}

		status, progressBody, err := doRequest(client, http.MethodGet, baseURL+"/api/agent/progress?agent_id="+agentID, nil)
		if err != nil {
			t.Fatalf("progress request: %v", err)
		}
		if status != http.StatusOK {
			t.Fatalf("progress status=%d body=%s", status, string(progressBody))
		}
		var progress map[string]any
		if err := json.Unmarshal(progressBody, &progress); err != nil {
			t.Fatalf("unmarshal progress: %v body=%s", err, string(progressBody))
		}
		state, _ := progress["state"].(string)
		if strings.TrimSpace(state) == "" {
			t.Fatalf("expected state in progress response, got=%v", progress)
		}

		status, kpiBody, err := doRequest(client, http.MethodGet, baseURL+"/ops/kpi", nil)
		if err != nil {
			t.Fatalf("kpi request: %v", err)
		}
		if status != http.StatusOK {
			t.Fatalf("kpi status=%d body=%s", status, string(kpiBody))
		}
		var kpi map[string]any
		if err := json.Unmarshal(kpiBody, &kpi); err != nil {
			t.Fatalf("unmarshal kpi: %v body=%s", err, string(kpiBody))
		}
		if _, ok := kpi["actions_total"]; !ok {
			t.Fatalf("expected actions_total in kpi response, body=%s", string(kpiBody))
		}
	})
}

func mustJSON(t *testing.T, client *http.Client, method, url string, body map[string]any) (int, []byte) {
	t.Helper()
	status, respBody, err := doRequest(client, method, url, body)
	if err != nil {
		t.Fatalf("%s %s request failed: %v", method, url, err)
	}
	return status, respBody
}

func doRequest(client *http.Client, method, url string, body map[string]any) (int, []byte, error) {
	var payloadBytes []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		payloadBytes = b
	}

	var lastStatus int
	var lastBody []byte
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		var payload io.Reader
		if len(payloadBytes) > 0 {
			payload = bytes.NewReader(payloadBytes)
		}
		req, err := http.NewRequest(method, url, payload)
		if err != nil {
			return 0, nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		lastStatus, lastBody, lastErr = resp.StatusCode, respBody, nil
		if resp.StatusCode >= 500 {
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		return resp.StatusCode, respBody, nil
	}
	if lastErr != nil {
		return 0, nil, lastErr
	}
	return lastStatus, lastBody, nil
}

func envOr(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}
