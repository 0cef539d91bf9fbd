package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julianstephens/taskmaster/internal/clock"
	"github.com/julianstephens/taskmaster/internal/engine"
	"github.com/julianstephens/taskmaster/internal/models"
	"github.com/julianstephens/taskmaster/internal/notifier"
	"github.com/julianstephens/taskmaster/internal/storage"
	"github.com/julianstephens/taskmaster/internal/taskstore"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestServer(t *testing.T) (*Server, *engine.Engine) {
	t.Helper()
	clk := clock.NewManual(time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC))
	store := taskstore.Open(context.Background(), storage.NewMemory(), clk)
	e := engine.New(store, clk, &notifier.Recorder{}, engine.Options{})
	t.Cleanup(e.Stop)
	return NewServer(e), e
}

func do(t *testing.T, s *Server, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	w, _ := do(t, s, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["lastResetDate"] != "2024-05-15" {
		t.Errorf("lastResetDate = %v", body["lastResetDate"])
	}
}

func TestDailyLifecycle(t *testing.T) {
	s, e := newTestServer(t)

	w, env := do(t, s, http.MethodPost, "/api/daily", models.Task{Title: "Stretch", StartTime: "07:00"})
	if w.Code != http.StatusCreated || !env.Success {
		t.Fatalf("create: status = %d, body = %s", w.Code, w.Body.String())
	}
	var created models.Task
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("failed to decode task: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated ID")
	}

	w, _ = do(t, s, http.MethodPost, "/api/tasks/daily/"+created.ID+"/toggle", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("toggle: status = %d", w.Code)
	}
	if tasks := e.DailyTasks(context.Background()); len(tasks) != 1 || !tasks[0].Completed {
		t.Errorf("tasks after toggle = %+v", tasks)
	}

	w, env = do(t, s, http.MethodGet, "/api/daily", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status = %d", w.Code)
	}
	var listed []models.Task
	_ = json.Unmarshal(env.Data, &listed)
	if len(listed) != 1 || listed[0].Title != "Stretch" {
		t.Errorf("listed = %+v", listed)
	}

	w, _ = do(t, s, http.MethodPut, "/api/tasks/daily/"+created.ID, models.Task{Title: "Stretch longer"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("update: status = %d, body = %s", w.Code, w.Body.String())
	}

	w, _ = do(t, s, http.MethodDelete, "/api/tasks/daily/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", w.Code)
	}
	w, _ = do(t, s, http.MethodDelete, "/api/tasks/daily/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", w.Code)
	}
}

func TestErrorStatuses(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"empty title", http.MethodPost, "/api/free", models.Task{}, http.StatusBadRequest},
		{"bad kind", http.MethodPost, "/api/tasks/weekly/x/toggle", nil, http.StatusBadRequest},
		{"bad filter", http.MethodGet, "/api/reminders?filter=soon", nil, http.StatusBadRequest},
		{"bad reminder time", http.MethodPost, "/api/reminders", map[string]string{"title": "x", "date": "2024-06-01", "time": "25:00"}, http.StatusBadRequest},
		{"missing project", http.MethodGet, "/api/projects/nope", nil, http.StatusNotFound},
		{"missing reminder", http.MethodDelete, "/api/reminders/nope", nil, http.StatusNotFound},
		{"edit planned directly", http.MethodPut, "/api/tasks/planned/x", models.Task{Title: "x"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, s, tt.method, tt.path, tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
			if env.Success || env.Error == "" {
				t.Errorf("expected error envelope, got %+v", env)
			}
		})
	}
}

func TestMalformedJSON(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/daily", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestProjectsAndPlannedView(t *testing.T) {
	s, _ := newTestServer(t)

	project := map[string]interface{}{
		"title":     "Garden",
		"startDate": "2024-05-01T00:00:00Z",
		"endDate":   "2024-05-31T00:00:00Z",
		"tasks": []map[string]interface{}{
			{"title": "Dig", "week": 1},
		},
	}
	w, env := do(t, s, http.MethodPost, "/api/projects", project)
	if w.Code != http.StatusCreated {
		t.Fatalf("create project: status = %d, body = %s", w.Code, w.Body.String())
	}
	var summary engine.ProjectSummary
	_ = json.Unmarshal(env.Data, &summary)
	if summary.ID == "" || len(summary.Tasks) != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	w, _ = do(t, s, http.MethodPost, "/api/projects/"+summary.ID+"/tasks", map[string]interface{}{"title": "Plant", "week": 2})
	if w.Code != http.StatusCreated {
		t.Fatalf("add project task: status = %d, body = %s", w.Code, w.Body.String())
	}

	_, env = do(t, s, http.MethodGet, "/api/planned", nil)
	var planned []models.PlannedTask
	_ = json.Unmarshal(env.Data, &planned)
	if len(planned) != 2 {
		t.Fatalf("planned = %+v", planned)
	}
	for _, p := range planned {
		if p.ProjectTitle != "Garden" {
			t.Errorf("ProjectTitle = %q", p.ProjectTitle)
		}
	}

	w, _ = do(t, s, http.MethodDelete, "/api/projects/"+summary.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete project: status = %d", w.Code)
	}
	_, env = do(t, s, http.MethodGet, "/api/planned", nil)
	planned = nil
	_ = json.Unmarshal(env.Data, &planned)
	if len(planned) != 0 {
		t.Errorf("planned after cascade = %+v", planned)
	}
}

func TestStats(t *testing.T) {
	s, e := newTestServer(t)
	task, _ := e.AddDailyTask(context.Background(), models.Task{Title: "a"})
	_ = e.ToggleCompletion(context.Background(), task.ID, models.KindDaily)

	w, env := do(t, s, http.MethodGet, "/api/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Days       []models.DayStat `json:"days"`
		WeeklyRate float64          `json:"weeklyRate"`
	}
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Days) != 7 {
		t.Fatalf("days = %d", len(body.Days))
	}
	if wed := body.Days[3]; wed.Completed != 1 || wed.Total != 1 {
		t.Errorf("Wednesday = %+v", wed)
	}
}
