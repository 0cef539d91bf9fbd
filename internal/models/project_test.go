package models

import (
	"testing"
	"time"
)

func TestProject_Validate(t *testing.T) {
	start := DateOf(2024, time.May, 1)
	tests := []struct {
		name    string
		project Project
		wantErr bool
	}{
		{"valid", Project{Title: "Thesis", StartDate: start, EndDate: DateOf(2024, time.June, 1)}, false},
		{"same day", Project{Title: "Sprint", StartDate: start, EndDate: start}, false},
		{"empty title", Project{StartDate: start, EndDate: start}, true},
		{"missing dates", Project{Title: "Thesis"}, true},
		{"end before start", Project{Title: "Thesis", StartDate: start, EndDate: DateOf(2024, time.April, 30)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.project.Validate(time.Local)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProject_ValidateUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	p := Project{
		Title:     "Launch",
		StartDate: NewDate(time.Date(2024, 5, 2, 1, 0, 0, 0, time.UTC)),
		EndDate:   NewDate(time.Date(2024, 5, 1, 16, 0, 0, 0, time.UTC)),
	}
	if err := p.Validate(tokyo); err != nil {
		t.Errorf("same calendar day in JST should be valid: %v", err)
	}
	if err := p.Validate(time.UTC); err == nil {
		t.Error("end before start in UTC should be rejected")
	}
}

func TestProject_TasksByWeek(t *testing.T) {
	p := Project{Tasks: []PlannedTask{
		{Task: Task{ID: "a"}, Week: 3},
		{Task: Task{ID: "b"}, Week: 1},
		{Task: Task{ID: "c"}, Week: 3},
	}}

	groups := p.TasksByWeek()
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Week != 1 || groups[1].Week != 3 {
		t.Errorf("unexpected week order: %d, %d", groups[0].Week, groups[1].Week)
	}
	if len(groups[1].Tasks) != 2 || groups[1].Tasks[0].ID != "a" || groups[1].Tasks[1].ID != "c" {
		t.Errorf("week 3 tasks out of order: %+v", groups[1].Tasks)
	}
}

func TestProject_Clone(t *testing.T) {
	p := Project{Tasks: []PlannedTask{{Task: Task{ID: "a", Title: "x"}, Week: 1}}}
	c := p.Clone()
	c.Tasks[0].Title = "changed"
	if p.Tasks[0].Title != "x" {
		t.Error("clone shares task slice with original")
	}
	if p.TaskIndex("a") != 0 || p.TaskIndex("missing") != -1 {
		t.Error("TaskIndex returned wrong position")
	}
}
