package models

import (
	"sort"
	"strings"
	"time"
)

type Project struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	StartDate   Date          `json:"startDate"`
	EndDate     Date          `json:"endDate"`
	Tasks       []PlannedTask `json:"tasks"`
}

// Validate checks the title and that the end date does not fall on an
// earlier calendar day than the start date, as seen in loc.
func (p *Project) Validate(loc *time.Location) error {
	if strings.TrimSpace(p.Title) == "" {
		return invalid("project title cannot be empty")
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return invalid("project start and end dates are required")
	}
	start, end := p.StartDate.Day(loc), p.EndDate.Day(loc)
	if end < start {
		return invalid("project end date %s is before start date %s", end, start)
	}
	return nil
}

func (p Project) Clone() Project {
	tasks := make([]PlannedTask, len(p.Tasks))
	for i, t := range p.Tasks {
		tasks[i] = t.Clone()
	}
	p.Tasks = tasks
	return p
}

// TaskIndex returns the position of the task with the given id, or -1.
func (p *Project) TaskIndex(id string) int {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// WeekGroup is the set of project tasks assigned to one week.
type WeekGroup struct {
	Week  int           `json:"week"`
	Tasks []PlannedTask `json:"tasks"`
}

// TasksByWeek buckets the project's tasks by week number, ascending. Task order
// inside a week follows the project's order.
func (p *Project) TasksByWeek() []WeekGroup {
	byWeek := make(map[int][]PlannedTask)
	for _, t := range p.Tasks {
		byWeek[t.Week] = append(byWeek[t.Week], t)
	}
	weeks := make([]int, 0, len(byWeek))
	for w := range byWeek {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)

	groups := make([]WeekGroup, 0, len(weeks))
	for _, w := range weeks {
		groups = append(groups, WeekGroup{Week: w, Tasks: byWeek[w]})
	}
	return groups
}
