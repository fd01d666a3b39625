package dashboard

type BreakdownRow struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
	Percent    int    `json:"percent"`
}

type State string

const (
	StateReady State = "ready"
	StateError State = "error"
)

// View is the rendered dashboard. On failure only State and Error are set.
type View struct {
	State            State          `json:"state"`
	Error            string         `json:"error,omitempty"`
	TotalEmployees   int            `json:"total_employees"`
	TotalDepartments int            `json:"total_departments"`
	TodayPresent     int            `json:"today_present"`
	TodayAbsent      int            `json:"today_absent"`
	AttendanceRate   int            `json:"attendance_rate"`
	RateText         string         `json:"rate_text,omitempty"`
	Today            string         `json:"today,omitempty"`
	TodayLabel       string         `json:"today_label,omitempty"`
	Breakdown        []BreakdownRow `json:"breakdown"`
}
