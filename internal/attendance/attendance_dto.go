package attendance

import (
	"strconv"

	"hr-console/internal/employee"
	"hr-console/internal/listview"
)

type MarkRequest struct {
	Employee int64  `json:"employee" binding:"required,min=1"`
	Date     string `json:"date" binding:"required,datetime=2006-01-02,notfuture"`
	Status   string `json:"status" binding:"required,oneof=Present Absent"`
	Note     string `json:"note" binding:"max=500"`
}

type UpdateRequest struct {
	Date   *string `json:"date,omitempty" binding:"omitempty,datetime=2006-01-02,notfuture"`
	Status *string `json:"status,omitempty" binding:"omitempty,oneof=Present Absent"`
	Note   *string `json:"note,omitempty" binding:"omitempty,max=500"`
}

type ListParams struct {
	EmployeeID int64
	Date       string
	DateFrom   string
	DateTo     string
	Status     string
}

func (p ListParams) Query() map[string]string {
	q := map[string]string{
		"date":      p.Date,
		"date_from": p.DateFrom,
		"date_to":   p.DateTo,
		"status":    p.Status,
	}
	if p.EmployeeID > 0 {
		q["employee_id"] = strconv.FormatInt(p.EmployeeID, 10)
	}
	return q
}

type listResponse struct {
	Count   int      `json:"count"`
	Results []Record `json:"results"`
}

// FilterRequest is a partial filter change. Nil fields are left as they are; a non-nil
// empty string clears that field.
type FilterRequest struct {
	Date     *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	DateFrom *string `json:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   *string `json:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Status   *string `json:"status" binding:"omitempty,oneof=Present Absent"`
}

// PickerRequest drives the employee selector inside the mark form. Exactly one action is
// applied: select, dismiss or query.
type PickerRequest struct {
	Query   *string `json:"query" binding:"omitempty,max=100"`
	Select  *int64  `json:"select" binding:"omitempty,min=1"`
	Dismiss bool    `json:"dismiss"`
	Open    bool    `json:"open"`
}

// Summary is the header line over the table.
type Summary struct {
	Records int    `json:"records"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
	Text    string `json:"text"`
}

type EmptyState struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ShowAction  bool   `json:"show_action"`
}

type PickerView struct {
	Open     bool                `json:"open"`
	Query    string              `json:"query"`
	Options  []employee.Employee `json:"options"`
	Selected *employee.Employee  `json:"selected,omitempty"`
	Count    string              `json:"count"`
}

// FormState is the mark-attendance modal. FieldErrors holds the first message per field.
type FormState struct {
	Open        bool              `json:"open"`
	Values      MarkRequest       `json:"values"`
	MaxDate     string            `json:"max_date,omitempty"`
	Picker      PickerView        `json:"picker"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

type ListView struct {
	State   listview.State `json:"state"`
	Filter  Filter         `json:"filter"`
	Records []Record       `json:"records"`
	Summary Summary        `json:"summary"`
	Empty   *EmptyState    `json:"empty,omitempty"`
	Form    FormState      `json:"form"`
}
