package employee

import (
	"strconv"

	"hr-console/internal/listview"
)

type CreateEmployeeRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,max=20"`
	FullName   string `json:"full_name" binding:"required,min=2,max=150"`
	Email      string `json:"email" binding:"required,email"`
	Department string `json:"department" binding:"required,oneof=Engineering Marketing Sales HR Finance Operations Design Product Legal Other"`
}

// UpdateEmployeeRequest is a partial update; nil fields are left untouched by the API.
type UpdateEmployeeRequest struct {
	EmployeeID *string `json:"employee_id,omitempty" binding:"omitempty,max=20"`
	FullName   *string `json:"full_name,omitempty" binding:"omitempty,min=2,max=150"`
	Email      *string `json:"email,omitempty" binding:"omitempty,email"`
	Department *string `json:"department,omitempty" binding:"omitempty,oneof=Engineering Marketing Sales HR Finance Operations Design Product Legal Other"`
}

type ListParams struct {
	Search     string
	Department string
	PageSize   int
}

func (p ListParams) Query() map[string]string {
	q := map[string]string{
		"search":     p.Search,
		"department": p.Department,
	}
	if p.PageSize > 0 {
		q["page_size"] = strconv.Itoa(p.PageSize)
	}
	return q
}

type HistoryParams struct {
	DateFrom string `form:"date_from" json:"date_from,omitempty"`
	DateTo   string `form:"date_to" json:"date_to,omitempty"`
	Status   string `form:"status" json:"status,omitempty" binding:"omitempty,oneof=Present Absent"`
}

func (p HistoryParams) Query() map[string]string {
	return map[string]string{
		"date_from": p.DateFrom,
		"date_to":   p.DateTo,
		"status":    p.Status,
	}
}

type listResponse struct {
	Count   int        `json:"count"`
	Results []Employee `json:"results"`
}

type nextIDResponse struct {
	NextID string `json:"next_id"`
}

// Filter is the employee list filter. Search is matched by the API against name, code
// and email.
type Filter struct {
	Search     string `json:"search" binding:"omitempty,max=100"`
	Department string `json:"department"`
}

func (f Filter) Active() bool {
	return f.Search != "" || f.Department != ""
}

type EmptyState struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ShowAction  bool   `json:"show_action"`
}

// FormState is the add-employee modal. FieldErrors holds the first message per field.
type FormState struct {
	Open              bool                  `json:"open"`
	Values            CreateEmployeeRequest `json:"values"`
	SuggestedID       string                `json:"suggested_id,omitempty"`
	SuggestionPending bool                  `json:"suggestion_pending,omitempty"`
	FieldErrors       map[string]string     `json:"field_errors,omitempty"`
}

type ListView struct {
	State     listview.State `json:"state"`
	Filter    Filter         `json:"filter"`
	Employees []Employee     `json:"employees"`
	Total     int            `json:"total"`
	Empty     *EmptyState    `json:"empty,omitempty"`
	Form      FormState      `json:"form"`
}

type DetailView struct {
	Employee Employee           `json:"employee"`
	Filter   HistoryParams      `json:"filter"`
	Summary  AttendanceSummary  `json:"summary"`
	State    listview.State     `json:"state"`
	Records  []AttendanceRecord `json:"records"`
}
