package employee

// Departments is the fixed set the HR API accepts for Employee.Department.
var Departments = []string{
	"Engineering",
	"Marketing",
	"Sales",
	"HR",
	"Finance",
	"Operations",
	"Design",
	"Product",
	"Legal",
	"Other",
}

func IsDepartment(v string) bool {
	for _, d := range Departments {
		if d == v {
			return true
		}
	}
	return false
}

// Employee is the record as echoed by the HR API. The console never edits it in place.
type Employee struct {
	ID           int64  `json:"id"`
	EmployeeID   string `json:"employee_id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Department   string `json:"department"`
	TotalPresent int    `json:"total_present"`
	TotalAbsent  int    `json:"total_absent"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// AttendanceRecord is one row of an employee's attendance history.
type AttendanceRecord struct {
	ID           int64  `json:"id"`
	Employee     int64  `json:"employee"`
	EmployeeName string `json:"employee_name,omitempty"`
	EmployeeCode string `json:"employee_id,omitempty"`
	Department   string `json:"department,omitempty"`
	Date         string `json:"date"`
	Status       string `json:"status"`
	Note         string `json:"note"`
}

type AttendanceSummary struct {
	Total          int     `json:"total"`
	Present        int     `json:"present"`
	Absent         int     `json:"absent"`
	AttendanceRate float64 `json:"attendance_rate"`
}

type AttendanceHistory struct {
	EmployeeID   int64              `json:"employee_id"`
	EmployeeName string             `json:"employee_name"`
	Summary      AttendanceSummary  `json:"summary"`
	Records      []AttendanceRecord `json:"records"`
}
