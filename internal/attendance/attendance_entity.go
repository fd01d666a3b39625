package attendance

const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"

	dateLayout = "2006-01-02"
)

// Record is one attendance row as returned by the HR API. EmployeeCode is the human code
// (EMP-001), Employee the numeric key.
type Record struct {
	ID           int64  `json:"id"`
	Employee     int64  `json:"employee"`
	EmployeeName string `json:"employee_name"`
	EmployeeCode string `json:"employee_id"`
	Department   string `json:"department"`
	Date         string `json:"date"`
	Status       string `json:"status"`
	Note         string `json:"note"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}
