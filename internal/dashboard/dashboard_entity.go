package dashboard

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

// Stats is the /dashboard/ payload. Today is the server's date (YYYY-MM-DD).
type Stats struct {
	TotalEmployees      int               `json:"total_employees"`
	TotalDepartments    int               `json:"total_departments"`
	TodayPresent        int               `json:"today_present"`
	TodayAbsent         int               `json:"today_absent"`
	Today               string            `json:"today"`
	DepartmentBreakdown []DepartmentCount `json:"department_breakdown"`
}
