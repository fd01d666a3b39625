package attendance

import (
	"fmt"
	"strings"

	"hr-console/internal/employee"

	"golang.org/x/text/cases"
)

// Picker is the searchable employee selector of the mark form. It works on the set loaded
// when the form opened and never calls the API itself. Not safe for concurrent use; the
// page serializes access.
type Picker struct {
	employees []employee.Employee
	query     string
	open      bool
	selected  int64
	fold      cases.Caser
}

func NewPicker(employees []employee.Employee) *Picker {
	if employees == nil {
		employees = []employee.Employee{}
	}
	return &Picker{employees: employees, fold: cases.Fold()}
}

func (p *Picker) Open() {
	p.open = true
}

func (p *Picker) Toggle() {
	p.open = !p.open
}

func (p *Picker) IsOpen() bool {
	return p.open
}

func (p *Picker) SetQuery(q string) {
	p.query = q
}

// Filter returns employees whose name, code or department contains the query, ignoring
// case. The query is used as typed, spaces included. An empty query matches everyone.
func (p *Picker) Filter(query string) []employee.Employee {
	q := p.fold.String(query)
	out := make([]employee.Employee, 0, len(p.employees))
	for _, e := range p.employees {
		if q == "" ||
			strings.Contains(p.fold.String(e.FullName), q) ||
			strings.Contains(p.fold.String(e.EmployeeID), q) ||
			strings.Contains(p.fold.String(e.Department), q) {
			out = append(out, e)
		}
	}
	return out
}

func (p *Picker) Visible() []employee.Employee {
	return p.Filter(p.query)
}

// Select commits id, closes the dropdown and resets the query. Unknown ids are ignored.
func (p *Picker) Select(id int64) bool {
	for _, e := range p.employees {
		if e.ID == id {
			p.selected = id
			p.open = false
			p.query = ""
			return true
		}
	}
	return false
}

// Dismiss closes the dropdown (outside click, Escape) and keeps the selection.
func (p *Picker) Dismiss() {
	p.open = false
}

func (p *Picker) Selected() (employee.Employee, bool) {
	for _, e := range p.employees {
		if e.ID == p.selected {
			return e, true
		}
	}
	return employee.Employee{}, false
}

func (p *Picker) SelectedID() int64 {
	return p.selected
}

func (p *Picker) Count() string {
	return fmt.Sprintf("%d of %d employees", len(p.Visible()), len(p.employees))
}

func (p *Picker) View() PickerView {
	v := PickerView{
		Open:  p.open,
		Query: p.query,
		Count: p.Count(),
	}
	if p.open {
		v.Options = p.Visible()
	}
	if e, ok := p.Selected(); ok {
		v.Selected = &e
	}
	return v
}
