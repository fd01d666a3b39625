package attendance

import (
	"fmt"
	"net/http"

	"hr-console/internal/shared/apperror"
)

// Filter selects attendance rows. Date and the DateFrom/DateTo range never coexist: setting
// one side clears the other.
type Filter struct {
	Date     string `json:"date"`
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
	Status   string `json:"status"`
}

// DefaultFilter is the filter a freshly opened page (or Clear) starts from.
func DefaultFilter(today string) Filter {
	return Filter{Date: today}
}

func (f Filter) WithDate(date string) Filter {
	f.Date = date
	f.DateFrom = ""
	f.DateTo = ""
	return f
}

func (f Filter) WithFrom(from string) Filter {
	f.DateFrom = from
	f.Date = ""
	return f
}

func (f Filter) WithTo(to string) Filter {
	f.DateTo = to
	f.Date = ""
	return f
}

func (f Filter) WithRange(from, to string) Filter {
	return f.WithFrom(from).WithTo(to)
}

func (f Filter) WithStatus(status string) Filter {
	f.Status = status
	return f
}

// Params sends date alone when set, otherwise whatever range bounds are present.
func (f Filter) Params() ListParams {
	p := ListParams{Status: f.Status}
	if f.Date != "" {
		p.Date = f.Date
		return p
	}
	p.DateFrom = f.DateFrom
	p.DateTo = f.DateTo
	return p
}

var ErrConflictingDateFilter = apperror.New(
	apperror.CodeInvalidInput,
	"Use either date or date_from/date_to, not both",
	http.StatusBadRequest,
)

// Apply folds a partial request into f.
func (r FilterRequest) Apply(f Filter) (Filter, error) {
	hasRange := r.DateFrom != nil || r.DateTo != nil
	if r.Date != nil && hasRange {
		return f, ErrConflictingDateFilter
	}

	if r.Date != nil {
		f = f.WithDate(*r.Date)
	}
	if r.DateFrom != nil {
		f = f.WithFrom(*r.DateFrom)
	}
	if r.DateTo != nil {
		f = f.WithTo(*r.DateTo)
	}
	if r.Status != nil {
		f = f.WithStatus(*r.Status)
	}
	return f, nil
}

func summarize(records []Record) Summary {
	s := Summary{Records: len(records)}
	for _, r := range records {
		switch r.Status {
		case StatusPresent:
			s.Present++
		case StatusAbsent:
			s.Absent++
		}
	}
	s.Text = fmt.Sprintf("%d records · %d present · %d absent", s.Records, s.Present, s.Absent)
	return s
}
