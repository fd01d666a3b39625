package attendance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"hr-console/internal/apiclient"
	attendanceerrors "hr-console/internal/attendance/errors"
	"hr-console/internal/audit"
	"hr-console/internal/employee"
	"hr-console/internal/listview"
	"hr-console/internal/notify"
	"hr-console/internal/shared/contextutil"

	"go.uber.org/zap"
)

const (
	msgLoadFailed   = "Failed to load attendance"
	msgMarked       = "Attendance marked successfully"
	msgMarkFailed   = "Failed to mark attendance"
	msgDeleted      = "Record deleted"
	msgDeleteFailed = "Failed to delete record"

	// nonFieldErrors is the API key for cross-field failures such as a duplicate
	// employee/date pair. They are shown on the employee field.
	nonFieldErrors = "non_field_errors"
)

// EmployeeSource supplies the employees offered by the picker.
type EmployeeSource interface {
	Options(ctx context.Context) ([]employee.Employee, error)
}

type Service interface {
	View(ctx context.Context) (ListView, error)
	SetFilter(ctx context.Context, req FilterRequest) (ListView, error)
	ClearFilter(ctx context.Context) (ListView, error)
	Refresh(ctx context.Context) (ListView, error)
	OpenForm(ctx context.Context) ListView
	Picker(ctx context.Context, req PickerRequest) (ListView, error)
	CloseForm(ctx context.Context) ListView
	RejectForm(ctx context.Context, values MarkRequest, fields map[string][]string) ListView
	Mark(ctx context.Context, req MarkRequest) (ListView, error)
	Delete(ctx context.Context, id int64) (ListView, error)
	Subscribe() (<-chan ListView, func())
}

type Config struct {
	// Now is the clock used for "today"; defaults to time.Now in UTC.
	Now func() time.Time
}

type service struct {
	repo      Repository
	employees EmployeeSource
	list      *listview.Controller[Filter, Record]
	notifier  notify.Notifier
	audit     audit.Logger
	now       func() time.Time
	logger    *zap.Logger

	mu      sync.Mutex
	form    FormState
	picker  *Picker
	formGen uint64
}

func NewService(
	repo Repository,
	employees EmployeeSource,
	notifier notify.Notifier,
	auditLogger audit.Logger,
	cfg Config,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	if auditLogger == nil {
		auditLogger = audit.Nop{}
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	s := &service{
		repo:      repo,
		employees: employees,
		notifier:  notifier,
		audit:     auditLogger,
		now:       now,
		logger:    l,
	}
	s.list = listview.New(Filter{}, s.fetch, listview.Options[Filter]{
		InitialFilter:    func() Filter { return DefaultFilter(s.today()) },
		Name:             "list",
		LoadErrorMessage: msgLoadFailed,
		Notifier:         notifier,
		Logger:           l,
	})
	return s
}

func (s *service) today() string {
	return s.now().Format(dateLayout)
}

func (s *service) fetch(ctx context.Context, f Filter) ([]Record, error) {
	return s.repo.List(ctx, f.Params())
}

func (s *service) View(ctx context.Context) (ListView, error) {
	snap, err := s.list.Mount(ctx)
	return s.render(snap), err
}

// SetFilter rejects a conflicting update before anything is sent to the API.
func (s *service) SetFilter(ctx context.Context, req FilterRequest) (ListView, error) {
	if _, err := req.Apply(Filter{}); err != nil {
		return s.render(s.list.Snapshot()), err
	}
	snap, err := s.list.UpdateFilter(ctx, func(f Filter) Filter {
		next, _ := req.Apply(f)
		return next
	})
	return s.render(snap), err
}

// ClearFilter resets to today's date and every status.
func (s *service) ClearFilter(ctx context.Context) (ListView, error) {
	snap, err := s.list.SetFilter(ctx, DefaultFilter(s.today()))
	return s.render(snap), err
}

func (s *service) Refresh(ctx context.Context) (ListView, error) {
	snap, err := s.list.Refetch(ctx)
	return s.render(snap), err
}

// OpenForm loads the picker's employee set once per opening. A failed load leaves the
// picker empty; the form stays usable.
func (s *service) OpenForm(ctx context.Context) ListView {
	today := s.today()

	s.mu.Lock()
	s.formGen++
	gen := s.formGen
	s.form = FormState{
		Open:    true,
		Values:  MarkRequest{Date: today, Status: StatusPresent},
		MaxDate: today,
	}
	s.picker = NewPicker(nil)
	s.mu.Unlock()

	emps, err := s.employees.Options(ctx)
	if err != nil {
		s.logger.Warn("load picker employees failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.Error(err),
		)
	}

	s.mu.Lock()
	if err == nil && gen == s.formGen {
		s.picker = NewPicker(emps)
	}
	s.mu.Unlock()

	return s.render(s.list.Snapshot())
}

func (s *service) Picker(ctx context.Context, req PickerRequest) (ListView, error) {
	s.mu.Lock()
	if !s.form.Open || s.picker == nil {
		s.mu.Unlock()
		return s.render(s.list.Snapshot()), attendanceerrors.ErrFormClosed
	}

	var err error
	switch {
	case req.Select != nil:
		if s.picker.Select(*req.Select) {
			s.form.Values.Employee = *req.Select
			delete(s.form.FieldErrors, "employee")
		} else {
			err = attendanceerrors.ErrUnknownEmployee
		}
	case req.Dismiss:
		s.picker.Dismiss()
	default:
		if req.Open {
			s.picker.Open()
		}
		if req.Query != nil {
			s.picker.Open()
			s.picker.SetQuery(*req.Query)
		}
	}
	s.mu.Unlock()

	return s.render(s.list.Snapshot()), err
}

func (s *service) CloseForm(ctx context.Context) ListView {
	s.closeForm()
	return s.render(s.list.Snapshot())
}

func (s *service) closeForm() {
	s.mu.Lock()
	s.formGen++
	s.form = FormState{}
	s.picker = nil
	s.mu.Unlock()
}

func (s *service) RejectForm(ctx context.Context, values MarkRequest, fields map[string][]string) ListView {
	s.mu.Lock()
	s.form.Open = true
	s.form.Values = values
	s.form.FieldErrors = formErrors(fields)
	s.mu.Unlock()
	return s.render(s.list.Snapshot())
}

func (s *service) Mark(ctx context.Context, req MarkRequest) (ListView, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("mark attendance requested",
		zap.String("request_id", rid),
		zap.Int64("employee", req.Employee),
		zap.String("date", req.Date),
		zap.String("status", req.Status),
	)

	s.mu.Lock()
	s.form.Open = true
	s.form.Values = req
	s.form.FieldErrors = nil
	if s.picker != nil && s.picker.SelectedID() != req.Employee {
		s.picker.Select(req.Employee)
	}
	s.mu.Unlock()

	var marked Record
	snap, err := s.list.Mutate(ctx, func(ctx context.Context) error {
		rec, err := s.repo.Create(ctx, req)
		marked = rec
		return err
	}, msgMarked, s.closeForm)
	if err != nil {
		if apiErr, ok := apiclient.AsError(err); ok && apiErr.HasFieldErrors() {
			s.logger.Warn("mark attendance rejected",
				zap.String("request_id", rid),
				zap.Any("fields", apiErr.Errors),
			)
			s.mu.Lock()
			s.form.FieldErrors = formErrors(apiErr.Errors)
			s.mu.Unlock()
		} else {
			s.logger.Error("mark attendance failed", zap.String("request_id", rid), zap.Error(err))
			s.notifier.Error(ctx, friendlyMessage(err, msgMarkFailed))
		}
		return s.render(snap), err
	}

	s.audit.Log(ctx, audit.Entry{
		Action:     audit.ActionAttendanceMarked,
		EntityType: "attendance",
		EntityID:   strconv.FormatInt(marked.ID, 10),
		Message:    fmt.Sprintf("%s marked %s on %s", marked.EmployeeName, marked.Status, marked.Date),
		Meta: map[string]any{
			"employee": req.Employee,
			"date":     req.Date,
			"status":   req.Status,
		},
	})
	s.logger.Info("mark attendance success", zap.String("request_id", rid), zap.Int64("id", marked.ID))
	return s.render(snap), nil
}

func (s *service) Delete(ctx context.Context, id int64) (ListView, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete attendance requested", zap.String("request_id", rid), zap.Int64("id", id))

	target, found := s.find(id)
	snap, err := s.list.Mutate(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	}, msgDeleted)
	if err != nil {
		s.logger.Error("delete attendance failed",
			zap.String("request_id", rid),
			zap.Int64("id", id),
			zap.Error(err),
		)
		s.notifier.Error(ctx, msgDeleteFailed)
		if apiErr, ok := apiclient.AsError(err); ok && apiErr.StatusCode == http.StatusNotFound {
			return s.render(snap), attendanceerrors.ErrRecordNotFound
		}
		return s.render(snap), err
	}

	entry := audit.Entry{
		Action:     audit.ActionAttendanceDeleted,
		EntityType: "attendance",
		EntityID:   strconv.FormatInt(id, 10),
		Message:    "Attendance record deleted",
	}
	if found {
		entry.Message = fmt.Sprintf("Attendance for %s on %s deleted", target.EmployeeName, target.Date)
	}
	s.audit.Log(ctx, entry)
	s.logger.Info("delete attendance success", zap.String("request_id", rid), zap.Int64("id", id))
	return s.render(snap), nil
}

func (s *service) find(id int64) (Record, bool) {
	for _, r := range s.list.Snapshot().Rows {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

func (s *service) Subscribe() (<-chan ListView, func()) {
	snaps, unsubscribe := s.list.Subscribe()
	out := make(chan ListView, 1)
	go func() {
		defer close(out)
		for snap := range snaps {
			view := s.render(snap)
			select {
			case <-out:
			default:
			}
			out <- view
		}
	}()
	return out, unsubscribe
}

func (s *service) render(snap listview.Snapshot[Filter, Record]) ListView {
	rows := snap.Rows
	if rows == nil {
		rows = []Record{}
	}

	s.mu.Lock()
	form := s.form
	if form.FieldErrors != nil {
		fe := make(map[string]string, len(form.FieldErrors))
		for k, v := range form.FieldErrors {
			fe[k] = v
		}
		form.FieldErrors = fe
	}
	if s.picker != nil && form.Open {
		form.Picker = s.picker.View()
	}
	s.mu.Unlock()

	view := ListView{
		State:   snap.State,
		Filter:  snap.Filter,
		Records: rows,
		Summary: summarize(rows),
		Form:    form,
	}
	if snap.State == listview.StateEmpty {
		view.Empty = &EmptyState{
			Title:       "No attendance records",
			Description: "No attendance found for the selected filters.",
			ShowAction:  true,
		}
	}
	return view
}

// formErrors keeps the first message per field and shows non-field errors on the
// employee selector unless it already has its own message.
func formErrors(fields map[string][]string) map[string]string {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(fields))
	for k, msgs := range fields {
		if len(msgs) == 0 {
			continue
		}
		if k == nonFieldErrors {
			continue
		}
		out[k] = msgs[0]
	}
	if msgs := fields[nonFieldErrors]; len(msgs) > 0 {
		if _, ok := out["employee"]; !ok {
			out["employee"] = msgs[0]
		}
	}
	return out
}

func friendlyMessage(err error, fallback string) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && apiErr.FriendlyMessage != "" {
		return apiErr.FriendlyMessage
	}
	return fallback
}
