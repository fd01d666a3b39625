package employee

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"hr-console/internal/apiclient"
	"hr-console/internal/audit"
	employeeerrors "hr-console/internal/employee/errors"
	"hr-console/internal/listview"
	"hr-console/internal/notify"
	"hr-console/internal/shared/contextutil"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	// OptionsPageSize caps the employee set loaded for pickers.
	OptionsPageSize = 1000

	DefaultSearchDebounce = 300 * time.Millisecond

	msgLoadFailed   = "Failed to load employees"
	msgCreated      = "Employee added successfully"
	msgCreateFailed = "Failed to add employee"
	msgDeleteFailed = "Failed to delete employee"
)

type Service interface {
	View(ctx context.Context) (ListView, error)
	SetFilter(ctx context.Context, filter Filter) (ListView, error)
	Refresh(ctx context.Context) (ListView, error)
	OpenForm(ctx context.Context) ListView
	CloseForm(ctx context.Context) ListView
	RejectForm(ctx context.Context, values CreateEmployeeRequest, fields map[string][]string) ListView
	Create(ctx context.Context, req CreateEmployeeRequest) (ListView, error)
	Delete(ctx context.Context, id int64) (ListView, error)
	Detail(ctx context.Context, id int64, params HistoryParams) (DetailView, error)
	Options(ctx context.Context) ([]Employee, error)
	Subscribe() (<-chan ListView, func())
}

type Config struct {
	SearchDebounce time.Duration
}

type service struct {
	repo     Repository
	list     *listview.Controller[Filter, Employee]
	notifier notify.Notifier
	audit    audit.Logger
	sf       *singleflight.Group
	logger   *zap.Logger

	mu      sync.Mutex
	form    FormState
	formGen uint64
}

func NewService(
	repo Repository,
	notifier notify.Notifier,
	auditLogger audit.Logger,
	cfg Config,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	if auditLogger == nil {
		auditLogger = audit.Nop{}
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if cfg.SearchDebounce <= 0 {
		cfg.SearchDebounce = DefaultSearchDebounce
	}

	s := &service{
		repo:     repo,
		notifier: notifier,
		audit:    auditLogger,
		sf:       &singleflight.Group{},
		logger:   l,
	}
	s.list = listview.New(Filter{}, s.fetch, listview.Options[Filter]{
		Name:             "list",
		LoadErrorMessage: msgLoadFailed,
		Debounce:         cfg.SearchDebounce,
		Notifier:         notifier,
		Logger:           l,
	})
	return s
}

func (s *service) fetch(ctx context.Context, f Filter) ([]Employee, error) {
	return s.repo.List(ctx, ListParams{Search: f.Search, Department: f.Department})
}

func (s *service) View(ctx context.Context) (ListView, error) {
	snap, err := s.list.Mount(ctx)
	return s.render(snap), err
}

// SetFilter refetches immediately when the department changes and debounces pure search
// text edits.
func (s *service) SetFilter(ctx context.Context, filter Filter) (ListView, error) {
	current := s.list.Filter()
	s.logger.Debug("set employee filter",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("search", filter.Search),
		zap.String("department", filter.Department),
	)

	if filter.Department != "" && !IsDepartment(filter.Department) {
		return s.render(s.list.Snapshot()), employeeerrors.ErrInvalidDepartment
	}
	if filter == current {
		return s.View(ctx)
	}
	if filter.Department == current.Department {
		return s.render(s.list.SetFilterDebounced(ctx, filter)), nil
	}
	snap, err := s.list.SetFilter(ctx, filter)
	return s.render(snap), err
}

func (s *service) Refresh(ctx context.Context) (ListView, error) {
	snap, err := s.list.Refetch(ctx)
	return s.render(snap), err
}

// OpenForm shows the add modal at once; the suggested employee code fills in when the
// next-id lookup returns, unless the admin already typed one. A failed lookup leaves the
// field empty and editable.
func (s *service) OpenForm(ctx context.Context) ListView {
	s.mu.Lock()
	s.formGen++
	gen := s.formGen
	s.form = FormState{Open: true, SuggestionPending: true}
	s.mu.Unlock()

	go s.suggestEmployeeID(contextutil.Detach(ctx), gen)

	return s.render(s.list.Snapshot())
}

func (s *service) suggestEmployeeID(ctx context.Context, gen uint64) {
	nextID, err := s.repo.NextID(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.formGen || !s.form.Open {
		return
	}
	s.form.SuggestionPending = false
	if err != nil {
		s.logger.Debug("next employee id unavailable", zap.Error(err))
		return
	}
	s.form.SuggestedID = nextID
	if s.form.Values.EmployeeID == "" {
		s.form.Values.EmployeeID = nextID
	}
}

func (s *service) CloseForm(ctx context.Context) ListView {
	s.mu.Lock()
	s.formGen++
	s.form = FormState{}
	s.mu.Unlock()
	return s.render(s.list.Snapshot())
}

// RejectForm keeps the modal open with locally detected validation errors, in the same
// shape the API uses.
func (s *service) RejectForm(ctx context.Context, values CreateEmployeeRequest, fields map[string][]string) ListView {
	s.mu.Lock()
	s.form.Open = true
	s.form.Values = values
	s.form.FieldErrors = firstMessages(fields)
	s.mu.Unlock()
	return s.render(s.list.Snapshot())
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (ListView, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.String("department", req.Department),
	)

	s.mu.Lock()
	s.form.Open = true
	s.form.Values = req
	s.form.FieldErrors = nil
	s.mu.Unlock()

	var created Employee
	snap, err := s.list.Mutate(ctx, func(ctx context.Context) error {
		e, err := s.repo.Create(ctx, req)
		created = e
		return err
	}, msgCreated, s.closeForm)
	if err != nil {
		if apiErr, ok := apiclient.AsError(err); ok && apiErr.HasFieldErrors() {
			s.logger.Warn("create employee rejected",
				zap.String("request_id", rid),
				zap.Any("fields", apiErr.Errors),
			)
			s.mu.Lock()
			s.form.FieldErrors = firstMessages(apiErr.Errors)
			s.mu.Unlock()
		} else {
			s.logger.Error("create employee failed", zap.String("request_id", rid), zap.Error(err))
			s.notifier.Error(ctx, friendlyMessage(err, msgCreateFailed))
		}
		return s.render(snap), err
	}

	s.audit.Log(ctx, audit.Entry{
		Action:     audit.ActionEmployeeCreated,
		EntityType: "employee",
		EntityID:   strconv.FormatInt(created.ID, 10),
		Message:    fmt.Sprintf("Employee %s added", created.FullName),
		Meta: map[string]any{
			"employee_id": created.EmployeeID,
			"department":  created.Department,
		},
	})
	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.Int64("id", created.ID),
	)
	return s.render(snap), nil
}

func (s *service) closeForm() {
	s.mu.Lock()
	s.formGen++
	s.form = FormState{}
	s.mu.Unlock()
}

func (s *service) Delete(ctx context.Context, id int64) (ListView, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete employee requested",
		zap.String("request_id", rid),
		zap.Int64("id", id),
	)

	name := s.nameOf(id)
	snap, err := s.list.Mutate(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	}, fmt.Sprintf("%s deleted", name))
	if err != nil {
		s.logger.Error("delete employee failed",
			zap.String("request_id", rid),
			zap.Int64("id", id),
			zap.Error(err),
		)
		s.notifier.Error(ctx, msgDeleteFailed)
		return s.render(snap), mapRepositoryError(err)
	}

	s.audit.Log(ctx, audit.Entry{
		Action:     audit.ActionEmployeeDeleted,
		EntityType: "employee",
		EntityID:   strconv.FormatInt(id, 10),
		Message:    fmt.Sprintf("%s deleted", name),
	})
	s.logger.Info("delete employee success", zap.String("request_id", rid), zap.Int64("id", id))
	return s.render(snap), nil
}

func (s *service) nameOf(id int64) string {
	for _, e := range s.list.Snapshot().Rows {
		if e.ID == id {
			return e.FullName
		}
	}
	return "Employee"
}

// Detail loads the employee and the filtered attendance history in parallel.
func (s *service) Detail(ctx context.Context, id int64, params HistoryParams) (DetailView, error) {
	s.logger.Debug("employee detail requested",
		zap.Int64("id", id),
		zap.String("date_from", params.DateFrom),
		zap.String("date_to", params.DateTo),
		zap.String("status", params.Status),
	)

	var (
		empl Employee
		hist AttendanceHistory
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		empl, err = s.repo.Get(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		hist, err = s.repo.GetAttendance(gctx, id, params)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("employee detail failed", zap.Int64("id", id), zap.Error(err))
		return DetailView{}, mapRepositoryError(err)
	}

	view := DetailView{
		Employee: empl,
		Filter:   params,
		Summary:  hist.Summary,
		Records:  hist.Records,
		State:    listview.StatePopulated,
	}
	if view.Records == nil {
		view.Records = []AttendanceRecord{}
	}
	if len(view.Records) == 0 {
		view.State = listview.StateEmpty
	}
	return view, nil
}

// Options returns the capped employee set used by pickers. Concurrent callers share one
// request, which runs detached so one caller leaving does not fail the others.
func (s *service) Options(ctx context.Context) ([]Employee, error) {
	ch := s.sf.DoChan("options", func() (interface{}, error) {
		return s.repo.List(contextutil.Detach(ctx), ListParams{PageSize: OptionsPageSize})
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			s.logger.Warn("employee options failed", zap.Bool("shared", res.Shared), zap.Error(res.Err))
			return nil, res.Err
		}
		return res.Val.([]Employee), nil
	}
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

func (s *service) render(snap listview.Snapshot[Filter, Employee]) ListView {
	rows := snap.Rows
	if rows == nil {
		rows = []Employee{}
	}

	s.mu.Lock()
	form := s.form
	if form.FieldErrors != nil {
		form.FieldErrors = copyMap(form.FieldErrors)
	}
	s.mu.Unlock()

	view := ListView{
		State:     snap.State,
		Filter:    snap.Filter,
		Employees: rows,
		Total:     len(rows),
		Form:      form,
	}
	if snap.State == listview.StateEmpty {
		view.Empty = emptyState(snap.Filter)
	}
	return view
}

func emptyState(f Filter) *EmptyState {
	if f.Active() {
		return &EmptyState{
			Title:       "No employees found",
			Description: "Try adjusting your search or filters.",
		}
	}
	return &EmptyState{
		Title:       "No employees found",
		Description: "Add your first employee to get started.",
		ShowAction:  true,
	}
}

func firstMessages(fields map[string][]string) map[string]string {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(fields))
	for k, msgs := range fields {
		if len(msgs) > 0 {
			out[k] = msgs[0]
		}
	}
	return out
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
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
