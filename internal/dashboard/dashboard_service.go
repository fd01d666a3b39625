package dashboard

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"hr-console/internal/shared/contextutil"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const msgLoadFailed = "Failed to load dashboard stats"

type Service interface {
	View(ctx context.Context) (View, error)
}

type service struct {
	repo   Repository
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	return &service{repo: repo, sf: &singleflight.Group{}, logger: l}
}

// View loads the stats once per call; callers arriving while a load is in flight share
// its result.
func (s *service) View(ctx context.Context) (View, error) {
	ch := s.sf.DoChan("stats", func() (interface{}, error) {
		return s.repo.Stats(contextutil.Detach(ctx))
	})

	select {
	case <-ctx.Done():
		return View{State: StateError, Error: msgLoadFailed}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			s.logger.Warn("load dashboard stats failed",
				zap.String("request_id", contextutil.GetRequestID(ctx)),
				zap.Bool("shared", res.Shared),
				zap.Error(res.Err),
			)
			return View{State: StateError, Error: msgLoadFailed}, res.Err
		}
		return Render(res.Val.(Stats)), nil
	}
}

// Render derives the rate, breakdown percentages and date label from raw stats.
func Render(st Stats) View {
	v := View{
		State:            StateReady,
		TotalEmployees:   st.TotalEmployees,
		TotalDepartments: st.TotalDepartments,
		TodayPresent:     st.TodayPresent,
		TodayAbsent:      st.TodayAbsent,
		AttendanceRate:   Percent(st.TodayPresent, st.TotalEmployees),
		Today:            st.Today,
		TodayLabel:       TodayLabel(st.Today),
	}
	v.RateText = fmt.Sprintf("%d%% attendance rate", v.AttendanceRate)

	rows := make([]BreakdownRow, 0, len(st.DepartmentBreakdown))
	for _, d := range st.DepartmentBreakdown {
		rows = append(rows, BreakdownRow{
			Department: d.Department,
			Count:      d.Count,
			Percent:    Percent(d.Count, st.TotalEmployees),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	v.Breakdown = rows
	return v
}

// Percent is round(part/total*100), and 0 when total is 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// TodayLabel renders 2024-01-15 as "Monday, January 15, 2024". Unparseable input is
// returned as is.
func TodayLabel(day string) string {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return day
	}
	return t.Format("Monday, January 2, 2006")
}
