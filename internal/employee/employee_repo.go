package employee

import (
	"context"
	"fmt"

	"hr-console/internal/apiclient"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	List(ctx context.Context, params ListParams) ([]Employee, error)
	Get(ctx context.Context, id int64) (Employee, error)
	Create(ctx context.Context, req CreateEmployeeRequest) (Employee, error)
	Update(ctx context.Context, id int64, req UpdateEmployeeRequest) (Employee, error)
	Delete(ctx context.Context, id int64) error
	GetAttendance(ctx context.Context, id int64, params HistoryParams) (AttendanceHistory, error)
	NextID(ctx context.Context) (string, error)
}

// repository is the /employees facade over the shared HR API client.
type repository struct {
	client *apiclient.Client
}

func NewRepository(client *apiclient.Client) Repository {
	return &repository{client: client}
}

func employeePath(id int64) string {
	return fmt.Sprintf("/employees/%d/", id)
}

func (r *repository) List(ctx context.Context, params ListParams) ([]Employee, error) {
	var resp listResponse
	if err := r.client.Get(ctx, "/employees/", params.Query(), &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Employee, error) {
	var empl Employee
	err := r.client.Get(ctx, employeePath(id), nil, &empl)
	return empl, err
}

func (r *repository) Create(ctx context.Context, req CreateEmployeeRequest) (Employee, error) {
	var empl Employee
	err := r.client.Post(ctx, "/employees/", req, &empl)
	return empl, err
}

func (r *repository) Update(ctx context.Context, id int64, req UpdateEmployeeRequest) (Employee, error) {
	var empl Employee
	err := r.client.Put(ctx, employeePath(id), req, &empl)
	return empl, err
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, employeePath(id))
}

func (r *repository) GetAttendance(ctx context.Context, id int64, params HistoryParams) (AttendanceHistory, error) {
	var hist AttendanceHistory
	err := r.client.Get(ctx, fmt.Sprintf("/employees/%d/attendance/", id), params.Query(), &hist)
	return hist, err
}

func (r *repository) NextID(ctx context.Context) (string, error) {
	var resp nextIDResponse
	if err := r.client.Get(ctx, "/employees/next-id/", nil, &resp); err != nil {
		return "", err
	}
	return resp.NextID, nil
}
