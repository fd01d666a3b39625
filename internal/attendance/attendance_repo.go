package attendance

import (
	"context"
	"fmt"

	"hr-console/internal/apiclient"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	List(ctx context.Context, params ListParams) ([]Record, error)
	Get(ctx context.Context, id int64) (Record, error)
	Create(ctx context.Context, req MarkRequest) (Record, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (Record, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	client *apiclient.Client
}

func NewRepository(client *apiclient.Client) Repository {
	return &repository{client: client}
}

func recordPath(id int64) string {
	return fmt.Sprintf("/attendance/%d/", id)
}

func (r *repository) List(ctx context.Context, params ListParams) ([]Record, error) {
	var resp listResponse
	if err := r.client.Get(ctx, "/attendance/", params.Query(), &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Record, error) {
	var rec Record
	err := r.client.Get(ctx, recordPath(id), nil, &rec)
	return rec, err
}

func (r *repository) Create(ctx context.Context, req MarkRequest) (Record, error) {
	var rec Record
	err := r.client.Post(ctx, "/attendance/", req, &rec)
	return rec, err
}

func (r *repository) Update(ctx context.Context, id int64, req UpdateRequest) (Record, error) {
	var rec Record
	err := r.client.Put(ctx, recordPath(id), req, &rec)
	return rec, err
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, recordPath(id))
}
