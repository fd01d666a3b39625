package dashboard

import (
	"context"

	"hr-console/internal/apiclient"
)

//go:generate mockgen -source=dashboard_repo.go -destination=mock/dashboard_repo_mock.go -package=mock
type Repository interface {
	Stats(ctx context.Context) (Stats, error)
}

type repository struct {
	client *apiclient.Client
}

func NewRepository(client *apiclient.Client) Repository {
	return &repository{client: client}
}

func (r *repository) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.client.Get(ctx, "/dashboard/", nil, &s)
	return s, err
}
