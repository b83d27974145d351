package query

import (
	"context"

	"github.com/Builder-Lawyers/builder-admin/internal/application/dto"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/entity"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db/repo"
	dbs "github.com/Builder-Lawyers/builder-admin/pkg/db"
)

type ListSteps struct {
	uowFactory *dbs.UOWFactory
}

func NewListSteps(factory *dbs.UOWFactory) *ListSteps {
	return &ListSteps{uowFactory: factory}
}

func (c *ListSteps) Query(ctx context.Context, siteID uint64) ([]dto.Step, error) {
	pool := c.uowFactory.Pool
	if _, err := repo.NewSiteRepo(pool).GetSite(ctx, siteID); err != nil {
		return nil, err
	}
	steps, err := repo.NewStepRepo(pool).ListSteps(ctx, siteID)
	if err != nil {
		return nil, err
	}
	return db.MapStepsToDTO(steps), nil
}

// GetStepsStatus is the read-only progress rollup polled by the UI.
type GetStepsStatus struct {
	uowFactory *dbs.UOWFactory
}

func NewGetStepsStatus(factory *dbs.UOWFactory) *GetStepsStatus {
	return &GetStepsStatus{uowFactory: factory}
}

func (c *GetStepsStatus) Query(ctx context.Context, siteID uint64) (*entity.StepsReport, error) {
	steps, err := repo.NewStepRepo(c.uowFactory.Pool).ListProgressSteps(ctx, siteID)
	if err != nil {
		return nil, err
	}
	report := entity.Aggregate(db.MapStepsToEntity(steps))
	return &report, nil
}
