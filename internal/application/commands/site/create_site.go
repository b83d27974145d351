package site

import (
	"context"
	"time"

	"github.com/Builder-Lawyers/builder-admin/internal/application/dto"
	"github.com/Builder-Lawyers/builder-admin/internal/application/errs"
	"github.com/Builder-Lawyers/builder-admin/internal/application/query"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db/repo"
	dbs "github.com/Builder-Lawyers/builder-admin/pkg/db"
	"go.uber.org/zap"
)

type CreateSite struct {
	uowFactory *dbs.UOWFactory
}

func NewCreateSite(factory *dbs.UOWFactory) *CreateSite {
	return &CreateSite{uowFactory: factory}
}

func (c *CreateSite) Execute(ctx context.Context, req *dto.CreateSiteRequest) (siteID uint64, err error) {
	req.Domain = query.NormalizeDomain(req.Domain)
	if err = dto.Validate(req); err != nil {
		return 0, err
	}

	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer uow.Finalize(ctx, &err)

	if _, err = repo.NewClientRepo(tx).GetClient(ctx, req.ClientID); err != nil {
		return 0, err
	}
	project, err := repo.NewProjectRepo(tx).GetProject(ctx, req.ProjectID)
	if err != nil {
		return 0, err
	}
	if project.ClientID != req.ClientID {
		return 0, errs.ValidationError{
			Message: "invalid request",
			Fields:  []errs.FieldError{{Field: "projectId", Message: "project belongs to another client"}},
		}
	}

	siteRepo := repo.NewSiteRepo(tx)
	conflict, err := siteRepo.FindDomainConflict(ctx, req.Domain, 0)
	if err != nil {
		return 0, err
	}
	if conflict != nil {
		return 0, *conflict
	}

	now := time.Now()
	newSite := db.Site{
		Domain:    req.Domain,
		ClientID:  req.ClientID,
		ProjectID: req.ProjectID,
		Status:    consts.SiteStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = siteRepo.InsertSite(ctx, &newSite); err != nil {
		return 0, err
	}

	zap.S().Infow("site created", "siteID", newSite.ID, "domain", newSite.Domain, "clientID", newSite.ClientID)
	return newSite.ID, nil
}
