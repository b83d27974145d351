package site

import (
	"context"

	"github.com/Builder-Lawyers/builder-admin/internal/application/dto"
	"github.com/Builder-Lawyers/builder-admin/internal/application/query"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db/repo"
	dbs "github.com/Builder-Lawyers/builder-admin/pkg/db"
	"go.uber.org/zap"
)

type UpdateSite struct {
	uowFactory *dbs.UOWFactory
}

func NewUpdateSite(factory *dbs.UOWFactory) *UpdateSite {
	return &UpdateSite{uowFactory: factory}
}

// Execute changes the domain and/or status. A new domain goes through the
// same uniqueness pre-check as creation, ignoring the site itself.
func (c *UpdateSite) Execute(ctx context.Context, siteID uint64, req *dto.UpdateSiteRequest) (resp *dto.Site, err error) {
	if req.Domain != nil {
		normalized := query.NormalizeDomain(*req.Domain)
		req.Domain = &normalized
	}
	if err = dto.Validate(req); err != nil {
		return nil, err
	}

	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Finalize(ctx, &err)

	siteRepo := repo.NewSiteRepo(tx)
	site, err := siteRepo.GetSite(ctx, siteID)
	if err != nil {
		return nil, err
	}

	if req.Domain != nil && *req.Domain != site.Domain {
		conflict, err := siteRepo.FindDomainConflict(ctx, *req.Domain, siteID)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			return nil, *conflict
		}
		site.Domain = *req.Domain
	}
	if req.Status != nil {
		site.Status = consts.SiteStatus(*req.Status)
	}

	if err = siteRepo.UpdateSite(ctx, site); err != nil {
		return nil, err
	}

	zap.S().Infow("site updated", "siteID", siteID, "domain", site.Domain, "status", site.Status)
	updated := db.MapSiteToDTO(*site)
	return &updated, nil
}
