package query

import (
	"context"

	"github.com/Builder-Lawyers/builder-admin/internal/application/dto"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db/repo"
	dbs "github.com/Builder-Lawyers/builder-admin/pkg/db"
)

type GetSite struct {
	uowFactory *dbs.UOWFactory
}

func NewGetSite(factory *dbs.UOWFactory) *GetSite {
	return &GetSite{uowFactory: factory}
}

// Query returns the site with its client, project and steps.
func (c *GetSite) Query(ctx context.Context, siteID uint64) (resp *dto.Site, err error) {
	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Finalize(ctx, &err)

	site, err := repo.NewSiteRepo(tx).GetSite(ctx, siteID)
	if err != nil {
		return nil, err
	}
	client, err := repo.NewClientRepo(tx).GetClient(ctx, site.ClientID)
	if err != nil {
		return nil, err
	}
	project, err := repo.NewProjectRepo(tx).GetProject(ctx, site.ProjectID)
	if err != nil {
		return nil, err
	}
	steps, err := repo.NewStepRepo(tx).ListSteps(ctx, siteID)
	if err != nil {
		return nil, err
	}

	details := db.MapSiteToDTO(*site)
	clientDTO := db.MapClientToDTO(*client)
	projectDTO := db.MapProjectToDTO(*project)
	details.Client = &clientDTO
	details.Project = &projectDTO
	details.Steps = db.MapStepsToDTO(steps)

	return &details, nil
}

type ListSites struct {
	uowFactory *dbs.UOWFactory
}

func NewListSites(factory *dbs.UOWFactory) *ListSites {
	return &ListSites{uowFactory: factory}
}

func (c *ListSites) Query(ctx context.Context, clientID *uint64, status *consts.SiteStatus) ([]dto.Site, error) {
	sites, err := repo.NewSiteRepo(c.uowFactory.Pool).ListSites(ctx, repo.SiteFilter{ClientID: clientID, Status: status})
	if err != nil {
		return nil, err
	}
	resp := make([]dto.Site, 0, len(sites))
	for _, site := range sites {
		resp = append(resp, db.MapSiteToDTO(site))
	}
	return resp, nil
}
