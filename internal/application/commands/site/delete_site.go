package site

import (
	"context"
	"time"

	"github.com/Builder-Lawyers/builder-admin/internal/infra/db/repo"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/metrics"
	dbs "github.com/Builder-Lawyers/builder-admin/pkg/db"
	"go.uber.org/zap"
)

type SiteSettings interface {
	DeleteAllSiteSettings(ctx context.Context, siteID uint64) error
}

type DeleteSite struct {
	uowFactory *dbs.UOWFactory
	settings   SiteSettings
}

func NewDeleteSite(factory *dbs.UOWFactory, settings SiteSettings) *DeleteSite {
	return &DeleteSite{uowFactory: factory, settings: settings}
}

// Execute removes the site with its install steps, then drops its metadata.
// Metadata cleanup failures are only logged.
func (c *DeleteSite) Execute(ctx context.Context, siteID uint64) error {
	if err := c.deleteSite(ctx, siteID); err != nil {
		return err
	}

	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := c.settings.DeleteAllSiteSettings(cleanupCtx, siteID); err != nil {
		metrics.MetaCleanupFailures.Inc()
		zap.S().Errorw("err deleting site settings", "siteID", siteID, "err", err)
	}

	return nil
}

func (c *DeleteSite) deleteSite(ctx context.Context, siteID uint64) (err error) {
	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Finalize(ctx, &err)

	steps, err := repo.NewStepRepo(tx).DeleteSiteSteps(ctx, siteID)
	if err != nil {
		return err
	}
	if err = repo.NewSiteRepo(tx).DeleteSite(ctx, siteID); err != nil {
		return err
	}

	zap.S().Infow("site deleted", "siteID", siteID, "steps", steps)
	return nil
}
