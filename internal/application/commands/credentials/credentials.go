package credentials

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Builder-Lawyers/builder-admin/internal/application/errs"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/entity"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db/repo"
	dbs "github.com/Builder-Lawyers/builder-admin/pkg/db"
	"go.uber.org/zap"
)

// Credentials keeps one admin credential record per site in entity_meta.
type Credentials struct {
	uowFactory *dbs.UOWFactory
}

func NewCredentials(factory *dbs.UOWFactory) *Credentials {
	return &Credentials{uowFactory: factory}
}

func (c *Credentials) Store(ctx context.Context, siteID uint64, creds entity.Credentials) (err error) {
	value, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("err marshalling credentials, %w", err)
	}

	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Finalize(ctx, &err)

	return repo.NewMetaRepo(tx).Upsert(ctx, siteID, consts.MetaRelTypeSite, consts.MetaSiteCredentials, string(value))
}

// Get returns errs.NotFoundError when nothing was captured and
// errs.IntegrityError when the stored record is unreadable.
func (c *Credentials) Get(ctx context.Context, siteID uint64) (*entity.Credentials, error) {
	meta, err := repo.NewMetaRepo(c.uowFactory.Pool).Get(ctx, siteID, consts.MetaRelTypeSite, consts.MetaSiteCredentials)
	if err != nil {
		return nil, err
	}

	var creds entity.Credentials
	if err = json.Unmarshal([]byte(meta.Value), &creds); err != nil {
		return nil, errs.IntegrityError{Err: fmt.Errorf("credentials of site %d, %w", siteID, err)}
	}
	if !creds.Complete() {
		return nil, errs.IntegrityError{Err: fmt.Errorf("credentials of site %d are missing fields", siteID)}
	}

	return &creds, nil
}

// DeleteAllSiteSettings removes every metadata record of the site.
func (c *Credentials) DeleteAllSiteSettings(ctx context.Context, siteID uint64) error {
	deleted, err := repo.NewMetaRepo(c.uowFactory.Pool).DeleteAll(ctx, siteID, consts.MetaRelTypeSite)
	if err != nil {
		return err
	}
	zap.S().Debugw("site settings deleted", "siteID", siteID, "count", deleted)
	return nil
}
