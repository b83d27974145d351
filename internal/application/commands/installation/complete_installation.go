package installation

import (
	"context"
	"errors"
	"time"

	"github.com/Builder-Lawyers/builder-admin/internal/application/dto"
	"github.com/Builder-Lawyers/builder-admin/internal/application/errs"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/entity"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db/repo"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/metrics"
	dbs "github.com/Builder-Lawyers/builder-admin/pkg/db"
	"go.uber.org/zap"
)

const captureTimeout = 30 * time.Second

type CredentialStore interface {
	Store(ctx context.Context, siteID uint64, creds entity.Credentials) error
}

type SiteReader interface {
	Query(ctx context.Context, siteID uint64) (*dto.Site, error)
}

type CompleteInstallation struct {
	uowFactory  *dbs.UOWFactory
	credentials CredentialStore
	getSite     SiteReader
}

func NewCompleteInstallation(factory *dbs.UOWFactory, credentials CredentialStore, getSite SiteReader) *CompleteInstallation {
	return &CompleteInstallation{uowFactory: factory, credentials: credentials, getSite: getSite}
}

// Execute marks the site COMPLETED and consumes its PRE_INSTALLATION step
// in one transaction. Credentials are captured afterwards on a best-effort
// basis; a capture failure never fails the call.
func (c *CompleteInstallation) Execute(ctx context.Context, siteID uint64, req *dto.InstallationCredentials) (*dto.Site, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	preStep, err := c.complete(ctx, siteID)
	if err != nil {
		var notFound errs.NotFoundError
		if errors.As(err, &notFound) {
			return nil, err
		}
		return nil, errs.TransactionError{Op: "complete installation", Err: err}
	}
	metrics.InstallationsCompleted.Inc()
	zap.S().Infow("installation completed", "siteID", siteID, "preInstallation", preStep != nil)

	c.captureCredentials(ctx, siteID, resolveCredentials(siteID, preStep, req.ToEntity()))

	site, err := c.getSite.Query(ctx, siteID)
	if err != nil {
		// completion is already committed
		zap.S().Errorw("err reading back completed site", "siteID", siteID, "err", err)
		return &dto.Site{ID: siteID, Status: consts.SiteStatusCompleted}, nil
	}
	return site, nil
}

func (c *CompleteInstallation) complete(ctx context.Context, siteID uint64) (preStep *db.InstallStep, err error) {
	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Finalize(ctx, &err)

	stepRepo := repo.NewStepRepo(tx)
	preStep, err = stepRepo.LockStep(ctx, siteID, consts.StepTypePreInstallation)
	if err != nil {
		var notFound errs.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// already consumed or never staged
		preStep, err = nil, nil
	}

	if err = repo.NewSiteRepo(tx).SetStatus(ctx, siteID, consts.SiteStatusCompleted); err != nil {
		return nil, err
	}

	if _, err = stepRepo.DeleteStepsByType(ctx, siteID, consts.StepTypePreInstallation); err != nil {
		return nil, err
	}

	return preStep, nil
}

// resolveCredentials prefers what PRE_INSTALLATION staged and falls back to
// the request for anything missing or unreadable.
func resolveCredentials(siteID uint64, preStep *db.InstallStep, supplied entity.Credentials) entity.Credentials {
	if preStep == nil || len(preStep.Payload) == 0 {
		return supplied
	}
	staged, err := entity.ParseCredentialsPayload(preStep.Payload)
	if err != nil {
		zap.S().Warnw("unreadable pre-installation payload, using request credentials", "siteID", siteID, "err", err)
		return supplied
	}
	return staged.FillFrom(supplied)
}

func (c *CompleteInstallation) captureCredentials(ctx context.Context, siteID uint64, creds entity.Credentials) {
	if !creds.Complete() {
		zap.S().Debugw("no complete credentials to capture", "siteID", siteID)
		return
	}

	// the installation is already committed; a cancelled request must not
	// lose the credentials
	captureCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), captureTimeout)
	defer cancel()

	if err := c.credentials.Store(captureCtx, siteID, creds); err != nil {
		metrics.CredentialCaptureFailures.Inc()
		zap.S().Errorw("err capturing site credentials", "siteID", siteID, "err", err)
	}
}
