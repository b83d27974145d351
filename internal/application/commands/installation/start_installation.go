package installation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Builder-Lawyers/builder-admin/internal/application/dto"
	"github.com/Builder-Lawyers/builder-admin/internal/application/errs"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db/repo"
	dbs "github.com/Builder-Lawyers/builder-admin/pkg/db"
	"go.uber.org/zap"
)

type StartInstallation struct {
	uowFactory *dbs.UOWFactory
}

func NewStartInstallation(factory *dbs.UOWFactory) *StartInstallation {
	return &StartInstallation{uowFactory: factory}
}

// Execute creates the provisioning steps, stages supplied credentials on
// the PRE_INSTALLATION step and moves the site to IN_PROGRESS. Calling it
// again keeps existing steps untouched.
func (c *StartInstallation) Execute(ctx context.Context, siteID uint64, req *dto.InstallationCredentials) (steps []dto.Step, err error) {
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
	if site.Status == consts.SiteStatusCompleted {
		return nil, errs.ValidationError{Message: "installation is already completed"}
	}

	stepRepo := repo.NewStepRepo(tx)
	creds := req.ToEntity()
	if !creds.Empty() {
		if creds.Domain == "" {
			creds.Domain = site.Domain
		}
		payload, err := json.Marshal(creds)
		if err != nil {
			return nil, fmt.Errorf("err marshalling credentials, %w", err)
		}
		if err = stepRepo.UpsertPayload(ctx, siteID, consts.StepTypePreInstallation, payload); err != nil {
			return nil, err
		}
	}

	for _, stepType := range consts.ProvisioningSteps {
		if err = stepRepo.EnsureStep(ctx, siteID, stepType, nil); err != nil {
			return nil, err
		}
	}

	if err = siteRepo.SetStatus(ctx, siteID, consts.SiteStatusInProgress); err != nil {
		return nil, err
	}

	created, err := stepRepo.ListSteps(ctx, siteID)
	if err != nil {
		return nil, err
	}

	zap.S().Infow("installation started", "siteID", siteID, "steps", len(created))
	return db.MapStepsToDTO(created), nil
}
