package installation

import (
	"context"
	"errors"
	"strings"

	"github.com/Builder-Lawyers/builder-admin/internal/application/dto"
	"github.com/Builder-Lawyers/builder-admin/internal/application/errs"
	"github.com/Builder-Lawyers/builder-admin/internal/application/events"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db/repo"
	dbs "github.com/Builder-Lawyers/builder-admin/pkg/db"
	"go.uber.org/zap"
)

type AdvanceStep struct {
	uowFactory *dbs.UOWFactory
}

func NewAdvanceStep(factory *dbs.UOWFactory) *AdvanceStep {
	return &AdvanceStep{uowFactory: factory}
}

// Execute puts a step IN_PROGRESS and queues it for the step worker. Steps
// already running or finished successfully are returned unchanged. Completed
// installations can't be advanced.
func (c *AdvanceStep) Execute(ctx context.Context, siteID uint64, req *dto.AdvanceStepRequest) (step *dto.Step, err error) {
	if err = dto.Validate(req); err != nil {
		return nil, err
	}
	stepType := consts.StepType(strings.ToUpper(strings.TrimSpace(req.StepType)))
	if !stepType.Valid() {
		return nil, errs.ValidationError{
			Message: "invalid request",
			Fields:  []errs.FieldError{{Field: "stepType", Message: "unknown step type " + req.StepType}},
		}
	}
	if stepType == consts.StepTypePreInstallation {
		return nil, errs.ValidationError{Message: "PRE_INSTALLATION is consumed on completion and can't be advanced"}
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
	current, err := stepRepo.LockStep(ctx, siteID, stepType)
	if err != nil {
		var notFound errs.NotFoundError
		if errors.As(err, &notFound) {
			return nil, errs.ValidationError{Message: "step not found"}
		}
		return nil, err
	}

	if current.Status == consts.StepStatusInProgress || current.Status == consts.StepStatusSuccess {
		resp := db.MapStepToDTO(*current)
		return &resp, nil
	}

	updated, err := stepRepo.SetStatus(ctx, current.ID, consts.StepStatusInProgress, nil)
	if err != nil {
		return nil, err
	}

	if site.Status == consts.SiteStatusPending || site.Status == consts.SiteStatusFailed {
		if err = siteRepo.SetStatus(ctx, siteID, consts.SiteStatusInProgress); err != nil {
			return nil, err
		}
	}

	eventID, err := repo.NewEventRepo(tx).InsertEvent(ctx, events.RunInstallStep{
		SiteID:   siteID,
		StepID:   updated.ID,
		StepType: stepType,
	})
	if err != nil {
		return nil, err
	}

	zap.S().Infow("install step queued", "siteID", siteID, "step", stepType, "event", eventID)
	resp := db.MapStepToDTO(*updated)
	return &resp, nil
}
