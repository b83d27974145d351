package processors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Builder-Lawyers/builder-admin/internal/application/errs"
	"github.com/Builder-Lawyers/builder-admin/internal/application/events"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db/repo"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/metrics"
	dbs "github.com/Builder-Lawyers/builder-admin/pkg/db"
	shared "github.com/Builder-Lawyers/builder-admin/pkg/interfaces"
	"go.uber.org/zap"
)

// StepExecutor performs the actual provisioning work of one step.
type StepExecutor interface {
	Execute(ctx context.Context, site *db.Site, stepType consts.StepType) error
}

type RunInstallStep struct {
	uowFactory *dbs.UOWFactory
	executor   StepExecutor
	timeout    time.Duration
}

func NewRunInstallStep(factory *dbs.UOWFactory, executor StepExecutor, timeout time.Duration) *RunInstallStep {
	return &RunInstallStep{uowFactory: factory, executor: executor, timeout: timeout}
}

// Handle runs the executor outside any transaction, then records the
// outcome. The returned UoW is still open so the caller can mark the
// outbox event in the same transaction. Failing to read the site or to open
// the recording transaction is retryable.
func (c *RunInstallStep) Handle(ctx context.Context, event events.RunInstallStep) (shared.UoW, error) {
	site, err := repo.NewSiteRepo(c.uowFactory.Pool).GetSite(ctx, event.SiteID)
	if err != nil {
		var notFound errs.NotFoundError
		if errors.As(err, &notFound) {
			zap.S().Warnw("site of queued step is gone, skipping", "siteID", event.SiteID, "step", event.StepType)
			return nil, nil
		}
		return nil, errs.RetryableError{Err: err}
	}

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	started := time.Now()
	execErr := c.executor.Execute(runCtx, site, event.StepType)
	cancel()
	metrics.StepRunDuration.WithLabelValues(string(event.StepType)).Observe(time.Since(started).Seconds())

	status := consts.StepStatusSuccess
	var errorMessage *string
	if execErr != nil {
		status = consts.StepStatusFailed
		msg := execErr.Error()
		errorMessage = &msg
		zap.S().Warnw("install step failed", "siteID", site.ID, "step", event.StepType, "err", execErr)
	}
	metrics.StepRuns.WithLabelValues(string(event.StepType), string(status)).Inc()

	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin(ctx)
	if err != nil {
		return nil, errs.RetryableError{Err: err}
	}

	if _, err = repo.NewStepRepo(tx).SetStatus(ctx, event.StepID, status, errorMessage); err != nil {
		var notFound errs.NotFoundError
		if errors.As(err, &notFound) {
			zap.S().Warnw("queued step is gone, skipping", "siteID", site.ID, "stepID", event.StepID)
			return uow, nil
		}
		return uow, fmt.Errorf("err recording step result, %w", err)
	}

	if status == consts.StepStatusFailed {
		if err = c.failSite(ctx, repo.NewSiteRepo(tx), site.ID); err != nil {
			return uow, err
		}
	}

	zap.S().Infow("install step finished", "siteID", site.ID, "step", event.StepType, "status", status)
	return uow, nil
}

// failSite marks the site FAILED unless the installation was completed while
// the step was running.
func (c *RunInstallStep) failSite(ctx context.Context, siteRepo *repo.SiteRepo, siteID uint64) error {
	current, err := siteRepo.GetSite(ctx, siteID)
	if err != nil {
		return fmt.Errorf("err reading site, %w", err)
	}
	if current.Status == consts.SiteStatusCompleted {
		zap.S().Infow("site already completed, keeping status", "siteID", siteID)
		return nil
	}
	if err = siteRepo.SetStatus(ctx, siteID, consts.SiteStatusFailed); err != nil {
		return fmt.Errorf("err marking site failed, %w", err)
	}
	return nil
}
