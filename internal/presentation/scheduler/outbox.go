package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Builder-Lawyers/builder-admin/internal/application"
	"github.com/Builder-Lawyers/builder-admin/internal/application/errs"
	"github.com/Builder-Lawyers/builder-admin/internal/application/events"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db/repo"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/metrics"
	dbs "github.com/Builder-Lawyers/builder-admin/pkg/db"
	shared "github.com/Builder-Lawyers/builder-admin/pkg/interfaces"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type OutboxPoller struct {
	processors *application.Processors
	uowFactory *dbs.UOWFactory
	limit      int
	interval   time.Duration
}

func NewOutboxPoller(processors *application.Processors, uowFactory *dbs.UOWFactory, limit int, interval time.Duration) *OutboxPoller {
	return &OutboxPoller{processors: processors, uowFactory: uowFactory, limit: limit, interval: interval}
}

// Start polls until ctx is cancelled. A poll in flight finishes before
// Start returns.
func (o *OutboxPoller) Start(ctx context.Context) error {
	zap.S().Infow("starting outbox poller", "interval", o.interval, "limit", o.limit)
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.S().Info("outbox poller stopped")
			return nil
		case <-ticker.C:
			if _, err := o.Poll(ctx); err != nil {
				zap.S().Errorw("error in poller", "err", err)
			}
		}
	}
}

// Poll claims one batch and handles it. It returns the number of events
// claimed.
func (o *OutboxPoller) Poll(ctx context.Context) (int, error) {
	claimed, err := repo.NewEventRepo(o.uowFactory.Pool).ClaimEvents(ctx, o.limit)
	if err != nil {
		return 0, err
	}
	if len(claimed) == 0 {
		zap.S().Debug("no events to process")
		return 0, nil
	}

	// handlers run on a context that survives shutdown so claimed events
	// do not get stuck in processing
	handleCtx := context.WithoutCancel(ctx)
	var g errgroup.Group
	for _, event := range claimed {
		event := event
		g.Go(func() error {
			if err := o.handleEvent(handleCtx, event); err != nil {
				zap.S().Errorw("handler error", "event", event.ID, "err", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	zap.S().Debugw("finished poller batch", "events", len(claimed))
	return len(claimed), nil
}

func (o *OutboxPoller) handleEvent(ctx context.Context, outbox db.Outbox) error {
	var (
		uow    shared.UoW
		err    error
		status = consts.Processed
	)

	zap.S().Infow("handling event", "event", outbox.Event, "id", outbox.ID)

	switch outbox.Event {
	case events.RunInstallStep{}.GetType():
		var event events.RunInstallStep
		event, err = db.MapOutboxModelToRunInstallStep(outbox)
		if err == nil {
			uow, err = o.processors.RunInstallStep.Handle(ctx, event)
		}
	default:
		err = fmt.Errorf("unknown event type %q", outbox.Event)
	}

	if err != nil {
		var r errs.RetryableError
		if errors.As(err, &r) {
			status = consts.NotProcessed
		} else {
			status = consts.InError
		}
		zap.S().Errorw("error in handler", "event", outbox.Event, "id", outbox.ID, "err", err)
		// handler work is discarded, only the event status is recorded
		if uow != nil {
			_ = uow.Rollback(ctx)
			uow = nil
		}
	}
	metrics.OutboxEvents.WithLabelValues(outbox.Event, statusLabel(status)).Inc()

	if uow == nil {
		uow = o.uowFactory.GetUoW()
		if _, errTx := uow.Begin(ctx); errTx != nil {
			return errors.Join(err, errTx)
		}
	}

	if errStatus := repo.NewEventRepo(uow.GetTx()).SetStatus(ctx, outbox.ID, status); errStatus != nil {
		errRollback := uow.Rollback(ctx)
		return errors.Join(err, errStatus, errRollback)
	}

	if errCommit := uow.Commit(ctx); errCommit != nil {
		return errors.Join(err, errCommit)
	}

	zap.S().Infow("processed event", "id", outbox.ID, "status", statusLabel(status))
	return err
}

func statusLabel(status consts.OutboxStatus) string {
	switch status {
	case consts.Processed:
		return "processed"
	case consts.NotProcessed:
		return "retry"
	case consts.InError:
		return "error"
	}
	return "processing"
}
