package processors

import (
	"context"
	"fmt"

	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db"
	"go.uber.org/zap"
)

type StepHandler func(ctx context.Context, site *db.Site) error

// Executors dispatches a step to the handler registered for its type.
// Types without a handler succeed, so steps that are still done by hand can
// be ticked off from the admin UI.
type Executors struct {
	handlers map[consts.StepType]StepHandler
}

func NewExecutors() *Executors {
	return &Executors{handlers: make(map[consts.StepType]StepHandler)}
}

func (e *Executors) Register(stepType consts.StepType, handler StepHandler) *Executors {
	e.handlers[stepType] = handler
	return e
}

func (e *Executors) Execute(ctx context.Context, site *db.Site, stepType consts.StepType) error {
	handler, ok := e.handlers[stepType]
	if !ok {
		zap.S().Infow("no handler for step, marking done", "siteID", site.ID, "step", stepType)
		return nil
	}
	return handler(ctx, site)
}

type DomainRegistrar interface {
	CheckAvailability(ctx context.Context, domain string) (bool, error)
}

// DomainRegisteredCheck fails DOMAIN_SETUP while the site's domain can still
// be bought, meaning nobody registered it yet.
func DomainRegisteredCheck(registrar DomainRegistrar) StepHandler {
	return func(ctx context.Context, site *db.Site) error {
		available, err := registrar.CheckAvailability(ctx, site.Domain)
		if err != nil {
			return err
		}
		if available {
			return fmt.Errorf("domain %s is not registered yet", site.Domain)
		}
		return nil
	}
}
