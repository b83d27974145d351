package query

import (
	"context"
	"strings"

	"github.com/Builder-Lawyers/builder-admin/internal/application/dto"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db/repo"
	dbs "github.com/Builder-Lawyers/builder-admin/pkg/db"
	"go.uber.org/zap"
)

type DomainRegistrar interface {
	CheckAvailability(ctx context.Context, domain string) (bool, error)
}

type CheckDomain struct {
	uowFactory *dbs.UOWFactory
	registrar  DomainRegistrar
}

// NewCheckDomain accepts a nil registrar, in which case only local
// uniqueness is checked.
func NewCheckDomain(factory *dbs.UOWFactory, registrar DomainRegistrar) *CheckDomain {
	return &CheckDomain{uowFactory: factory, registrar: registrar}
}

func (c *CheckDomain) Query(ctx context.Context, domain string, excludeSiteID uint64) (*dto.DomainCheckResponse, error) {
	domain = NormalizeDomain(domain)
	req := struct {
		Domain string `json:"domain" validate:"required,fqdn"`
	}{Domain: domain}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	resp := &dto.DomainCheckResponse{Domain: domain, Available: true}
	conflict, err := repo.NewSiteRepo(c.uowFactory.Pool).FindDomainConflict(ctx, domain, excludeSiteID)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		resp.Available = false
		resp.ClientID = conflict.ClientID
		resp.ClientName = conflict.ClientName
	}

	if c.registrar != nil {
		registrable, err := c.registrar.CheckAvailability(ctx, domain)
		if err != nil {
			zap.S().Warnw("registrar check failed", "domain", domain, "err", err)
		} else {
			resp.Registrable = &registrable
		}
	}

	return resp, nil
}

func NormalizeDomain(domain string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(domain)), ".")
}
