package cmd

import (
	"context"
	"fmt"

	"github.com/Builder-Lawyers/builder-admin/internal/application"
	authcmd "github.com/Builder-Lawyers/builder-admin/internal/application/commands/auth"
	"github.com/Builder-Lawyers/builder-admin/internal/application/commands/client"
	"github.com/Builder-Lawyers/builder-admin/internal/application/commands/credentials"
	"github.com/Builder-Lawyers/builder-admin/internal/application/commands/installation"
	"github.com/Builder-Lawyers/builder-admin/internal/application/commands/site"
	"github.com/Builder-Lawyers/builder-admin/internal/application/processors"
	"github.com/Builder-Lawyers/builder-admin/internal/application/query"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/auth"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/config"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/dns"
	"github.com/Builder-Lawyers/builder-admin/pkg/db"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"go.uber.org/zap"
)

// Init wires commands, queries and processors over one pool.
func Init(ctx context.Context, cfg *config.Config, uowFactory *db.UOWFactory) (*application.Handlers, *application.Processors, error) {
	executors := processors.NewExecutors()

	var domainCheck query.DomainRegistrar
	if cfg.DNS.Enabled {
		awsCfg, err := awsConfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("can't load aws config, %w", err)
		}
		registrar := dns.NewRegistrar(awsCfg, cfg.DNS.Region)
		domainCheck = registrar
		executors.Register(consts.StepTypeDomainSetup, processors.DomainRegisteredCheck(registrar))
		zap.S().Infow("registrar checks enabled", "region", cfg.DNS.Region)
	}

	creds := credentials.NewCredentials(uowFactory)
	getSite := query.NewGetSite(uowFactory)

	handlers := &application.Handlers{
		CompleteInstallation: installation.NewCompleteInstallation(uowFactory, creds, getSite),
		StartInstallation:    installation.NewStartInstallation(uowFactory),
		AdvanceStep:          installation.NewAdvanceStep(uowFactory),
		Credentials:          creds,
		CreateSite:           site.NewCreateSite(uowFactory),
		UpdateSite:           site.NewUpdateSite(uowFactory),
		DeleteSite:           site.NewDeleteSite(uowFactory, creds),
		CreateClient:         client.NewCreateClient(uowFactory),
		CreateProject:        client.NewCreateProject(uowFactory),
		Auth:                 authcmd.NewAuth(uowFactory, auth.NewTokenSigner(cfg.Auth.Secret), cfg.Auth.SessionLifetime),
		GetSite:              getSite,
		ListSites:            query.NewListSites(uowFactory),
		ListSteps:            query.NewListSteps(uowFactory),
		GetStepsStatus:       query.NewGetStepsStatus(uowFactory),
		CheckDomain:          query.NewCheckDomain(uowFactory, domainCheck),
		GetClients:           query.NewGetClients(uowFactory),
	}

	procs := &application.Processors{
		RunInstallStep: processors.NewRunInstallStep(uowFactory, executors, cfg.Scheduler.StepTimeout),
	}

	return handlers, procs, nil
}
