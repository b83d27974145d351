package application

import (
	"github.com/Builder-Lawyers/builder-admin/internal/application/commands/auth"
	"github.com/Builder-Lawyers/builder-admin/internal/application/commands/client"
	"github.com/Builder-Lawyers/builder-admin/internal/application/commands/credentials"
	"github.com/Builder-Lawyers/builder-admin/internal/application/commands/installation"
	"github.com/Builder-Lawyers/builder-admin/internal/application/commands/site"
	"github.com/Builder-Lawyers/builder-admin/internal/application/processors"
	"github.com/Builder-Lawyers/builder-admin/internal/application/query"
)

type Handlers struct {
	CompleteInstallation *installation.CompleteInstallation
	StartInstallation    *installation.StartInstallation
	AdvanceStep          *installation.AdvanceStep
	Credentials          *credentials.Credentials
	CreateSite           *site.CreateSite
	UpdateSite           *site.UpdateSite
	DeleteSite           *site.DeleteSite
	CreateClient         *client.CreateClient
	CreateProject        *client.CreateProject
	Auth                 *auth.Auth
	GetSite              *query.GetSite
	ListSites            *query.ListSites
	ListSteps            *query.ListSteps
	GetStepsStatus       *query.GetStepsStatus
	CheckDomain          *query.CheckDomain
	GetClients           *query.GetClients
}

type Processors struct {
	RunInstallStep *processors.RunInstallStep
}
