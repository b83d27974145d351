package site_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/Builder-Lawyers/builder-admin/internal/application/commands/credentials"
	sut "github.com/Builder-Lawyers/builder-admin/internal/application/commands/site"
	"github.com/Builder-Lawyers/builder-admin/internal/application/dto"
	"github.com/Builder-Lawyers/builder-admin/internal/application/errs"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/entity"
	"github.com/Builder-Lawyers/builder-admin/internal/testinfra"
	dbs "github.com/Builder-Lawyers/builder-admin/pkg/db"
	"github.com/stretchr/testify/require"
)

var uowFactory *dbs.UOWFactory

func TestMain(m *testing.M) {
	uowFactory = dbs.NewUoWFactory(testinfra.SetupDB())
	os.Exit(m.Run())
}

type brokenSettings struct{}

func (brokenSettings) DeleteAllSiteSettings(ctx context.Context, siteID uint64) error {
	return errors.New("metadata store is down")
}

func TestCreateSite_NormalizesDomain(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	clientID, projectID, _ := testinfra.SeedSite(ctx, "existing.com", consts.SiteStatusPending)

	siteID, err := sut.NewCreateSite(uowFactory).Execute(ctx, &dto.CreateSiteRequest{
		Domain: "  New-Site.Example.COM. ", ClientID: clientID, ProjectID: projectID,
	})
	require.NoError(t, err)

	var domain string
	var status consts.SiteStatus
	require.NoError(t, testinfra.Pool.QueryRow(ctx, "SELECT domain, status FROM sites WHERE id = $1", siteID).Scan(&domain, &status))
	require.Equal(t, "new-site.example.com", domain)
	require.Equal(t, consts.SiteStatusPending, status)
}

func TestCreateSite_DomainConflictNamesClient(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	ownerID, _, existingID := testinfra.SeedSite(ctx, "taken.com", consts.SiteStatusPending)
	clientID, projectID, _ := testinfra.SeedSite(ctx, "other.com", consts.SiteStatusPending)

	_, err := sut.NewCreateSite(uowFactory).Execute(ctx, &dto.CreateSiteRequest{
		Domain: "TAKEN.com", ClientID: clientID, ProjectID: projectID,
	})

	var conflict errs.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, ownerID, conflict.ClientID)
	require.Equal(t, existingID, conflict.SiteID)
	require.Equal(t, "Client of taken.com", conflict.ClientName)
}

func TestCreateSite_ProjectOfAnotherClient(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	clientID, _, _ := testinfra.SeedSite(ctx, "one.com", consts.SiteStatusPending)
	_, otherProjectID, _ := testinfra.SeedSite(ctx, "two.com", consts.SiteStatusPending)

	_, err := sut.NewCreateSite(uowFactory).Execute(ctx, &dto.CreateSiteRequest{
		Domain: "three.com", ClientID: clientID, ProjectID: otherProjectID,
	})

	var validationErr errs.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestCreateSite_UnknownClient(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)

	_, err := sut.NewCreateSite(uowFactory).Execute(ctx, &dto.CreateSiteRequest{
		Domain: "ghost.com", ClientID: 99, ProjectID: 99,
	})

	var notFound errs.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestUpdateSite_OwnDomainIsNotAConflict(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	_, _, siteID := testinfra.SeedSite(ctx, "mine.com", consts.SiteStatusPending)
	testinfra.SeedSite(ctx, "theirs.com", consts.SiteStatusPending)
	update := sut.NewUpdateSite(uowFactory)

	same := "mine.com"
	status := string(consts.SiteStatusFailed)
	updated, err := update.Execute(ctx, siteID, &dto.UpdateSiteRequest{Domain: &same, Status: &status})
	require.NoError(t, err)
	require.Equal(t, consts.SiteStatusFailed, updated.Status)

	taken := "theirs.com"
	_, err = update.Execute(ctx, siteID, &dto.UpdateSiteRequest{Domain: &taken})
	var conflict errs.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestDeleteSite_RemovesStepsAndSettings(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	_, _, siteID := testinfra.SeedSite(ctx, "gone.com", consts.SiteStatusCompleted)
	testinfra.SeedStep(ctx, siteID, consts.StepTypeDomainSetup, consts.StepStatusSuccess, nil)
	creds := credentials.NewCredentials(uowFactory)
	require.NoError(t, creds.Store(ctx, siteID, entity.Credentials{Domain: "gone.com", AdminEmail: "x@gone.com", AdminPassword: "p"}))

	require.NoError(t, sut.NewDeleteSite(uowFactory, creds).Execute(ctx, siteID))

	var sites, steps, meta int
	require.NoError(t, testinfra.Pool.QueryRow(ctx, "SELECT count(*) FROM sites WHERE id = $1", siteID).Scan(&sites))
	require.NoError(t, testinfra.Pool.QueryRow(ctx, "SELECT count(*) FROM install_steps WHERE site_id = $1", siteID).Scan(&steps))
	require.NoError(t, testinfra.Pool.QueryRow(ctx, "SELECT count(*) FROM entity_meta WHERE rel_id = $1", siteID).Scan(&meta))
	require.Zero(t, sites)
	require.Zero(t, steps)
	require.Zero(t, meta)
}

func TestDeleteSite_SettingsFailureIsIgnored(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	_, _, siteID := testinfra.SeedSite(ctx, "gone.com", consts.SiteStatusPending)

	require.NoError(t, sut.NewDeleteSite(uowFactory, brokenSettings{}).Execute(ctx, siteID))
}

func TestDeleteSite_MissingSite(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)

	err := sut.NewDeleteSite(uowFactory, brokenSettings{}).Execute(ctx, 404)

	var notFound errs.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
