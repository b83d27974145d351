package installation_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/Builder-Lawyers/builder-admin/internal/application/commands/credentials"
	sut "github.com/Builder-Lawyers/builder-admin/internal/application/commands/installation"
	"github.com/Builder-Lawyers/builder-admin/internal/application/dto"
	"github.com/Builder-Lawyers/builder-admin/internal/application/errs"
	"github.com/Builder-Lawyers/builder-admin/internal/application/query"
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

type failingStore struct {
	calls int
}

func (f *failingStore) Store(ctx context.Context, siteID uint64, creds entity.Credentials) error {
	f.calls++
	return errors.New("metadata store is down")
}

type unavailableSiteReader struct{}

func (unavailableSiteReader) Query(ctx context.Context, siteID uint64) (*dto.Site, error) {
	return nil, errors.New("connection reset by peer")
}

func newComplete(store sut.CredentialStore) *sut.CompleteInstallation {
	return sut.NewCompleteInstallation(uowFactory, store, query.NewGetSite(uowFactory))
}

func countSteps(t *testing.T, siteID uint64, stepType consts.StepType) int {
	t.Helper()
	var count int
	err := testinfra.Pool.QueryRow(context.Background(),
		"SELECT count(*) FROM install_steps WHERE site_id = $1 AND step_type = $2", siteID, stepType).Scan(&count)
	require.NoError(t, err)
	return count
}

func TestCompleteInstallation_StagedPayloadIsCaptured(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	_, _, siteID := testinfra.SeedSite(ctx, "a.com", consts.SiteStatusInProgress)
	testinfra.SeedStep(ctx, siteID, consts.StepTypePreInstallation, consts.StepStatusPending,
		[]byte(`{"domain":"a.com","adminEmail":"x@a.com","adminPassword":"p"}`))
	testinfra.SeedStep(ctx, siteID, consts.StepTypeDomainSetup, consts.StepStatusSuccess, nil)
	creds := credentials.NewCredentials(uowFactory)

	site, err := newComplete(creds).Execute(ctx, siteID, &dto.InstallationCredentials{})
	require.NoError(t, err)

	require.Equal(t, consts.SiteStatusCompleted, site.Status)
	require.NotNil(t, site.Client)
	require.NotNil(t, site.Project)
	require.Len(t, site.Steps, 1)
	require.Equal(t, 0, countSteps(t, siteID, consts.StepTypePreInstallation))
	require.Equal(t, 1, countSteps(t, siteID, consts.StepTypeDomainSetup))

	stored, err := creds.Get(ctx, siteID)
	require.NoError(t, err)
	require.Equal(t, entity.Credentials{Domain: "a.com", AdminEmail: "x@a.com", AdminPassword: "p"}, *stored)
}

func TestCompleteInstallation_PayloadAsJSONString(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	_, _, siteID := testinfra.SeedSite(ctx, "b.com", consts.SiteStatusInProgress)
	payload, err := json.Marshal(`{"domain":"b.com","adminEmail":"x@b.com","adminPassword":"p"}`)
	require.NoError(t, err)
	testinfra.SeedStep(ctx, siteID, consts.StepTypePreInstallation, consts.StepStatusPending, payload)
	creds := credentials.NewCredentials(uowFactory)

	_, err = newComplete(creds).Execute(ctx, siteID, &dto.InstallationCredentials{})
	require.NoError(t, err)

	stored, err := creds.Get(ctx, siteID)
	require.NoError(t, err)
	require.Equal(t, "x@b.com", stored.AdminEmail)
}

func TestCompleteInstallation_UnparsablePayloadFallsBackToRequest(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	_, _, siteID := testinfra.SeedSite(ctx, "c.com", consts.SiteStatusInProgress)
	payload, err := json.Marshal("this is not json")
	require.NoError(t, err)
	testinfra.SeedStep(ctx, siteID, consts.StepTypePreInstallation, consts.StepStatusPending, payload)
	creds := credentials.NewCredentials(uowFactory)

	site, err := newComplete(creds).Execute(ctx, siteID, &dto.InstallationCredentials{
		Domain: "c.com", AdminEmail: "req@c.com", AdminPassword: "req-pass",
	})
	require.NoError(t, err)
	require.Equal(t, consts.SiteStatusCompleted, site.Status)

	stored, err := creds.Get(ctx, siteID)
	require.NoError(t, err)
	require.Equal(t, entity.Credentials{Domain: "c.com", AdminEmail: "req@c.com", AdminPassword: "req-pass"}, *stored)
}

func TestCompleteInstallation_PartialPayloadIsFilledFromRequest(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	_, _, siteID := testinfra.SeedSite(ctx, "d.com", consts.SiteStatusInProgress)
	testinfra.SeedStep(ctx, siteID, consts.StepTypePreInstallation, consts.StepStatusPending,
		[]byte(`{"domain":"d.com","adminEmail":"staged@d.com"}`))
	creds := credentials.NewCredentials(uowFactory)

	_, err := newComplete(creds).Execute(ctx, siteID, &dto.InstallationCredentials{
		AdminEmail: "req@d.com", AdminPassword: "req-pass",
	})
	require.NoError(t, err)

	stored, err := creds.Get(ctx, siteID)
	require.NoError(t, err)
	require.Equal(t, entity.Credentials{Domain: "d.com", AdminEmail: "staged@d.com", AdminPassword: "req-pass"}, *stored)
}

func TestCompleteInstallation_IncompleteCredentialsAreNotStored(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	_, _, siteID := testinfra.SeedSite(ctx, "e.com", consts.SiteStatusInProgress)
	creds := credentials.NewCredentials(uowFactory)

	_, err := newComplete(creds).Execute(ctx, siteID, &dto.InstallationCredentials{AdminEmail: "only@e.com"})
	require.NoError(t, err)

	_, err = creds.Get(ctx, siteID)
	var notFound errs.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCompleteInstallation_StoreFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	_, _, siteID := testinfra.SeedSite(ctx, "f.com", consts.SiteStatusInProgress)
	testinfra.SeedStep(ctx, siteID, consts.StepTypePreInstallation, consts.StepStatusPending,
		[]byte(`{"domain":"f.com","adminEmail":"x@f.com","adminPassword":"p"}`))
	store := &failingStore{}

	site, err := newComplete(store).Execute(ctx, siteID, &dto.InstallationCredentials{})

	require.NoError(t, err)
	require.Equal(t, 1, store.calls)
	require.Equal(t, consts.SiteStatusCompleted, site.Status)
	require.Equal(t, 0, countSteps(t, siteID, consts.StepTypePreInstallation))
}

func TestCompleteInstallation_SecondCallIsNoOp(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	_, _, siteID := testinfra.SeedSite(ctx, "g.com", consts.SiteStatusInProgress)
	testinfra.SeedStep(ctx, siteID, consts.StepTypePreInstallation, consts.StepStatusPending,
		[]byte(`{"domain":"g.com","adminEmail":"x@g.com","adminPassword":"p"}`))
	creds := credentials.NewCredentials(uowFactory)
	complete := newComplete(creds)

	_, err := complete.Execute(ctx, siteID, &dto.InstallationCredentials{})
	require.NoError(t, err)
	site, err := complete.Execute(ctx, siteID, &dto.InstallationCredentials{})
	require.NoError(t, err)

	require.Equal(t, consts.SiteStatusCompleted, site.Status)
	stored, err := creds.Get(ctx, siteID)
	require.NoError(t, err)
	require.Equal(t, "x@g.com", stored.AdminEmail)
}

func TestCompleteInstallation_ConcurrentCallsBothSucceed(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	_, _, siteID := testinfra.SeedSite(ctx, "h.com", consts.SiteStatusInProgress)
	testinfra.SeedStep(ctx, siteID, consts.StepTypePreInstallation, consts.StepStatusPending,
		[]byte(`{"domain":"h.com","adminEmail":"x@h.com","adminPassword":"p"}`))
	complete := newComplete(credentials.NewCredentials(uowFactory))

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = complete.Execute(ctx, siteID, &dto.InstallationCredentials{})
		}()
	}
	wg.Wait()

	for _, err := range results {
		require.NoError(t, err)
	}
	require.Equal(t, 0, countSteps(t, siteID, consts.StepTypePreInstallation))
}

func TestCompleteInstallation_MissingSite(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)

	_, err := newComplete(credentials.NewCredentials(uowFactory)).Execute(ctx, 4242, &dto.InstallationCredentials{})

	var notFound errs.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCompleteInstallation_FailureMidTransactionLeavesNothing(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	_, _, siteID := testinfra.SeedSite(ctx, "atomic.com", consts.SiteStatusInProgress)
	testinfra.SeedStep(ctx, siteID, consts.StepTypePreInstallation, consts.StepStatusPending,
		[]byte(`{"domain":"atomic.com","adminEmail":"x@atomic.com","adminPassword":"p"}`))

	_, err := testinfra.Pool.Exec(ctx, `CREATE OR REPLACE FUNCTION reject_pre_installation_delete() RETURNS trigger AS $$
		BEGIN
			RAISE EXCEPTION 'pre-installation delete rejected';
		END;
		$$ LANGUAGE plpgsql`)
	require.NoError(t, err)
	_, err = testinfra.Pool.Exec(ctx, `CREATE TRIGGER reject_pre_installation_delete
		BEFORE DELETE ON install_steps
		FOR EACH ROW WHEN (OLD.step_type = 'PRE_INSTALLATION')
		EXECUTE FUNCTION reject_pre_installation_delete()`)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = testinfra.Pool.Exec(context.Background(), "DROP TRIGGER IF EXISTS reject_pre_installation_delete ON install_steps")
		_, _ = testinfra.Pool.Exec(context.Background(), "DROP FUNCTION IF EXISTS reject_pre_installation_delete()")
	})
	creds := credentials.NewCredentials(uowFactory)

	_, err = newComplete(creds).Execute(ctx, siteID, &dto.InstallationCredentials{})

	var txErr errs.TransactionError
	require.ErrorAs(t, err, &txErr)
	var status consts.SiteStatus
	require.NoError(t, testinfra.Pool.QueryRow(ctx, "SELECT status FROM sites WHERE id = $1", siteID).Scan(&status))
	require.Equal(t, consts.SiteStatusInProgress, status)
	require.Equal(t, 1, countSteps(t, siteID, consts.StepTypePreInstallation))
	_, err = creds.Get(ctx, siteID)
	var notFound errs.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCompleteInstallation_ReadBackFailureStillSucceeds(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	_, _, siteID := testinfra.SeedSite(ctx, "readback.com", consts.SiteStatusInProgress)
	testinfra.SeedStep(ctx, siteID, consts.StepTypePreInstallation, consts.StepStatusPending,
		[]byte(`{"domain":"readback.com","adminEmail":"x@readback.com","adminPassword":"p"}`))
	creds := credentials.NewCredentials(uowFactory)

	site, err := sut.NewCompleteInstallation(uowFactory, creds, unavailableSiteReader{}).
		Execute(ctx, siteID, &dto.InstallationCredentials{})

	require.NoError(t, err)
	require.Equal(t, siteID, site.ID)
	require.Equal(t, consts.SiteStatusCompleted, site.Status)
	require.Equal(t, 0, countSteps(t, siteID, consts.StepTypePreInstallation))
	stored, err := creds.Get(ctx, siteID)
	require.NoError(t, err)
	require.Equal(t, "x@readback.com", stored.AdminEmail)
}

func TestStartInstallation_CreatesStepsAndStagesCredentials(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	_, _, siteID := testinfra.SeedSite(ctx, "start.com", consts.SiteStatusPending)
	start := sut.NewStartInstallation(uowFactory)

	steps, err := start.Execute(ctx, siteID, &dto.InstallationCredentials{AdminEmail: "a@start.com", AdminPassword: "pw"})
	require.NoError(t, err)

	require.Len(t, steps, len(consts.ProvisioningSteps)+1)
	require.Equal(t, consts.StepTypePreInstallation, steps[0].StepType)
	for i, stepType := range consts.ProvisioningSteps {
		require.Equal(t, stepType, steps[i+1].StepType)
		require.Equal(t, consts.StepStatusPending, steps[i+1].Status)
	}

	var status consts.SiteStatus
	var payload []byte
	require.NoError(t, testinfra.Pool.QueryRow(ctx, "SELECT status FROM sites WHERE id = $1", siteID).Scan(&status))
	require.Equal(t, consts.SiteStatusInProgress, status)
	require.NoError(t, testinfra.Pool.QueryRow(ctx,
		"SELECT payload FROM install_steps WHERE site_id = $1 AND step_type = $2", siteID, consts.StepTypePreInstallation).Scan(&payload))
	staged, err := entity.ParseCredentialsPayload(payload)
	require.NoError(t, err)
	require.Equal(t, entity.Credentials{Domain: "start.com", AdminEmail: "a@start.com", AdminPassword: "pw"}, staged)

	// a second start keeps the existing rows
	again, err := start.Execute(ctx, siteID, &dto.InstallationCredentials{})
	require.NoError(t, err)
	require.Len(t, again, len(steps))
}

func TestStartInstallation_RejectsCompletedSite(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	_, _, siteID := testinfra.SeedSite(ctx, "done.com", consts.SiteStatusCompleted)

	_, err := sut.NewStartInstallation(uowFactory).Execute(ctx, siteID, &dto.InstallationCredentials{})

	var validationErr errs.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestAdvanceStep_QueuesStep(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	_, _, siteID := testinfra.SeedSite(ctx, "advance.com", consts.SiteStatusPending)
	testinfra.SeedStep(ctx, siteID, consts.StepTypeDomainSetup, consts.StepStatusPending, nil)

	step, err := sut.NewAdvanceStep(uowFactory).Execute(ctx, siteID, &dto.AdvanceStepRequest{StepType: "domain_setup"})
	require.NoError(t, err)
	require.Equal(t, consts.StepStatusInProgress, step.Status)

	var events int
	require.NoError(t, testinfra.Pool.QueryRow(ctx, "SELECT count(*) FROM outbox WHERE event = 'RunInstallStep' AND status = 0").Scan(&events))
	require.Equal(t, 1, events)

	// already running, nothing new is queued
	_, err = sut.NewAdvanceStep(uowFactory).Execute(ctx, siteID, &dto.AdvanceStepRequest{StepType: "DOMAIN_SETUP"})
	require.NoError(t, err)
	require.NoError(t, testinfra.Pool.QueryRow(ctx, "SELECT count(*) FROM outbox").Scan(&events))
	require.Equal(t, 1, events)
}

func TestAdvanceStep_Rejects(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	_, _, siteID := testinfra.SeedSite(ctx, "reject.com", consts.SiteStatusPending)
	advance := sut.NewAdvanceStep(uowFactory)

	for name, stepType := range map[string]string{
		"missing":          "",
		"unknown":          "PAINT_WALLS",
		"pre installation": "PRE_INSTALLATION",
		"not created":      "CRM_SETUP",
	} {
		_, err := advance.Execute(ctx, siteID, &dto.AdvanceStepRequest{StepType: stepType})
		var validationErr errs.ValidationError
		require.ErrorAs(t, err, &validationErr, name)
	}
}

func TestAdvanceStep_MissingSiteIsNotFound(t *testing.T) {
	testinfra.Truncate(context.Background())

	_, err := sut.NewAdvanceStep(uowFactory).Execute(context.Background(), 4242, &dto.AdvanceStepRequest{StepType: "DOMAIN_SETUP"})

	var notFound errs.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestAdvanceStep_RejectsCompletedSite(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	_, _, siteID := testinfra.SeedSite(ctx, "finished.com", consts.SiteStatusCompleted)
	testinfra.SeedStep(ctx, siteID, consts.StepTypeCRMSetup, consts.StepStatusFailed, nil)

	_, err := sut.NewAdvanceStep(uowFactory).Execute(ctx, siteID, &dto.AdvanceStepRequest{StepType: "CRM_SETUP"})

	var validationErr errs.ValidationError
	require.ErrorAs(t, err, &validationErr)
	var events int
	require.NoError(t, testinfra.Pool.QueryRow(ctx, "SELECT count(*) FROM outbox").Scan(&events))
	require.Zero(t, events)
}
