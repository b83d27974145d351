package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Builder-Lawyers/builder-admin/internal/application/dto"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/Builder-Lawyers/builder-admin/internal/testinfra"
	"github.com/stretchr/testify/require"
)

func TestClientsAndProjects(t *testing.T) {
	testinfra.Truncate(context.Background())
	staff := token(t, consts.RoleStaff)

	status, body := do(t, http.MethodPost, "/clients", staff, dto.CreateClientRequest{
		Name: "  Acme Law ", Email: "Office@Acme.com",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var client dto.Client
	require.NoError(t, json.Unmarshal(body, &client))
	require.Equal(t, "Acme Law", client.Name)
	require.Equal(t, "office@acme.com", client.Email)

	status, body = do(t, http.MethodGet, "/clients/"+itoa(client.ID), staff, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = do(t, http.MethodGet, "/clients/4242", staff, nil)
	require.Equal(t, http.StatusNotFound, status)

	status, body = do(t, http.MethodPost, "/projects", staff, dto.CreateProjectRequest{
		ClientID: client.ID, Name: "Website",
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	status, _ = do(t, http.MethodPost, "/projects", staff, dto.CreateProjectRequest{
		ClientID: 4242, Name: "Orphan",
	})
	require.Equal(t, http.StatusNotFound, status)

	status, body = do(t, http.MethodGet, "/projects?clientId="+itoa(client.ID), staff, nil)
	require.Equal(t, http.StatusOK, status)
	var projects []dto.Project
	require.NoError(t, json.Unmarshal(body, &projects))
	require.Len(t, projects, 1)
	require.Equal(t, "Website", projects[0].Name)

	status, body = do(t, http.MethodPost, "/clients", staff, dto.CreateClientRequest{Name: "No Email"})
	require.Equal(t, http.StatusBadRequest, status)
	var invalid dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &invalid))
	require.NotEmpty(t, invalid.Fields)
}

func TestCheckDomain(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	clientID, _, siteID := testinfra.SeedSite(ctx, "busy.com", consts.SiteStatusPending)
	viewer := token(t, consts.RoleViewer)

	status, body := do(t, http.MethodGet, "/sites/domain-check?domain=free.com", viewer, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var resp dto.DomainCheckResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.True(t, resp.Available)
	require.Nil(t, resp.Registrable)

	status, body = do(t, http.MethodGet, "/sites/domain-check?domain=%20BUSY.com", viewer, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	resp = dto.DomainCheckResponse{}
	require.NoError(t, json.Unmarshal(body, &resp))
	require.False(t, resp.Available)
	require.Equal(t, clientID, resp.ClientID)

	status, body = do(t, http.MethodGet, "/sites/domain-check?domain=busy.com&excludeSiteId="+itoa(siteID), viewer, nil)
	require.Equal(t, http.StatusOK, status)
	resp = dto.DomainCheckResponse{}
	require.NoError(t, json.Unmarshal(body, &resp))
	require.True(t, resp.Available)

	status, _ = do(t, http.MethodGet, "/sites/domain-check?domain=not%20a%20domain", viewer, nil)
	require.Equal(t, http.StatusBadRequest, status)
}

func TestListSteps(t *testing.T) {
	ctx := context.Background()
	testinfra.Truncate(ctx)
	_, _, siteID := testinfra.SeedSite(ctx, "steps.com", consts.SiteStatusInProgress)
	testinfra.SeedStep(ctx, siteID, consts.StepTypeSSLCertificate, consts.StepStatusPending, nil)
	testinfra.SeedStep(ctx, siteID, consts.StepTypeDomainSetup, consts.StepStatusSuccess, nil)
	staff := token(t, consts.RoleStaff)

	status, body := do(t, http.MethodGet, "/installations/"+itoa(siteID)+"/steps", staff, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var steps []dto.Step
	require.NoError(t, json.Unmarshal(body, &steps))
	require.Len(t, steps, 2)
	require.Equal(t, consts.StepTypeDomainSetup, steps[0].StepType)
	require.Equal(t, consts.StepTypeSSLCertificate, steps[1].StepType)

	status, _ = do(t, http.MethodGet, "/installations/9999/steps", staff, nil)
	require.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, http.MethodPost, "/installations/9999/steps", staff, dto.AdvanceStepRequest{StepType: "DOMAIN_SETUP"})
	require.Equal(t, http.StatusNotFound, status)
}
