package db

import (
	"encoding/json"
	"fmt"

	"github.com/Builder-Lawyers/builder-admin/internal/application/dto"
	"github.com/Builder-Lawyers/builder-admin/internal/application/events"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/entity"
)

func MapClientToDTO(client Client) dto.Client {
	return dto.Client{
		ID:        client.ID,
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		CreatedAt: client.CreatedAt,
		UpdatedAt: client.UpdatedAt,
	}
}

func MapProjectToDTO(project Project) dto.Project {
	return dto.Project{
		ID:          project.ID,
		ClientID:    project.ClientID,
		Name:        project.Name,
		Description: project.Description,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func MapSiteToDTO(site Site) dto.Site {
	return dto.Site{
		ID:        site.ID,
		Domain:    site.Domain,
		ClientID:  site.ClientID,
		ProjectID: site.ProjectID,
		Status:    site.Status,
		CreatedAt: site.CreatedAt,
		UpdatedAt: site.UpdatedAt,
	}
}

func MapStepToDTO(step InstallStep) dto.Step {
	return dto.Step{
		ID:           step.ID,
		SiteID:       step.SiteID,
		StepType:     step.StepType,
		Status:       step.Status,
		ErrorMessage: step.ErrorMessage,
		OrderIndex:   step.OrderIndex,
		CreatedAt:    step.CreatedAt,
		UpdatedAt:    step.UpdatedAt,
	}
}

func MapStepsToDTO(steps []InstallStep) []dto.Step {
	out := make([]dto.Step, 0, len(steps))
	for _, step := range steps {
		out = append(out, MapStepToDTO(step))
	}
	return out
}

func MapStepToEntity(step InstallStep) entity.InstallStep {
	return entity.InstallStep{
		ID:           step.ID,
		SiteID:       step.SiteID,
		Type:         step.StepType,
		Status:       step.Status,
		ErrorMessage: step.ErrorMessage,
		CreatedAt:    step.CreatedAt,
		UpdatedAt:    step.UpdatedAt,
	}
}

func MapStepsToEntity(steps []InstallStep) []entity.InstallStep {
	out := make([]entity.InstallStep, 0, len(steps))
	for _, step := range steps {
		out = append(out, MapStepToEntity(step))
	}
	return out
}

func MapOutboxModelToRunInstallStep(outbox Outbox) (events.RunInstallStep, error) {
	var runStep events.RunInstallStep
	if err := json.Unmarshal(outbox.Payload, &runStep); err != nil {
		return events.RunInstallStep{}, fmt.Errorf("error unmarshaling event %d, %w", outbox.ID, err)
	}
	return runStep, nil
}
