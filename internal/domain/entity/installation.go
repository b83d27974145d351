package entity

import (
	"math"
	"time"

	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
)

type InstallStep struct {
	ID           uint64            `json:"id"`
	SiteID       uint64            `json:"siteId"`
	Type         consts.StepType   `json:"stepType"`
	Status       consts.StepStatus `json:"status"`
	ErrorMessage *string           `json:"errorMessage"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

type StepsReport struct {
	OverallStatus   consts.StepStatus `json:"overallStatus"`
	IsComplete      bool              `json:"isComplete"`
	TotalSteps      int               `json:"totalSteps"`
	CompletedSteps  int               `json:"completedSteps"`
	FailedSteps     int               `json:"failedSteps"`
	InProgressSteps int               `json:"inProgressSteps"`
	PendingSteps    int               `json:"pendingSteps"`
	Percentage      int               `json:"percentage"`
	Steps           []InstallStep     `json:"steps"`
}

// Aggregate rolls steps up into a report. PRE_INSTALLATION steps are
// skipped even if the caller did not filter them.
func Aggregate(steps []InstallStep) StepsReport {
	report := StepsReport{Steps: make([]InstallStep, 0, len(steps))}
	for _, step := range steps {
		if step.Type == consts.StepTypePreInstallation {
			continue
		}
		report.Steps = append(report.Steps, step)
		switch step.Status {
		case consts.StepStatusSuccess:
			report.CompletedSteps++
		case consts.StepStatusFailed:
			report.FailedSteps++
		case consts.StepStatusInProgress:
			report.InProgressSteps++
		case consts.StepStatusPending:
			report.PendingSteps++
		}
	}
	report.TotalSteps = len(report.Steps)

	switch {
	case report.FailedSteps > 0:
		report.OverallStatus = consts.StepStatusFailed
	case report.InProgressSteps > 0:
		report.OverallStatus = consts.StepStatusInProgress
	case report.TotalSteps > 0 && report.CompletedSteps == report.TotalSteps:
		report.OverallStatus = consts.StepStatusSuccess
	default:
		report.OverallStatus = consts.StepStatusPending
	}
	report.IsComplete = report.OverallStatus == consts.StepStatusSuccess

	if report.TotalSteps > 0 {
		report.Percentage = int(math.Round(float64(report.CompletedSteps) / float64(report.TotalSteps) * 100))
	}

	return report
}
