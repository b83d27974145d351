package events

import (
	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
)

// RunInstallStep asks the step worker to execute one provisioning step.
type RunInstallStep struct {
	SiteID   uint64          `json:"siteId"`
	StepID   uint64          `json:"stepId"`
	StepType consts.StepType `json:"stepType"`
}

func (e RunInstallStep) GetType() string {
	return "RunInstallStep"
}
