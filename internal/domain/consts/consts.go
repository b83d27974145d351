package consts

type SiteStatus string

const (
	SiteStatusPending    SiteStatus = "PENDING"
	SiteStatusInProgress SiteStatus = "IN_PROGRESS"
	SiteStatusCompleted  SiteStatus = "COMPLETED"
	SiteStatusFailed     SiteStatus = "FAILED"
)

func (s SiteStatus) Valid() bool {
	switch s {
	case SiteStatusPending, SiteStatusInProgress, SiteStatusCompleted, SiteStatusFailed:
		return true
	}
	return false
}

type StepStatus string

const (
	StepStatusPending    StepStatus = "PENDING"
	StepStatusInProgress StepStatus = "IN_PROGRESS"
	StepStatusSuccess    StepStatus = "SUCCESS"
	StepStatusFailed     StepStatus = "FAILED"
)

type StepType string

// PreInstallation stages admin credentials and is not part of user-visible
// progress.
const StepTypePreInstallation StepType = "PRE_INSTALLATION"

const (
	StepTypeDomainSetup      StepType = "DOMAIN_SETUP"
	StepTypeDNSConfiguration StepType = "DNS_CONFIGURATION"
	StepTypeSSLCertificate   StepType = "SSL_CERTIFICATE"
	StepTypeWordpressInstall StepType = "WORDPRESS_INSTALL"
	StepTypeCRMSetup         StepType = "CRM_SETUP"
)

// ProvisioningSteps is the execution order of regular steps.
var ProvisioningSteps = []StepType{
	StepTypeDomainSetup,
	StepTypeDNSConfiguration,
	StepTypeSSLCertificate,
	StepTypeWordpressInstall,
	StepTypeCRMSetup,
}

func (t StepType) Valid() bool {
	if t == StepTypePreInstallation {
		return true
	}
	for _, s := range ProvisioningSteps {
		if s == t {
			return true
		}
	}
	return false
}

// Order returns the sort key of a step type. PRE_INSTALLATION sorts first.
func (t StepType) Order() int {
	for i, s := range ProvisioningSteps {
		if s == t {
			return i + 1
		}
	}
	return 0
}

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleStaff  Role = "STAFF"
	RoleViewer Role = "VIEWER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleViewer:
		return true
	}
	return false
}

type OutboxStatus int

const (
	NotProcessed OutboxStatus = iota
	Processed
	Processing
	InError
)

const (
	MetaRelTypeSite     = "site"
	MetaSiteCredentials = "site_credentials"
)
