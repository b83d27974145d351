package dto

import (
	"time"

	"github.com/Builder-Lawyers/builder-admin/internal/application/errs"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/entity"
)

type ErrorResponse struct {
	Error  string           `json:"error"`
	Fields []errs.FieldError `json:"fields,omitempty"`
}

type ConflictResponse struct {
	Error      string `json:"error"`
	Domain     string `json:"domain"`
	SiteID     uint64 `json:"siteId,omitempty"`
	ClientID   uint64 `json:"clientId,omitempty"`
	ClientName string `json:"clientName,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CreateClientRequest struct {
	Name  string  `json:"name" validate:"required,max=200"`
	Email string  `json:"email" validate:"required,email"`
	Phone *string `json:"phone" validate:"omitempty,max=40"`
}

type Client struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateProjectRequest struct {
	ClientID    uint64 `json:"clientId" validate:"required"`
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
}

type Project struct {
	ID          uint64    `json:"id"`
	ClientID    uint64    `json:"clientId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateSiteRequest struct {
	Domain    string `json:"domain" validate:"required,fqdn"`
	ClientID  uint64 `json:"clientId" validate:"required"`
	ProjectID uint64 `json:"projectId" validate:"required"`
}

type UpdateSiteRequest struct {
	Domain *string `json:"domain" validate:"omitempty,fqdn"`
	Status *string `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED FAILED"`
}

type CreateSiteResponse struct {
	SiteID uint64 `json:"siteId"`
}

type Site struct {
	ID        uint64            `json:"id"`
	Domain    string            `json:"domain"`
	ClientID  uint64            `json:"clientId"`
	ProjectID uint64            `json:"projectId"`
	Status    consts.SiteStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Client    *Client           `json:"client,omitempty"`
	Project   *Project          `json:"project,omitempty"`
	Steps     []Step            `json:"steps,omitempty"`
}

type Step struct {
	ID           uint64            `json:"id"`
	SiteID       uint64            `json:"siteId"`
	StepType     consts.StepType   `json:"stepType"`
	Status       consts.StepStatus `json:"status"`
	ErrorMessage *string           `json:"errorMessage"`
	OrderIndex   int               `json:"orderIndex"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// InstallationCredentials is the optional credential triple supplied when
// starting or completing an installation.
type InstallationCredentials struct {
	Domain        string `json:"domain" validate:"omitempty,fqdn"`
	AdminEmail    string `json:"adminEmail" validate:"omitempty,email"`
	AdminPassword string `json:"adminPassword" validate:"omitempty,max=200"`
}

func (c InstallationCredentials) ToEntity() entity.Credentials {
	return entity.Credentials{
		Domain:        c.Domain,
		AdminEmail:    c.AdminEmail,
		AdminPassword: c.AdminPassword,
	}
}

type CompleteInstallationResponse struct {
	Message string `json:"message"`
	Site    *Site  `json:"site"`
}

type StartInstallationResponse struct {
	Message string `json:"message"`
	Steps   []Step `json:"steps"`
}

type AdvanceStepRequest struct {
	StepType string `json:"stepType" validate:"required"`
}

type DomainCheckResponse struct {
	Domain      string `json:"domain"`
	Available   bool   `json:"available"`
	ClientID    uint64 `json:"clientId,omitempty"`
	ClientName  string `json:"clientName,omitempty"`
	Registrable *bool  `json:"registrable,omitempty"`
}

type CreateSessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
