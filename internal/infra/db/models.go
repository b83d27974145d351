package db

import (
	"encoding/json"
	"time"

	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/google/uuid"
)

type Client struct {
	ID        uint64    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     *string   `db:"phone"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Project struct {
	ID          uint64    `db:"id"`
	ClientID    uint64    `db:"client_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type Site struct {
	ID        uint64            `db:"id"`
	Domain    string            `db:"domain"`
	ClientID  uint64            `db:"client_id"`
	ProjectID uint64            `db:"project_id"`
	Status    consts.SiteStatus `db:"status"`
	CreatedAt time.Time         `db:"created_at"`
	UpdatedAt time.Time         `db:"updated_at"`
}

type InstallStep struct {
	ID           uint64            `db:"id"`
	SiteID       uint64            `db:"site_id"`
	StepType     consts.StepType   `db:"step_type"`
	Status       consts.StepStatus `db:"status"`
	ErrorMessage *string           `db:"error_message"`
	Payload      json.RawMessage   `db:"payload"`
	OrderIndex   int               `db:"order_index"`
	CreatedAt    time.Time         `db:"created_at"`
	UpdatedAt    time.Time         `db:"updated_at"`
}

type EntityMeta struct {
	ID        uint64    `db:"id"`
	RelID     uint64    `db:"rel_id"`
	RelType   string    `db:"rel_type"`
	Name      string    `db:"name"`
	Value     string    `db:"value"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type User struct {
	ID        uuid.UUID   `db:"id"`
	Email     string      `db:"email"`
	Name      string      `db:"name"`
	Role      consts.Role `db:"role"`
	CreatedAt time.Time   `db:"created_at"`
}

type Session struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

type Outbox struct {
	ID        uint64          `db:"id"`
	Event     string          `db:"event"`
	Status    int             `db:"status"`
	Payload   json.RawMessage `db:"payload"`
	CreatedAt time.Time       `db:"created_at"`
}
