package types

import (
	"context"
	"time"

	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/samber/lo"
)

// Status is the soft-delete status carried by every persisted record.
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) Validate() error {
	allowed := []Status{StatusPublished, StatusArchived, StatusDeleted}
	if !lo.Contains(allowed, s) {
		return ierr.NewErrorf("invalid status: %s", s).
			WithHint("Please provide a valid status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Metadata is a free-form string map stored alongside records.
type Metadata map[string]string

// BaseModel carries the audit and tenancy fields shared by all domain models.
type BaseModel struct {
	TenantID  string    `json:"tenant_id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by"`
	UpdatedBy string    `json:"updated_by"`
}

// GetDefaultBaseModel returns a BaseModel initialized from the request context.
func GetDefaultBaseModel(ctx context.Context) BaseModel {
	now := time.Now().UTC()
	userID := GetUserID(ctx)
	return BaseModel{
		TenantID:  GetTenantID(ctx),
		Status:    StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: userID,
		UpdatedBy: userID,
	}
}
