package model

import (
	"time"

	"gorm.io/datatypes"
)

// Status is the contract's position in its approval workflow
type Status string

// Contract status constants. StatusDraft is never persisted: a missing record is a draft.
const (
	StatusDraft                   Status = "draft"
	StatusPendingPlannerSignature Status = "pending_planner_signature"
	StatusRevisionsRequested      Status = "revisions_requested"
	StatusActive                  Status = "active"
)

// Valid reports whether s is a status a stored record may carry
func (s Status) Valid() bool {
	switch s {
	case StatusPendingPlannerSignature, StatusRevisionsRequested, StatusActive:
		return true
	}
	return false
}

// Role is the marketplace side a user acts for
type Role string

const (
	RolePlanner Role = "planner"
	RoleVendor  Role = "vendor"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RolePlanner || r == RoleVendor
}

// Revision is a planner's request for changes. Entries are never edited once appended.
type Revision struct {
	RequestedBy string    `json:"requestedBy"`
	Comment     string    `json:"comment"`
	Timestamp   time.Time `json:"timestamp"`
}

// Contract is the persisted contract document for one (event, vendor) pair
type Contract struct {
	ID               string                        `gorm:"primaryKey;size:36" json:"id"`
	EventID          string                        `gorm:"size:64;not null;uniqueIndex:idx_contract_event_vendor" json:"eventId"`
	VendorID         string                        `gorm:"size:64;not null;uniqueIndex:idx_contract_event_vendor" json:"vendorId"`
	Content          string                        `gorm:"type:text;not null" json:"content"`
	Status           Status                        `gorm:"size:32;not null;index" json:"status"`
	PlannerSignature *string                       `json:"plannerSignature"`
	PlannerSignedAt  *time.Time                    `json:"plannerSignedAt"`
	VendorSignature  *string                       `json:"vendorSignature"`
	VendorSignedAt   *time.Time                    `json:"vendorSignedAt"`
	Revisions        datatypes.JSONSlice[Revision] `json:"revisions"`
	CreatedAt        time.Time                     `json:"createdAt"`
	UpdatedAt        time.Time                     `json:"updatedAt"`
}

func (Contract) TableName() string { return "contracts" }

// HasPlannerSignature reports whether the planner has signed
func (c *Contract) HasPlannerSignature() bool {
	return c != nil && c.PlannerSignature != nil && *c.PlannerSignature != ""
}

// HasVendorSignature reports whether the vendor has countersigned
func (c *Contract) HasVendorSignature() bool {
	return c != nil && c.VendorSignature != nil && *c.VendorSignature != ""
}

// Clone returns a deep copy so callers can derive a new record without touching the original
func (c *Contract) Clone() *Contract {
	if c == nil {
		return nil
	}
	out := *c
	out.PlannerSignature = cloneString(c.PlannerSignature)
	out.VendorSignature = cloneString(c.VendorSignature)
	out.PlannerSignedAt = cloneTime(c.PlannerSignedAt)
	out.VendorSignedAt = cloneTime(c.VendorSignedAt)
	if c.Revisions != nil {
		out.Revisions = make(datatypes.JSONSlice[Revision], len(c.Revisions))
		copy(out.Revisions, c.Revisions)
	}
	return &out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
