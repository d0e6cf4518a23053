package model

import "time"

// Event is the planner-owned event a contract is negotiated for
type Event struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	StartTime   time.Time `json:"startTime"`
	PlannerID   string    `gorm:"size:64;index" json:"plannerId"`
	PlannerName string    `gorm:"size:255" json:"plannerName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Event) TableName() string { return "events" }

// Vendor is a service provider listed on the marketplace
type Vendor struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	BusinessName string    `gorm:"size:255;not null" json:"businessName"`
	ServiceType  string    `gorm:"size:64;not null" json:"serviceType"`
	Description  string    `gorm:"type:text" json:"description"`
	OwnerID      string    `gorm:"size:64;index" json:"ownerId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Vendor) TableName() string { return "vendors" }
