package model

import (
	"testing"
	"time"

	"gorm.io/datatypes"
)

func TestContractClone(t *testing.T) {
	name := "Jane Doe"
	signedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	original := &Contract{
		ID:               "test-id",
		EventID:          "event-1",
		VendorID:         "vendor-1",
		Content:          "body",
		Status:           StatusPendingPlannerSignature,
		PlannerSignature: &name,
		PlannerSignedAt:  &signedAt,
		Revisions: datatypes.JSONSlice[Revision]{
			{RequestedBy: "Jane Doe", Comment: "Clarify deliverables", Timestamp: signedAt},
		},
	}

	clone := original.Clone()
	*clone.PlannerSignature = "Someone Else"
	clone.Revisions[0].Comment = "changed"
	clone.Revisions = append(clone.Revisions, Revision{Comment: "extra"})

	if *original.PlannerSignature != "Jane Doe" {
		t.Errorf("Expected original signature 'Jane Doe', got '%s'", *original.PlannerSignature)
	}
	if original.Revisions[0].Comment != "Clarify deliverables" {
		t.Errorf("Expected original revision untouched, got '%s'", original.Revisions[0].Comment)
	}
	if len(original.Revisions) != 1 {
		t.Errorf("Expected 1 revision on original, got %d", len(original.Revisions))
	}
}

func TestContractCloneNil(t *testing.T) {
	var c *Contract
	if c.Clone() != nil {
		t.Error("Expected nil clone of nil contract")
	}
}

func TestSignaturePresence(t *testing.T) {
	empty := ""
	tests := []struct {
		name    string
		planner *string
		want    bool
	}{
		{"nil signature", nil, false},
		{"empty signature", &empty, false},
		{"signed", ptr("Jane Doe"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Contract{PlannerSignature: tt.planner, VendorSignature: tt.planner}
			if got := c.HasPlannerSignature(); got != tt.want {
				t.Errorf("HasPlannerSignature: expected %v, got %v", tt.want, got)
			}
			if got := c.HasVendorSignature(); got != tt.want {
				t.Errorf("HasVendorSignature: expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestStatusAndRoleValid(t *testing.T) {
	statuses := map[Status]bool{
		StatusDraft:                   false,
		StatusPendingPlannerSignature: true,
		StatusRevisionsRequested:      true,
		StatusActive:                  true,
		Status("archived"):            false,
	}
	for s, want := range statuses {
		if s.Valid() != want {
			t.Errorf("Status %q: expected valid=%v", s, want)
		}
	}

	if !RolePlanner.Valid() || !RoleVendor.Valid() {
		t.Error("Expected planner and vendor to be valid roles")
	}
	if Role("admin").Valid() {
		t.Error("Expected admin to be an invalid role")
	}
}

func ptr(s string) *string { return &s }
