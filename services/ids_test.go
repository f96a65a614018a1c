package services

import (
	"testing"
	"time"
)

func TestQuotationID(t *testing.T) {
	now := time.UnixMilli(1760000000123)
	tests := []struct {
		name     string
		category Category
		expect   string
	}{
		{"articulated", CategoryArticulated, "tractocamion-quote-1760000000123"},
		{"rigid truck", CategoryRigidTruck, "truck-quote-1760000000123"},
		{"light vehicle", CategoryLightVehicle, "auto-quote-1760000000123"},
		{"no category", CategoryNone, "tractocamion-quote-1760000000123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuotationID(tt.category, now)
			if got != tt.expect {
				t.Errorf("QuotationID(%q) = %q, want %q", tt.category, got, tt.expect)
			}
		})
	}
}

func TestCategoryFromQuotationID(t *testing.T) {
	tests := []struct {
		id     string
		expect Category
	}{
		{"tractocamion-quote-1", CategoryArticulated},
		{"truck-quote-99", CategoryRigidTruck},
		{"auto-quote-5", CategoryLightVehicle},
		{"COT-AUTO-5", CategoryNone},
	}
	for _, tt := range tests {
		if got := CategoryFromQuotationID(tt.id); got != tt.expect {
			t.Errorf("CategoryFromQuotationID(%q) = %q, want %q", tt.id, got, tt.expect)
		}
	}
}

func TestEntityIDs(t *testing.T) {
	now := time.UnixMilli(42)
	if got := CustomerID(now); got != "CUST-42" {
		t.Errorf("CustomerID = %q", got)
	}
	if got := VehicleID(now); got != "VEH-42" {
		t.Errorf("VehicleID = %q", got)
	}
	if got := ServiceOrderID(now); got != "OS-42" {
		t.Errorf("ServiceOrderID = %q", got)
	}
}
