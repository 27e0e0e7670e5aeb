package model

import "testing"

func TestScaledDisplayHelpers(t *testing.T) {
	l := Listing{PriceCents: 24999900, AreaX100: 185050, BathroomsX10: 25}
	if got := l.Price(); got != 249999.0 {
		t.Errorf("Price() = %v, want 249999", got)
	}
	if got := l.Area(); got != 1850.5 {
		t.Errorf("Area() = %v, want 1850.5", got)
	}
	if got := l.Bathrooms(); got != 2.5 {
		t.Errorf("Bathrooms() = %v, want 2.5", got)
	}
}

func TestEnumValidators(t *testing.T) {
	if !ValidPropertyType(PropertyCondo) || ValidPropertyType("castle") {
		t.Error("ValidPropertyType")
	}
	if !ValidListingType(ListingRent) || ValidListingType("swap") {
		t.Error("ValidListingType")
	}
	if !ValidStatus(StatusOffMarket) || ValidStatus("ghost") {
		t.Error("ValidStatus")
	}
	if !ValidRole(RoleAgent) || ValidRole("admin") {
		t.Error("ValidRole")
	}
	if !ValidContactMethod(ContactBoth) || ValidContactMethod("fax") {
		t.Error("ValidContactMethod")
	}
	if !ValidInquiryStatus(InquiryResolved) || ValidInquiryStatus("lost") {
		t.Error("ValidInquiryStatus")
	}
}

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role      string
		canOwn    bool
		canManage bool
	}{
		{RoleBuyer, false, false},
		{RoleSeller, true, false},
		{RoleAgent, true, true},
	}
	for _, tt := range tests {
		u := User{Role: tt.role}
		if got := u.CanOwnListing(); got != tt.canOwn {
			t.Errorf("%s CanOwnListing() = %v, want %v", tt.role, got, tt.canOwn)
		}
		if got := u.CanManageListing(); got != tt.canManage {
			t.Errorf("%s CanManageListing() = %v, want %v", tt.role, got, tt.canManage)
		}
	}
}
