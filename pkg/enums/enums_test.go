package enums

import "testing"

func TestParseBookingStatus(t *testing.T) {
	for _, raw := range []string{"pending", "confirmed", "in-progress", "completed", "cancelled"} {
		status, err := ParseBookingStatus(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if status.String() != raw {
			t.Fatalf("expected %q got %q", raw, status)
		}
	}
	if _, err := ParseBookingStatus("in_progress"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestBookingStatusIsTerminal(t *testing.T) {
	if !BookingStatusCompleted.IsTerminal() || !BookingStatusCancelled.IsTerminal() {
		t.Fatal("completed and cancelled must be terminal")
	}
	if BookingStatusPending.IsTerminal() || BookingStatusInProgress.IsTerminal() {
		t.Fatal("pending and in-progress are not terminal")
	}
}

func TestParseServiceMethod(t *testing.T) {
	if m, err := ParseServiceMethod("pickup"); err != nil || m != ServiceMethodPickup {
		t.Fatalf("unexpected %q %v", m, err)
	}
	if _, err := ParseServiceMethod("mail"); err == nil {
		t.Fatal("expected error")
	}
	if ServiceMethod("").IsValid() {
		t.Fatal("empty method should be invalid")
	}
}

func TestDiscountEnums(t *testing.T) {
	if !DiscountTypeFixed.IsValid() || DiscountType("bogo").IsValid() {
		t.Fatal("unexpected discount type validity")
	}
	if c, err := ParseDiscountCondition("minSubtotal"); err != nil || c != DiscountConditionMinSubtotal {
		t.Fatalf("unexpected %q %v", c, err)
	}
	if _, err := ParseDiscountCondition("min_repairs"); err == nil {
		t.Fatal("expected error")
	}
}

func TestDeviceAndCustomerTypes(t *testing.T) {
	if _, err := ParseDeviceType("laptop"); err != nil {
		t.Fatalf("laptop: %v", err)
	}
	if DeviceType("watch").IsValid() {
		t.Fatal("watch should be invalid")
	}
	if !CustomerTypeBusiness.IsValid() {
		t.Fatal("business should be valid")
	}
	if _, err := ParseCustomerType("vip"); err == nil {
		t.Fatal("expected error")
	}
}
