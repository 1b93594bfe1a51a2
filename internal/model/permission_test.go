package model

import "testing"

func TestPermissionBits(t *testing.T) {
	mask := PermRead.With(PermWrite)
	if int(mask) != 3 {
		t.Fatalf("expected mask 3, got %d", mask)
	}
	if !mask.Has(PermRead) || !mask.Has(PermWrite) {
		t.Fatal("mask should contain read and write")
	}
	if mask.Has(PermManage) {
		t.Fatal("mask should not contain manage")
	}
	if mask.Has(PermRead.With(PermManage)) {
		t.Fatal("Has requires every bit, not any")
	}
	if got := mask.Without(PermWrite); got != PermRead {
		t.Fatalf("expected read only, got %d", got)
	}
}
