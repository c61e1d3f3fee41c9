package numbering

import "testing"

func TestVoucherNo(t *testing.T) {
	if got := VoucherNo("KTM", 2026, 7); got != "KTM-2026-000007" {
		t.Errorf("got %q", got)
	}
	if got := VoucherNo("BLR", 2026, 123456); got != "BLR-2026-123456" {
		t.Errorf("got %q", got)
	}
}

func TestAdmissionNo(t *testing.T) {
	if got := AdmissionNo(2026, 1); got != "ADM-2026-00001" {
		t.Errorf("got %q", got)
	}
	if got := AdmissionNo(2026, 99999); got != "ADM-2026-99999" {
		t.Errorf("got %q", got)
	}
}

func TestSeqRoundTrip(t *testing.T) {
	for _, seq := range []int{1, 42, 999999} {
		no := VoucherNo("KTM", 2026, seq)
		if got := Seq(no); got != seq {
			t.Errorf("Seq(%q): got %d, want %d", no, got, seq)
		}
	}
	if got := Seq("not-a-number-x"); got != 0 {
		t.Errorf("Seq of junk: got %d, want 0", got)
	}
	if got := Seq("plain"); got != 0 {
		t.Errorf("Seq without dash: got %d, want 0", got)
	}
}

func TestSequenceIsContiguous(t *testing.T) {
	// Numbers minted from consecutive sequences form a contiguous run.
	prev := Seq(VoucherNo("KTM", 2026, 10))
	for seq := 11; seq < 15; seq++ {
		cur := Seq(VoucherNo("KTM", 2026, seq))
		if cur != prev+1 {
			t.Fatalf("gap between %d and %d", prev, cur)
		}
		prev = cur
	}
}
