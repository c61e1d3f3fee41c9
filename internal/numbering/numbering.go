// Package numbering formats the human-readable ledger identifiers. The
// sequence allocation itself lives in the repositories, serialized per
// prefix; this package only owns the formats so they stay in one place.
package numbering

import (
	"fmt"
	"strconv"
	"strings"
)

// VoucherPrefix is the per-branch, per-year voucher number scope.
func VoucherPrefix(branchCode string, year int) string {
	return fmt.Sprintf("%s-%d", branchCode, year)
}

// VoucherNo formats a voucher number, e.g. "KTM-2026-000042".
func VoucherNo(branchCode string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%06d", branchCode, year, seq)
}

// AdmissionPrefix is the per-year admission number scope.
func AdmissionPrefix(year int) string {
	return fmt.Sprintf("ADM-%d", year)
}

// AdmissionNo formats an admission number, e.g. "ADM-2026-00017".
func AdmissionNo(year, seq int) string {
	return fmt.Sprintf("ADM-%d-%05d", year, seq)
}

// Seq extracts the trailing sequence from a formatted number. Returns 0
// for anything that does not end in a numeric segment.
func Seq(no string) int {
	idx := strings.LastIndex(no, "-")
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(no[idx+1:])
	if err != nil {
		return 0
	}
	return n
}
