// Package timeutil pins the service to Indian Standard Time. The
// consultancy's branches all operate in India, so admission dates,
// payment dates and daybook day boundaries are IST regardless of
// where the server runs.
package timeutil

import (
	"time"
)

// IST is Asia/Kolkata (UTC+5:30).
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Containers without tzdata still need the right offset
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// Now is the timestamp stamped on payments, vouchers and ledger entries
// when the client does not supply a date.
func Now() time.Time {
	return time.Now().In(IST)
}

// ParseInIST parses a date query parameter as an IST value, so a
// daybook filter for "2026-08-30" means that calendar day in India.
func ParseInIST(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, IST)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// FormatIST renders a stored timestamp for display, as on printed
// vouchers.
func FormatIST(t time.Time, layout string) string {
	return t.In(IST).Format(layout)
}

// DateLayout is the wire format for date filters and voucher dates.
const DateLayout = "2006-01-02"
