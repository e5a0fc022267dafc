package timeutil

import "time"

// IST is the business timezone. Transaction dates, onboarding dates and
// ledger entry IDs are all anchored to it, whatever the host clock runs in.
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// DateLayout is the wire format for transaction and onboarding dates.
const DateLayout = "2006-01-02"

// Now returns the current instant in IST.
func Now() time.Time {
	return time.Now().In(IST)
}

// ParseInIST parses value in the business timezone.
func ParseInIST(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, IST)
}

// FormatIST formats t in the business timezone.
func FormatIST(t time.Time, layout string) string {
	return t.In(IST).Format(layout)
}

// StartOfDay truncates t to midnight IST.
func StartOfDay(t time.Time) time.Time {
	ist := t.In(IST)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 0, 0, 0, 0, IST)
}
