package normalize

import (
	"regexp"
	"strings"
	"time"
)

// The only date shapes we accept from raw cells. Anything else is treated
// as "not a date" rather than guessed at.
var (
	slashDatePattern = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}$`)
	isoDatePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dashDatePattern  = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
)

// Excel serials in this window cover 1982-2064. Values outside it are far
// more likely to be amounts than dates, so they are rejected outright.
const (
	excelSerialMin = 30000
	excelSerialMax = 60000
)

// excelEpoch is 1899-12-30: two days before Excel's nominal 1900-01-01
// epoch, absorbing both the off-by-one day numbering and the fictitious
// 1900-02-29 that Excel inherited from Lotus 1-2-3.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// IsValidDate reports whether a raw string is one of the accepted shapes:
// M/D/Y (2- or 4-digit year), ISO YYYY-MM-DD, or MM-DD-YYYY.
func IsValidDate(raw string) bool {
	s := strings.TrimSpace(raw)
	return slashDatePattern.MatchString(s) ||
		isoDatePattern.MatchString(s) ||
		dashDatePattern.MatchString(s)
}

// ParseDate parses one of the accepted date shapes. The second return is
// false when the input is not a recognizable date.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	switch {
	case slashDatePattern.MatchString(s):
		year := s[strings.LastIndex(s, "/")+1:]
		layout := "1/2/2006"
		if len(year) == 2 {
			layout = "1/2/06"
		}
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	case isoDatePattern.MatchString(s):
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t, true
		}
	case dashDatePattern.MatchString(s):
		if t, err := time.Parse("01-02-2006", s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseExcelSerial interprets a numeric cell as an Excel serial date when it
// falls inside the plausible window, returning the corresponding calendar
// day. Small integers (which are amounts, not dates) fall outside the
// window and are rejected.
func ParseExcelSerial(v float64) (time.Time, bool) {
	if v < excelSerialMin || v >= excelSerialMax {
		return time.Time{}, false
	}
	return excelEpoch.AddDate(0, 0, int(v)), true
}
