package records

import "regexp"

// Reference extraction from free-text description fields. Bank feeds bury
// check numbers in text like "REF 0004412 CHECK PAID"; GL descriptions use
// "Chk# 4412" and "PO: 88-1234" conventions.
var (
	bankCheckPattern    = regexp.MustCompile(`(?i)(?:check|chk)\D{0,3}(\d{4,})`)
	bankCheckPrePattern = regexp.MustCompile(`(?i)(\d{4,})\D{0,3}(?:check|chk)`)
	glCheckPattern      = regexp.MustCompile(`(?i)chk[:#]?\s*(\d+)`)
	glPOPattern         = regexp.MustCompile(`(?i)po[:#]?\s*([\d-]+)`)
	digitsPattern       = regexp.MustCompile(`\d+`)
)

// ExtractBankCheckNumber pulls a check number of at least four digits from
// free text, accepting both "Check 4412" and "4412 Check" orderings.
func ExtractBankCheckNumber(text string) string {
	if m := bankCheckPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := bankCheckPrePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// ExtractGLCheckNumber pulls a "Chk 1234" style reference from GL text.
func ExtractGLCheckNumber(text string) string {
	if m := glCheckPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// ExtractPONumber pulls a "PO: 88-1234" style purchase-order reference.
func ExtractPONumber(text string) string {
	if m := glPOPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// Digits strips everything but digits; used for fuzzy reference
// comparisons ("#4412" vs "4412").
func Digits(s string) string {
	parts := digitsPattern.FindAllString(s, -1)
	out := ""
	for _, p := range parts {
		out += p
	}
	return out
}
