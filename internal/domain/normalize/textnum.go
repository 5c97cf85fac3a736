package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
)

var onesWords = map[string]int64{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var tensWords = map[string]int64{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

var scaleWords = map[string]int64{
	"hundred":  100,
	"thousand": 1_000,
	"million":  1_000_000,
	"billion":  1_000_000_000,
	"trillion": 1_000_000_000_000,
}

// Ordinals map onto their cardinal value so "twenty-first" parses as 21.
var ordinalWords = map[string]int64{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
	"eleventh": 11, "twelfth": 12, "thirteenth": 13, "fourteenth": 14,
	"fifteenth": 15, "sixteenth": 16, "seventeenth": 17, "eighteenth": 18,
	"nineteenth": 19, "twentieth": 20, "thirtieth": 30, "fortieth": 40,
	"fiftieth": 50, "sixtieth": 60, "seventieth": 70, "eightieth": 80,
	"ninetieth": 90, "hundredth": 100, "thousandth": 1_000,
	"millionth": 1_000_000,
}

// ParseTextNumber parses a spelled-out integer such as "one thousand five
// hundred" or "twenty-one". Scale words multiply the accumulated subtotal
// and commit it before parsing continues, so "two hundred thousand" works.
// A leading "negative", "minus", or "-" negates. When no number words are
// recognized at all the input falls through to ParseAmountOK.
func ParseTextNumber(raw string) (decimal.Decimal, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return decimal.Zero, false
	}

	negative := false
	for _, prefix := range []string{"negative ", "minus ", "-"} {
		if strings.HasPrefix(s, prefix) {
			negative = true
			s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
			break
		}
	}

	// Hyphenated compounds split into their parts: "twenty-one" -> twenty one.
	s = strings.ReplaceAll(s, "-", " ")

	var total, current int64
	recognized := false

	for _, word := range strings.Fields(s) {
		word = strings.Trim(word, ",.")
		if word == "and" || word == "" {
			continue
		}

		if v, ok := wordValue(word); ok {
			recognized = true
			switch {
			case v == 100:
				if current == 0 {
					current = 1
				}
				current *= 100
			case v >= 1000:
				if current == 0 {
					current = 1
				}
				total += current * v
				current = 0
			default:
				current += v
			}
			continue
		}
		// Unknown word inside an otherwise-recognized phrase is skipped;
		// a phrase with no number words at all is not ours to parse.
	}

	if !recognized {
		return ParseAmountOK(raw)
	}

	result := decimal.NewFromInt(total + current)
	if negative {
		result = result.Neg()
	}
	return result, true
}

func wordValue(word string) (int64, bool) {
	if v, ok := onesWords[word]; ok {
		return v, true
	}
	if v, ok := tensWords[word]; ok {
		return v, true
	}
	if v, ok := scaleWords[word]; ok {
		return v, true
	}
	if v, ok := ordinalWords[word]; ok {
		return v, true
	}
	return 0, false
}
