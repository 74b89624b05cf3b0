// Package amount provides cleaning, parsing, and formatting of monetary and
// numeric strings recovered from OCR output.
//
// OCR of Japanese invoices produces currency glyphs (¥, ￥), full-width
// digits, and characteristic mis-recognitions (¥ read as 半 or #). The
// functions here normalize such text into thousands-grouped decimal strings
// suitable for the extraction result.
package amount

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// stripGlyphs matches currency glyphs, the glyphs Tesseract and EasyOCR
// commonly substitute for ¥ (半, #), and whitespace.
const stripGlyphs = "半#¥￥ \t　"

// Clean normalizes an amount string: full-width characters are narrowed,
// currency and mis-recognition glyphs are stripped, and everything except
// digits, commas, and dots is dropped. It returns "" when nothing numeric
// remains.
//
// One OCR artifact is corrected here: when the cleaned value has exactly
// seven digits, starts with 1, and contains a comma, the leading 1 is
// treated as an injected recognition artifact (a stray ¥ stroke read as a
// digit) and dropped. The trigger is deliberately narrow: values it produces
// have six digits, and longer values are never touched, so no output of
// Clean can re-satisfy the trigger and Clean is idempotent.
func Clean(s string) string {
	if s == "" {
		return ""
	}

	s = width.Narrow.String(s)

	var sb strings.Builder
	for _, r := range s {
		if strings.ContainsRune(stripGlyphs, r) {
			continue
		}
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			sb.WriteRune(r)
		}
	}
	cleaned := sb.String()
	if cleaned == "" {
		return ""
	}

	if digitCount(cleaned) == 7 && cleaned[0] == '1' && strings.Contains(cleaned, ",") {
		cleaned = cleaned[1:]
		cleaned = strings.TrimPrefix(cleaned, ",")
	}

	return cleaned
}

// Parse converts a cleaned numeric string (possibly thousands-grouped) into a
// float64. It reports false for empty or non-numeric input.
func Parse(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Format renders a value as a thousands-grouped integer string, rounding to
// the nearest whole number.
func Format(v float64) string {
	return group(strconv.FormatInt(int64(math.Round(v)), 10))
}

// FormatAuto renders a value as a grouped integer when it is exact, and with
// two decimal places otherwise. This is the formatting rule for derived
// unit prices and quantities.
func FormatAuto(v float64) string {
	if v == math.Trunc(v) {
		return Format(v)
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	return group(intPart) + "." + frac
}

// Reformat cleans a numeric string and, when parseable, re-renders it as a
// thousands-grouped decimal string. Unparseable input is returned cleaned but
// otherwise untouched.
func Reformat(s string) string {
	cleaned := Clean(s)
	if cleaned == "" {
		return ""
	}
	v, ok := Parse(cleaned)
	if !ok {
		return cleaned
	}
	if v == math.Trunc(v) {
		return Format(v)
	}
	return FormatAuto(v)
}

// DigitLen returns the number of decimal digits in the integer part of a
// cleaned numeric string. It is the length measure used by the total-amount
// digit-drop correction.
func DigitLen(s string) int {
	intPart, _, _ := strings.Cut(s, ".")
	return digitCount(intPart)
}

// IsNumeric reports whether a string consists solely of digits with optional
// comma grouping and an optional decimal part, e.g. "1,234" or "12.50".
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	seenDigit := false
	seenDot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
		case r == ',':
			if i == 0 || seenDot {
				return false
			}
		case r == '.':
			if i == 0 || seenDot {
				return false
			}
			seenDot = true
		default:
			return false
		}
	}
	return seenDigit
}

// group inserts comma separators into a non-negative integer string.
func group(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	first := n % 3
	if first > 0 {
		sb.WriteString(s[:first])
	}
	for i := first; i < n; i += 3 {
		if sb.Len() > 0 && !(neg && sb.Len() == 1) {
			sb.WriteByte(',')
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}

// digitCount counts decimal digit runes in a string.
func digitCount(s string) int {
	count := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count
}
