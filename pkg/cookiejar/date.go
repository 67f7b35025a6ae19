package cookiejar

import (
	"strings"
	"time"
)

var monthNames = [...]string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

// parseCookieDate parses an Expires value with the RFC 6265 §5.1.1
// algorithm. Tokens are matched in order and each one claims at most one
// of time, day-of-month, month and year.
func parseCookieDate(s string) (time.Time, bool) {
	var (
		hour, minute, second int
		day, month, year     int

		foundTime, foundDay, foundMonth, foundYear bool
	)
	for _, tok := range dateTokens(s) {
		switch {
		case !foundTime && parseClock(tok, &hour, &minute, &second):
			foundTime = true
		case !foundDay && parseDigits(tok, 1, 2, &day):
			foundDay = true
		case !foundMonth && parseMonth(tok, &month):
			foundMonth = true
		case !foundYear && parseDigits(tok, 2, 4, &year):
			foundYear = true
		}
	}
	if !foundTime || !foundDay || !foundMonth || !foundYear {
		return time.Time{}, false
	}

	switch {
	case year >= 70 && year <= 99:
		year += 1900
	case year >= 0 && year <= 69:
		year += 2000
	}
	if day < 1 || day > 31 || hour > 23 || minute > 59 || second > 59 || year < 1601 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	// time.Date normalizes Feb 30 into March.
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}

// dateTokens splits s into runs of non-delimiter octets.
func dateTokens(s string) []string {
	var toks []string
	start := -1
	for i := 0; i < len(s); i++ {
		if isDateDelimiter(s[i]) {
			if start >= 0 {
				toks = append(toks, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		toks = append(toks, s[start:])
	}
	return toks
}

// isDateDelimiter implements the RFC 6265 delimiter production.
func isDateDelimiter(c byte) bool {
	return c == 0x09 ||
		(c >= 0x20 && c <= 0x2F) ||
		(c >= 0x3B && c <= 0x40) ||
		(c >= 0x5B && c <= 0x60) ||
		(c >= 0x7B && c <= 0x7E)
}

// leadingDigits returns the value of the digit run at the start of s and
// the remainder. The run must be min to max digits long, which also means
// the remainder is empty or starts with a non-digit.
func leadingDigits(s string, min, max int) (int, string, bool) {
	n, v := 0, 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		if n < max {
			v = v*10 + int(s[n]-'0')
		}
		n++
	}
	if n < min || n > max {
		return 0, s, false
	}
	return v, s[n:], true
}

func parseDigits(tok string, min, max int, dst *int) bool {
	v, _, ok := leadingDigits(tok, min, max)
	if ok {
		*dst = v
	}
	return ok
}

// parseClock matches hms-time: 1*2DIGIT ":" 1*2DIGIT ":" 1*2DIGIT.
func parseClock(tok string, hour, minute, second *int) bool {
	h, rest, ok := leadingDigits(tok, 1, 2)
	if !ok || !strings.HasPrefix(rest, ":") {
		return false
	}
	m, rest, ok := leadingDigits(rest[1:], 1, 2)
	if !ok || !strings.HasPrefix(rest, ":") {
		return false
	}
	sec, _, ok := leadingDigits(rest[1:], 1, 2)
	if !ok {
		return false
	}
	*hour, *minute, *second = h, m, sec
	return true
}

func parseMonth(tok string, month *int) bool {
	if len(tok) < 3 {
		return false
	}
	prefix := strings.ToLower(tok[:3])
	for i, name := range monthNames {
		if prefix == name {
			*month = i + 1
			return true
		}
	}
	return false
}
