package parser

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateOrder is the day/month interpretation applied to slash dates that
// carry the year as their last component. It is decided once per transcript
// (see sampleOrder), never per line, so a single file cannot flip between
// conventions halfway through.
type dateOrder int

const (
	orderDayFirst   dateOrder = iota // D/M/Y (European)
	orderMonthFirst                  // M/D/Y (US)
)

// header holds the raw fields captured from a line that matched one of the
// format families. Date fields are kept in written order; interpretation
// happens in decodeHeader.
type header struct {
	d1, d2, d3 string
	hour, min  string
	sec        string // optional
	meridiem   string // "AM", "PM", or ""
	rest       string // everything after the timestamp
	yearFirst  bool   // the family writes the year as the first date field
}

// family is one recognized timestamp layout. The pattern and its decode
// metadata live together so they cannot drift apart. All patterns capture
// the same eight groups: d1, d2, d3, hour, minute, second, meridiem, rest.
type family struct {
	re        *regexp.Regexp
	yearFirst bool
}

// families is tried in order; first match wins. The bracketed form goes
// first because its interior would otherwise match the looser slash forms.
var families = []family{
	// [M/D/YY, H:MM:SS AM] Sender: text  and  [DD/MM/YYYY, HH:MM:SS] Sender: text
	{re: regexp.MustCompile(`^\[(\d{1,2})/(\d{1,2})/(\d{2,4}),\s+(\d{1,2}):(\d{2})(?::(\d{2}))?(?:\s*([AP]M))?\]\s*(.*)$`)},
	// M/D/YY, H:MM AM - Sender: text
	{re: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2}),\s+(\d{1,2}):(\d{2})()\s*([AP]M)\s*[-–]\s*(.*)$`)},
	// YYYY/MM/DD, HH:MM - Sender: text  and  YYYY-MM-DD, HH:MM - Sender: text
	{re: regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2}),\s+(\d{1,2}):(\d{2})(?::(\d{2}))?()\s*[-–]\s*(.*)$`), yearFirst: true},
	// DD/MM/YY, HH:MM - Sender: text (day/month order ambiguous, see sampleOrder)
	{re: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4}),\s+(\d{1,2}):(\d{2})(?::(\d{2}))?()\s*[-–]\s*(.*)$`)},
}

// senderRe splits "Sender: text" from the remainder of a header line; the
// space after the colon is optional. A remainder without this shape is a
// system notification.
var senderRe = regexp.MustCompile(`^([^:]+?):\s*(.*)$`)

var errBadTimestamp = errors.New("invalid date or time values")

// matchHeader classifies a line: it returns the captured header fields when
// the line starts a new message, or ok=false for a continuation line.
func matchHeader(line string) (header, bool) {
	for _, f := range families {
		m := f.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		return header{
			d1: m[1], d2: m[2], d3: m[3],
			hour: m[4], min: m[5], sec: m[6],
			meridiem:  m[7],
			rest:      m[8],
			yearFirst: f.yearFirst,
		}, true
	}
	return header{}, false
}

// detectOrder picks the day/month convention from a sampled header.
// Year-first dates are unambiguous. Otherwise: a component over 12 can only
// be the day and forces the order outright; an AM/PM marker indicates a US
// export (month first); everything else is read as European day-first.
// Two-digit-year dates where both components are <= 12 are irreducibly
// ambiguous and this heuristic is best effort only.
func detectOrder(h header) dateOrder {
	if h.yearFirst {
		return orderDayFirst // unused for year-first lines; keep the safer default
	}
	a, _ := strconv.Atoi(h.d1)
	b, _ := strconv.Atoi(h.d2)
	if a > 12 {
		return orderDayFirst
	}
	if b > 12 {
		return orderMonthFirst
	}
	if h.meridiem != "" {
		return orderMonthFirst
	}
	return orderDayFirst
}

// decodeHeader turns captured header fields into a timestamp, sender, and
// message text. It returns errBadTimestamp when the values form no real
// clock time or calendar date; callers demote such lines to continuations.
func decodeHeader(h header, order dateOrder) (ts time.Time, sender, text string, isSystem bool, err error) {
	var year, month, day int
	if h.yearFirst {
		year, _ = strconv.Atoi(h.d1)
		month, _ = strconv.Atoi(h.d2)
		day, _ = strconv.Atoi(h.d3)
	} else {
		year, _ = strconv.Atoi(h.d3)
		if order == orderMonthFirst {
			month, _ = strconv.Atoi(h.d1)
			day, _ = strconv.Atoi(h.d2)
		} else {
			day, _ = strconv.Atoi(h.d1)
			month, _ = strconv.Atoi(h.d2)
		}
	}
	if year < 100 {
		year += 2000
	}

	hour, _ := strconv.Atoi(h.hour)
	min, _ := strconv.Atoi(h.min)
	sec := 0
	if h.sec != "" {
		sec, _ = strconv.Atoi(h.sec)
	}

	switch {
	case h.meridiem != "":
		if hour < 1 || hour > 12 {
			return time.Time{}, "", "", false, errBadTimestamp
		}
		if hour == 12 {
			hour = 0
		}
		if h.meridiem == "PM" {
			hour += 12
		}
	case hour > 23:
		return time.Time{}, "", "", false, errBadTimestamp
	}
	if min > 59 || sec > 59 {
		return time.Time{}, "", "", false, errBadTimestamp
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, "", "", false, errBadTimestamp
	}
	ts = time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC)
	if ts.Month() != time.Month(month) || ts.Day() != day {
		// time.Date normalized an impossible date like Feb 30.
		return time.Time{}, "", "", false, errBadTimestamp
	}

	sender, text, isSystem = splitSender(h.rest)
	return ts, sender, text, isSystem, nil
}

// splitSender separates the participant name from the message text. A
// remainder with no "Name: " segment is a system notification (membership
// change, encryption notice, …) and carries no sender.
func splitSender(rest string) (sender, text string, isSystem bool) {
	m := senderRe.FindStringSubmatch(rest)
	if m == nil {
		return "", strings.TrimSpace(rest), true
	}
	return strings.TrimSpace(m[1]), m[2], false
}
