package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format stored on every entry.
const DateLayout = "2006-01-02"

var (
	relativeRE = regexp.MustCompile(`(?i)\b(today|yesterday|tomorrow)\b`)
	isoRE      = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	monthDayRE = regexp.MustCompile(`\b(\d{1,2})-(\d{1,2})(?:-(\d{4}|\d{2}))?\b`)
	// Slashed dates need a year so fractions like "1/2 cup" are left alone.
	slashRE = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4}|\d{2})\b`)
)

// ResolveDate finds a date expression in text and returns it as yyyy-MM-dd
// relative to now. It understands today/yesterday/tomorrow, ISO dates and
// MM-DD, MM-DD-YY(YY) or MM/DD/YY(YY). Two-digit years land in the 2000s. A
// month/day with no year that would be in the future is moved back one year.
// ok is false when nothing matched; callers then use today.
func ResolveDate(text string, now time.Time) (date string, ok bool) {
	if m := relativeRE.FindStringSubmatch(text); m != nil {
		switch strings.ToLower(m[1]) {
		case "yesterday":
			return now.AddDate(0, 0, -1).Format(DateLayout), true
		case "tomorrow":
			return now.AddDate(0, 0, 1).Format(DateLayout), true
		default:
			return now.Format(DateLayout), true
		}
	}

	if m := isoRE.FindStringSubmatch(text); m != nil {
		y, _ := strconv.Atoi(m[1])
		if d, valid := makeDate(y, m[2], m[3], now.Location()); valid {
			return d.Format(DateLayout), true
		}
	}

	matches := append(slashRE.FindAllStringSubmatch(text, -1), monthDayRE.FindAllStringSubmatch(text, -1)...)
	for _, m := range matches {
		year := now.Year()
		explicit := m[3] != ""
		if explicit {
			year, _ = strconv.Atoi(m[3])
			if len(m[3]) == 2 {
				year += 2000
			}
		}
		d, valid := makeDate(year, m[1], m[2], now.Location())
		if !valid {
			continue
		}
		if !explicit && d.After(startOfDay(now)) {
			d = d.AddDate(-1, 0, 0)
		}
		return d.Format(DateLayout), true
	}
	return "", false
}

// Today formats now in the named IANA zone, falling back to UTC when the
// zone is empty or unknown.
func Today(now time.Time, tz string) string {
	return InZone(now, tz).Format(DateLayout)
}

// InZone converts now to the named IANA zone, or UTC when it cannot be loaded.
func InZone(now time.Time, tz string) time.Time {
	if tz = strings.TrimSpace(tz); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return now.In(loc)
		}
	}
	return now.UTC()
}

func makeDate(year int, month, day string, loc *time.Location) (time.Time, bool) {
	mo, err1 := strconv.Atoi(month)
	dd, err2 := strconv.Atoi(day)
	if err1 != nil || err2 != nil || mo < 1 || mo > 12 || dd < 1 || dd > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(mo), dd, 0, 0, 0, 0, loc)
	// time.Date normalizes overflow (02-30 -> 03-02); treat that as invalid.
	if d.Month() != time.Month(mo) || d.Day() != dd {
		return time.Time{}, false
	}
	return d, true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
