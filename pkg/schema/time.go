package schema

import (
	"strings"
	"time"
)

// Full date-time layouts tried in order when the literal already carries a
// date component.
var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999",
	"2006/01/02 15:04:05",
	"20060102 15:04:05",
}

const tradingDateLayout = "20060102"

// ParseTradingDate anchors a yyyymmdd literal to local midnight.
func ParseTradingDate(literal string) (time.Time, error) {
	return time.ParseInLocation(tradingDateLayout, strings.TrimSpace(literal), time.Local)
}

// ResolveTime converts a raw time literal into an absolute timestamp anchored
// to the trading date. Recognized shapes, in priority order: a full
// date-time, a colon-separated time-of-day of at most 8 characters, a
// 6-digit HHMMSS, and a 9-digit HHMMSS with sub-second digits discarded.
// Anything else yields a TimeFormatError.
func ResolveTime(literal string, tradingDate time.Time) (time.Time, error) {
	literal = strings.TrimSpace(literal)

	if strings.Contains(literal, ":") {
		if len(literal) <= 8 {
			if tradingDate.IsZero() {
				return time.Time{}, &TimeFormatError{Literal: literal}
			}
			for _, layout := range []string{"15:04:05", "3:04:05", "15:04"} {
				if tod, err := time.Parse(layout, literal); err == nil {
					return atTimeOfDay(tradingDate, tod), nil
				}
			}
			return time.Time{}, &TimeFormatError{Literal: literal}
		}
		for _, layout := range dateTimeLayouts {
			if ts, err := time.ParseInLocation(layout, literal, time.Local); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, &TimeFormatError{Literal: literal}
	}

	if tradingDate.IsZero() {
		return time.Time{}, &TimeFormatError{Literal: literal}
	}

	switch len(literal) {
	case 6:
		if tod, err := time.Parse("150405", literal); err == nil {
			return atTimeOfDay(tradingDate, tod), nil
		}
	case 9:
		// HHMMSS plus sub-second digits, which the minute bars never need.
		if tod, err := time.Parse("150405", literal[:6]); err == nil {
			return atTimeOfDay(tradingDate, tod), nil
		}
	}
	return time.Time{}, &TimeFormatError{Literal: literal}
}

func atTimeOfDay(date, tod time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0, date.Location())
}
