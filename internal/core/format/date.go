// Package format renders dates, weather tags and plant names as the
// Japanese labels shown to children recording their observations.
package format

import (
	"fmt"
	"strings"
	"time"
)

// inputLayouts are tried in order when parsing a date or timestamp.
var inputLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// weekdays is indexed by time.Weekday (Sunday first).
var weekdays = [7]string{
	"日（にち）曜日（ようび）",
	"月（げつ）曜日（ようび）",
	"火（か）曜日（ようび）",
	"水（すい）曜日（ようび）",
	"木（もく）曜日（ようび）",
	"金（きん）曜日（ようび）",
	"土（ど）曜日（ようび）",
}

// Location is used for values without an offset and as the display zone.
var Location = time.Local

// ParseTime parses a backend date or timestamp. Values with an explicit
// offset are converted into Location.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range inputLayouts {
		t, err := time.ParseInLocation(layout, s, Location)
		if err == nil {
			return t.In(Location), true
		}
	}
	return time.Time{}, false
}

// FormatDate renders s as "2006年01月02日". Unparseable input is returned as is.
func FormatDate(s string) string {
	t, ok := ParseTime(s)
	if !ok {
		return s
	}
	return dateLabel(t)
}

// FormatDateTime renders s as "2006年01月02日 15:04".
func FormatDateTime(s string) string {
	t, ok := ParseTime(s)
	if !ok {
		return s
	}
	return fmt.Sprintf("%s %02d:%02d", dateLabel(t), t.Hour(), t.Minute())
}

// FormatCurrentDate renders now with its weekday, e.g.
// "2024年05月01日 水（すい）曜日（ようび）".
func FormatCurrentDate(now time.Time) string {
	now = now.In(Location)
	return dateLabel(now) + " " + weekdays[now.Weekday()]
}

func dateLabel(t time.Time) string {
	return fmt.Sprintf("%d年%02d月%02d日", t.Year(), int(t.Month()), t.Day())
}
