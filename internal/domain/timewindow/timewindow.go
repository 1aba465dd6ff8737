// Package timewindow maps free-text questions onto concrete time intervals
// and an inferred weather condition.
package timewindow

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Condition is the weather condition inferred from a question. Only rain is
// recognized today.
type Condition string

// Known conditions. An empty Condition means none was inferred.
const (
	ConditionRain Condition = "rain"
)

// Window is the resolved time interval for a question. A nil End means the
// default near-term window, interpreted downstream as Start plus six hours.
type Window struct {
	Start     time.Time
	End       *time.Time
	Condition Condition
}

// DefaultSpan is the near-term window applied when End is nil.
const DefaultSpan = 6 * time.Hour

// Recognized window patterns, tried in priority order; the first match wins.
var windowPatterns = []struct {
	re   *regexp.Regexp
	kind string
}{
	{regexp.MustCompile(`(?i)before (\d{1,2})(?::(\d{2}))?\s*(am|pm)?`), "before"},
	{regexp.MustCompile(`(?i)by (\d{1,2})(?::(\d{2}))?\s*(am|pm)?`), "before"},
	{regexp.MustCompile(`(?i)(tomorrow) (morning|afternoon|evening|night)`), "tomorrowPart"},
}

// partRanges holds [startHour, endHour) for each named part of day.
var partRanges = map[string][2]int{
	"morning":   {6, 12},
	"afternoon": {12, 18},
	"evening":   {18, 22},
	"night":     {22, 24},
}

var rainWords = []string{"rain", "shower", "drizzle"}

// Resolve parses a free-text question against a reference now (UTC) into a
// Window. Unmatched questions yield the open near-term window. A clock time
// already past still resolves against today's date; there is no rollover to
// tomorrow.
func Resolve(question string, now time.Time) Window {
	w := Window{Start: now}

	q := strings.ToLower(question)
	for _, word := range rainWords {
		if strings.Contains(q, word) {
			w.Condition = ConditionRain
			break
		}
	}

	for _, pat := range windowPatterns {
		m := pat.re.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		switch pat.kind {
		case "before":
			hour, _ := strconv.Atoi(m[1])
			minute := 0
			if m[2] != "" {
				minute, _ = strconv.Atoi(m[2])
			}
			if strings.EqualFold(m[3], "pm") && hour < 12 {
				hour += 12
			}
			end := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
			w.End = &end
		case "tomorrowPart":
			r := partRanges[strings.ToLower(m[2])]
			tomorrow := now.AddDate(0, 0, 1)
			start := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), r[0], 0, 0, 0, now.Location())
			end := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), r[1], 0, 0, 0, now.Location())
			w.Start = start
			w.End = &end
		}
		break
	}

	return w
}

// Contains reports whether t falls inside the window. An open window covers
// [Start, Start+DefaultSpan]; a closed window is inclusive at both ends.
func (w Window) Contains(t time.Time) bool {
	if w.End == nil {
		return !t.Before(w.Start) && t.Sub(w.Start) <= DefaultSpan
	}
	return !t.Before(w.Start) && !t.After(*w.End)
}
