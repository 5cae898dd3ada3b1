package bot

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// weekdays fixes the rendering order for day-keyed maps; JSON objects carry
// no order of their own.
var weekdays = []string{
	"понедельник",
	"вторник",
	"среда",
	"четверг",
	"пятница",
	"суббота",
	"воскресенье",
}

var weekdayIndex = func() map[string]int {
	idx := make(map[string]int, len(weekdays))
	for i, d := range weekdays {
		idx[d] = i
	}
	return idx
}()

// orderedDays returns the map keys in weekday order; unknown day names go
// last, alphabetically.
func orderedDays[V any](m map[string]V) []string {
	days := make([]string, 0, len(m))
	for day := range m {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		wi, iOK := weekdayIndex[days[i]]
		wj, jOK := weekdayIndex[days[j]]
		switch {
		case iOK && jOK:
			return wi < wj
		case iOK:
			return true
		case jOK:
			return false
		}
		return days[i] < days[j]
	})
	return days
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// capitalize upper-cases the first rune and lower-cases the rest, matching
// how day and lesson names are shown to users.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
