// Package oncall resolves which schedule entries are active on a calendar date.
package oncall

import "time"

// DateLayout is the canonical YYYY-MM-DD form used for entry anchor dates.
const DateLayout = "2006-01-02"

// Full-day sentinels applied to always-on-call entries.
const (
	AlwaysStartTime = "00:00"
	AlwaysEndTime   = "23:59"
)

// Entry is the resolver's view of a schedule entry. Times are opaque HH:MM
// strings; the resolver never combines them across midnight because entries
// with a reversed window are rejected at creation.
type Entry struct {
	ID          string
	OwnerID     string
	PhoneNumber string
	StartTime   string
	EndTime     string
	DayOfWeek   *int
	Recurring   bool
	Always      bool
	Date        string
}

// EntriesForDate returns the subset of entries active on the given calendar
// date. It is pure and evaluates each entry independently:
//
//   - Always entries match every date.
//   - Recurring entries match when the weekday equals the entry's DayOfWeek
//     and the date is on or after the anchor date. The recurrence is open
//     ended; there is no end date.
//   - Non-recurring entries match only their literal anchor date.
//
// Overlapping matches are all returned; merging time ranges is left to the
// caller.
func EntriesForDate(date time.Time, entries []Entry) []Entry {
	dateStr := date.Format(DateLayout)
	weekday := int(date.Weekday())

	matched := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if matches(entry, dateStr, weekday) {
			matched = append(matched, entry)
		}
	}
	if len(matched) == 0 {
		return nil
	}
	return matched
}

func matches(entry Entry, dateStr string, weekday int) bool {
	if entry.Always {
		return true
	}
	if entry.Recurring {
		// Zero-padded ISO dates order lexicographically, so the string
		// comparison is a chronological one.
		return entry.DayOfWeek != nil && *entry.DayOfWeek == weekday && dateStr >= entry.Date
	}
	return entry.Date == dateStr
}
