package schedule

import "time"

const dateKeyLayout = "2006-01-02"

// DateKey renders an instant as the engine's calendar-day key in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateKeyLayout)
}

// ParseDateKey returns local midnight of the given day key.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateKeyLayout, key, loc)
}

func onDate(t *time.Time, dateKey string, loc *time.Location) bool {
	if t == nil {
		return false
	}
	return DateKey(*t, loc) == dateKey
}
