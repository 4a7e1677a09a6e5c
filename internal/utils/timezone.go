package utils

import "time"

func locationOrUTC(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

func CurrentDateInTimezone(tz string) string {
	return time.Now().In(locationOrUTC(tz)).Format("2006-01-02")
}

// CurrentTimeInTimezone formats the wall clock as HH:MM, the order "hour".
func CurrentTimeInTimezone(tz string) string {
	return time.Now().In(locationOrUTC(tz)).Format("15:04")
}
