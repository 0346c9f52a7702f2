package geospatial

import (
	"fmt"
	"time"
)

// Calendar-naive bucket sizes shared by Elapsed and Recency.
const (
	minute = time.Minute
	hour   = time.Hour
	day    = 24 * time.Hour
	month  = 30 * day
	year   = 365 * day
)

// RecencyBucket is the shortened label used by the recency distribution.
type RecencyBucket string

const (
	RecencyToday     RecencyBucket = "today"
	RecencyThisMonth RecencyBucket = "this month"
	RecencyThisYear  RecencyBucket = "this year"
	RecencyOlder     RecencyBucket = "older"
)

// RecencyOrder is the enumeration order of recency buckets.
var RecencyOrder = []RecencyBucket{RecencyToday, RecencyThisMonth, RecencyThisYear, RecencyOlder}

// Elapsed formats the age of then relative to now, e.g. "3 hours ago".
// Future timestamps read as "just now".
func Elapsed(then, now time.Time) string {
	age := now.Sub(then)
	switch {
	case age < minute:
		return "just now"
	case age < hour:
		return fmt.Sprintf("%d minutes ago", age/minute)
	case age < day:
		return fmt.Sprintf("%d hours ago", age/hour)
	case age < month:
		return fmt.Sprintf("%d days ago", age/day)
	case age < year:
		return fmt.Sprintf("%d months ago", age/month)
	default:
		return fmt.Sprintf("%d years ago", age/year)
	}
}

// ElapsedSince is Elapsed measured against the wall clock.
func ElapsedSince(then time.Time) string {
	return Elapsed(then, time.Now())
}

// Recency classifies the age of then with the same boundaries as Elapsed.
func Recency(then, now time.Time) RecencyBucket {
	age := now.Sub(then)
	switch {
	case age < day:
		return RecencyToday
	case age < month:
		return RecencyThisMonth
	case age < year:
		return RecencyThisYear
	default:
		return RecencyOlder
	}
}
