package utils

import (
	"sort"
	"time"

	"github.com/tbourn/go-trip-sync/internal/domain"
)

// AnytimeKey is the bucket for items without a start time. It always sorts
// after dated buckets.
const AnytimeKey = "Anytime"

// DayGroup is one itinerary day bucket.
type DayGroup struct {
	Date  string
	Items []domain.ItineraryItem
}

// GroupItemsByDay buckets items by the UTC date of their start time, with
// undated items collected under AnytimeKey. Buckets come back in ascending
// date order, AnytimeKey last; items keep their input order within a bucket.
func GroupItemsByDay(items []domain.ItineraryItem) []DayGroup {
	groups := make(map[string][]domain.ItineraryItem)
	for _, it := range items {
		key := AnytimeKey
		if it.StartTime != nil {
			key = it.StartTime.UTC().Format("2006-01-02")
		}
		groups[key] = append(groups[key], it)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == AnytimeKey {
			return false
		}
		if keys[j] == AnytimeKey {
			return true
		}
		return keys[i] < keys[j]
	})

	out := make([]DayGroup, 0, len(keys))
	for _, k := range keys {
		out = append(out, DayGroup{Date: k, Items: groups[k]})
	}
	return out
}

// FormatDayLabel renders a bucket key for display, e.g. "Mon, Jan 2".
func FormatDayLabel(date string) string {
	if date == AnytimeKey {
		return AnytimeKey
	}
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return parsed.Format("Mon, Jan 2")
}

// FormatTimeLabel renders a start time for display, e.g. "3:04 PM".
func FormatTimeLabel(t time.Time) string {
	return t.Format("3:04 PM")
}
