package game

import (
	"fmt"
	"log"
	"strings"
)

// EventEntry is one recorded orchestration event.
type EventEntry struct {
	Tick     int
	Category string  // scenario, command, solve, leg, decode, playback, asset
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] leg      failed           (0,0)→(4,4): no solution
func (e EventEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-8s %-16s %s", e.Tick, e.Category, e.Key, e.Value)
}

// EventLog collects structured events. Every entry is also written to the
// attached logger and pushed to the on-screen route log when one is set.
type EventLog struct {
	entries []EventEntry
	logger  *log.Logger
	panel   *RouteLog
}

// NewEventLog creates an EventLog mirroring to logger (log.Default if nil).
func NewEventLog(logger *log.Logger) *EventLog {
	if logger == nil {
		logger = log.Default()
	}
	return &EventLog{logger: logger}
}

// Attach routes new entries to an on-screen panel as well.
func (el *EventLog) Attach(panel *RouteLog) {
	el.panel = panel
}

// Add records a new entry.
func (el *EventLog) Add(tick int, category, key, value string, numVal float64) {
	e := EventEntry{Tick: tick, Category: category, Key: key, Value: value, NumVal: numVal}
	el.entries = append(el.entries, e)
	el.logger.Print(e.String())
	if el.panel != nil {
		el.panel.Add(e)
	}
}

// Entries returns all recorded entries.
func (el *EventLog) Entries() []EventEntry {
	return el.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (el *EventLog) Filter(category, key string) []EventEntry {
	var out []EventEntry
	for _, e := range el.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (el *EventLog) CountCategory(category, key string) int {
	return len(el.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (el *EventLog) LastOf(category, key string) (EventEntry, bool) {
	entries := el.Filter(category, key)
	if len(entries) == 0 {
		return EventEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (el *EventLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range el.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (el *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range el.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
