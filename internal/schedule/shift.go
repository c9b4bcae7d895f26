package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Class categorizes a shift code for styling and summary counting.
type Class int

const (
	// ClassEmpty marks a cell with no shift assigned.
	ClassEmpty Class = iota
	// ClassDay is the "D" day shift (dniówka).
	ClassDay
	// ClassNight is the "N" night shift (nocka).
	ClassNight
	// ClassCustom is a "P start-end" custom-hour interval (międzyzmiana).
	ClassCustom
	// ClassLabel is any other non-empty free-text value.
	ClassLabel
)

const (
	// DayShift and NightShift are the two fixed shift codes.
	DayShift   = "D"
	NightShift = "N"

	customPrefix = "P "
)

// Classify derives the shift class from a raw cell value. The decision
// order matters: exact matches before the custom prefix, and the prefix
// before the free-text fallback.
func Classify(value string) Class {
	switch {
	case value == "":
		return ClassEmpty
	case value == DayShift:
		return ClassDay
	case value == NightShift:
		return ClassNight
	case strings.HasPrefix(value, customPrefix):
		return ClassCustom
	default:
		return ClassLabel
	}
}

// FormatCustom renders a custom interval as its wire value, e.g. "P 10-22".
// Hours are not zero-padded.
func FormatCustom(start, end int) string {
	return fmt.Sprintf("P %d-%d", start, end)
}

// ParseCustom splits a "P start-end" value back into its hours. ok is
// false when the value is not a well-formed custom interval.
func ParseCustom(value string) (start, end int, ok bool) {
	rest, found := strings.CutPrefix(value, customPrefix)
	if !found {
		return 0, 0, false
	}
	first, second, found := strings.Cut(rest, "-")
	if !found {
		return 0, 0, false
	}
	start, err := strconv.Atoi(first)
	if err != nil {
		return 0, 0, false
	}
	end, err = strconv.Atoi(second)
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}

// CustomHours validates the raw hour fields from the custom-interval
// sub-panel and returns the parsed pair. The fields must both be plain
// integers within [0,23] and the start must precede the end; anything
// else is rejected before a value can be committed.
func CustomHours(startRaw, endRaw string) (start, end int, err error) {
	start, err = parseHour(startRaw)
	if err != nil {
		return 0, 0, fmt.Errorf("start hour: %w", err)
	}
	end, err = parseHour(endRaw)
	if err != nil {
		return 0, 0, fmt.Errorf("end hour: %w", err)
	}
	if start >= end {
		return 0, 0, fmt.Errorf("end hour %d must be later than start hour %d", end, start)
	}
	return start, end, nil
}

func parseHour(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("hour is empty")
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("hour %q contains non-digit characters", raw)
		}
	}
	hour, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse hour %q: %w", raw, err)
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("hour %d outside 0-23", hour)
	}
	return hour, nil
}
