package units

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jpignata/garmin-training-plan/internal/errs"
)

const (
	MetersPerMile = 1609.34
	MPHPerMPS     = 2.23694
	FeetPerMeter  = 3.28084
)

var (
	minuteSuffixes = []string{"minutes", "minute", "mins", "min"}
	secondSuffixes = []string{"seconds", "second", "secs", "sec"}
)

func MilesToMeters(miles float64) float64 {
	return miles * MetersPerMile
}

func MetersToMiles(meters float64) float64 {
	return meters / MetersPerMile
}

func MetersToFeet(meters float64) float64 {
	return meters * FeetPerMeter
}

// upperBound returns the second token of a "-" range, or s unchanged.
func upperBound(s string) string {
	if !strings.Contains(s, "-") {
		return s
	}
	return strings.TrimSpace(strings.Split(s, "-")[1])
}

// ParseDistance parses a distance in miles. Ranges like "8-9" resolve to
// their maximum.
func ParseDistance(value string) (float64, error) {
	s := upperBound(strings.TrimSpace(value))
	miles, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errs.Parse("distance", value, err)
	}
	return miles, nil
}

// ParseDuration parses "20 min", "30 sec", "1:30:00", "7:30" or a bare
// number of seconds. Ranges resolve to their maximum. The result is
// truncated to whole seconds.
func ParseDuration(value string) (int, error) {
	s := upperBound(strings.ToLower(strings.TrimSpace(value)))

	if n, ok := trimUnit(s, minuteSuffixes); ok {
		minutes, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, errs.Parse("duration", value, err)
		}
		return int(minutes * 60), nil
	}

	if n, ok := trimUnit(s, secondSuffixes); ok {
		seconds, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, errs.Parse("duration", value, err)
		}
		return int(seconds), nil
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) != 2 && len(parts) != 3 {
			return 0, errs.Parse("duration", value, nil)
		}
		total := 0
		for _, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return 0, errs.Parse("duration", value, err)
			}
			total = total*60 + n
		}
		return total, nil
	}

	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errs.Parse("duration", value, err)
	}
	return int(seconds), nil
}

func trimUnit(s string, suffixes []string) (string, bool) {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return strings.TrimSpace(strings.TrimSuffix(s, suffix)), true
		}
	}
	return s, false
}

// PaceToSpeed converts a "M:SS" per-mile pace into meters per second.
func PaceToSpeed(pace string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(pace), ":")
	if len(parts) != 2 {
		return 0, errs.Parse("pace", pace, fmt.Errorf("expected M:SS"))
	}

	minutes, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, errs.Parse("pace", pace, err)
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, errs.Parse("pace", pace, err)
	}

	secondsPerMile := minutes*60 + seconds
	if secondsPerMile <= 0 {
		return 0, errs.Parse("pace", pace, errors.New("pace must be positive"))
	}
	return MetersPerMile / float64(secondsPerMile), nil
}

// SpeedToPace renders meters per second as a "M:SS" per-mile pace.
func SpeedToPace(speed float64) string {
	if speed <= 0 {
		return "N/A"
	}

	mph := speed * MPHPerMPS
	minPerMile := 60 / mph
	minutes := int(minPerMile)
	seconds := int((minPerMile - float64(minutes)) * 60)

	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatDuration renders seconds as H:MM:SS, or M:SS under an hour.
func FormatDuration(seconds float64) string {
	if seconds <= 0 {
		return "0:00"
	}

	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
