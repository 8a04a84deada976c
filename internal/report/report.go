package report

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jpignata/garmin-training-plan/internal/models"
	"github.com/jpignata/garmin-training-plan/internal/units"
)

// FetchLimit is how many recent activities the export asks the service for.
const FetchLimit = 100

// Entry is one activity with the laps fetched for it.
type Entry struct {
	Activity models.Activity
	Laps     []models.Lap
}

type Options struct {
	Now time.Time
	// Context, when set, is appended after the analysis request.
	Context string
	// NoAnalysis drops the analysis request footer.
	NoAnalysis bool
}

// FilterRecent keeps activities that started within days of now, newest
// first. Activities without a parseable start time are dropped.
func FilterRecent(activities []models.Activity, now time.Time, days int) []models.Activity {
	cutoff := now.AddDate(0, 0, -days)

	type dated struct {
		a models.Activity
		t time.Time
	}
	var kept []dated
	for _, a := range activities {
		t, ok := a.StartTime(now.Location())
		if !ok || t.Before(cutoff) {
			continue
		}
		kept = append(kept, dated{a, t})
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].t.After(kept[j].t) })

	out := make([]models.Activity, len(kept))
	for i, d := range kept {
		out[i] = d.a
	}
	return out
}

var analysisQuestions = []string{
	"**Training consistency:** Am I following a consistent pattern?",
	"**Pace distribution:** Are my easy runs easy enough? Are quality sessions hitting targets?",
	"**Recovery indicators:** Do HR and pace metrics suggest adequate recovery?",
	"**Workout execution:** For structured workouts, how consistent are my splits?",
	"**Areas of concern:** Any red flags or patterns to address?",
	"**Recommendations:** What adjustments would improve my training?",
}

// WriteMarkdown renders the training log.
func WriteMarkdown(w io.Writer, entries []Entry, opts Options) error {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# Training Log Export\n\n")
	fmt.Fprintf(bw, "**Exported:** %s\n\n", now.Format("2006-01-02 15:04"))
	fmt.Fprintf(bw, "**Activities:** %d\n\n", len(entries))
	fmt.Fprintf(bw, "---\n\n")

	for _, e := range entries {
		writeActivity(bw, e, now.Location())
	}

	if !opts.NoAnalysis {
		fmt.Fprintf(bw, "\n## Analysis Request\n\n")
		fmt.Fprintf(bw, "Please analyze my recent training and provide insights on:\n\n")
		for i, q := range analysisQuestions {
			fmt.Fprintf(bw, "%d. %s\n", i+1, q)
		}
		fmt.Fprintln(bw)
		if ctx := strings.TrimSpace(opts.Context); ctx != "" {
			fmt.Fprintf(bw, "Context: %s\n", ctx)
		}
	}

	return bw.Flush()
}

func writeActivity(w io.Writer, e Entry, loc *time.Location) {
	a := e.Activity

	name := a.ActivityName
	if name == "" {
		name = "Unnamed Activity"
	}
	typeKey := a.ActivityType.TypeKey
	if typeKey == "" {
		typeKey = "unknown"
	}

	dateStr, dayStr := "Unknown", ""
	if t, ok := a.StartTime(loc); ok {
		dateStr = t.Format("2006-01-02")
		dayStr = t.Weekday().String()
	}

	fmt.Fprintf(w, "## %s (%s) - %s\n\n", dateStr, dayStr, name)
	fmt.Fprintf(w, "**Type:** %s\n\n", typeKey)

	fmt.Fprintf(w, "### Summary\n\n")
	if a.Distance > 0 {
		fmt.Fprintf(w, "- **Distance:** %.2f miles\n", units.MetersToMiles(a.Distance))
	}
	if a.Duration > 0 {
		fmt.Fprintf(w, "- **Duration:** %s", units.FormatDuration(a.Duration))
		if a.MovingDuration > 0 && a.MovingDuration != a.Duration {
			fmt.Fprintf(w, " (moving: %s)", units.FormatDuration(a.MovingDuration))
		}
		fmt.Fprintln(w)
	}
	if a.AverageSpeed > 0 {
		fmt.Fprintf(w, "- **Average Pace:** %s/mile\n", units.SpeedToPace(a.AverageSpeed))
	}
	if a.AverageHR > 0 {
		fmt.Fprintf(w, "- **Heart Rate:** %d bpm avg", int(a.AverageHR))
		if a.MaxHR > 0 {
			fmt.Fprintf(w, ", %d bpm max", int(a.MaxHR))
		}
		fmt.Fprintln(w)
	}
	if a.Cadence > 0 {
		fmt.Fprintf(w, "- **Cadence:** %d spm\n", int(a.Cadence))
	}
	if a.ElevationGain > 0 {
		fmt.Fprintf(w, "- **Elevation Gain:** %d ft\n", int(units.MetersToFeet(a.ElevationGain)))
	}
	if a.Calories > 0 {
		fmt.Fprintf(w, "- **Calories:** %d\n", int(a.Calories))
	}
	fmt.Fprintln(w)

	if len(e.Laps) > 0 {
		fmt.Fprintf(w, "### Splits\n\n")
		fmt.Fprintf(w, "| Split | Distance | Time | Pace | Avg HR | Max HR |\n")
		fmt.Fprintf(w, "|-------|----------|------|------|--------|--------|\n")
		for i, lap := range e.Laps {
			fmt.Fprintf(w, "| %d | %.2f mi | %s | %s | %s | %s |\n",
				i+1,
				units.MetersToMiles(lap.Distance),
				units.FormatDuration(lap.Duration),
				units.SpeedToPace(lap.AverageSpeed),
				heartRateCell(lap.AverageHR),
				heartRateCell(lap.MaxHR),
			)
		}
		fmt.Fprintln(w)
	}

	if notes := strings.TrimSpace(a.Description); notes != "" {
		fmt.Fprintf(w, "### Notes\n\n%s\n\n", notes)
	}

	fmt.Fprintf(w, "---\n\n")
}

// heartRateCell keeps the split table aligned when a lap has no HR.
func heartRateCell(hr float64) string {
	if hr <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d", int(hr))
}
