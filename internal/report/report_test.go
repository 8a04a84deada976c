package report

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/jpignata/garmin-training-plan/internal/models"
)

var now = time.Date(2026, time.September, 20, 18, 0, 0, 0, time.UTC)

func run(id int64, start string) models.Activity {
	return models.Activity{ActivityID: id, ActivityName: "Run", StartTimeLocal: start}
}

func TestFilterRecent(t *testing.T) {
	got := FilterRecent([]models.Activity{
		run(1, "2026-09-10 07:00:00"),
		run(2, "2026-09-19 06:30:00"),
		run(3, "2026-08-01 07:00:00"),
		run(4, ""),
		run(5, "2026-09-15T07:00:00"),
	}, now, 15)

	require.Len(t, got, 3)
	assert.Equal(t, int64(2), got[0].ActivityID)
	assert.Equal(t, int64(5), got[1].ActivityID)
	assert.Equal(t, int64(1), got[2].ActivityID)
}

func fullEntry() Entry {
	return Entry{
		Activity: models.Activity{
			ActivityID:     42,
			ActivityName:   "Morning Run",
			ActivityType:   models.ActivityType{TypeKey: "running"},
			StartTimeLocal: "2026-09-19 06:30:00",
			Description:    "  legs felt heavy  ",
			Distance:       8046.7,
			Duration:       2700,
			MovingDuration: 2650,
			AverageSpeed:   3.0,
			AverageHR:      148.6,
			MaxHR:          171,
			Cadence:        176.4,
			ElevationGain:  30,
			Calories:       512,
		},
		Laps: []models.Lap{
			{Distance: 1609.34, Duration: 536, AverageSpeed: 3.0, AverageHR: 150, MaxHR: 160},
			{Distance: 1609.34, Duration: 530, AverageSpeed: 3.04},
		},
	}
}

func TestWriteMarkdown(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteMarkdown(&sb, []Entry{fullEntry()}, Options{Now: now, Context: "Goal 3:05."}))
	out := sb.String()

	assert.Contains(t, out, "**Exported:** 2026-09-20 18:00")
	assert.Contains(t, out, "**Activities:** 1")
	assert.Contains(t, out, "## 2026-09-19 (Saturday) - Morning Run")
	assert.Contains(t, out, "**Type:** running")
	assert.Contains(t, out, "- **Distance:** 5.00 miles")
	assert.Contains(t, out, "- **Duration:** 45:00 (moving: 44:10)")
	assert.Contains(t, out, "- **Average Pace:** 8:56/mile")
	assert.Contains(t, out, "- **Heart Rate:** 148 bpm avg, 171 bpm max")
	assert.Contains(t, out, "- **Cadence:** 176 spm")
	assert.Contains(t, out, "- **Elevation Gain:** 98 ft")
	assert.Contains(t, out, "- **Calories:** 512")
	assert.Contains(t, out, "| 1 | 1.00 mi | 8:56 | 8:56 | 150 | 160 |")
	assert.Contains(t, out, "| 2 | 1.00 mi | 8:50 | ")
	assert.Contains(t, out, "| - | - |")
	assert.Contains(t, out, "### Notes\n\nlegs felt heavy\n")
	assert.Contains(t, out, "## Analysis Request")
	assert.Contains(t, out, "Context: Goal 3:05.")
}

func TestWriteMarkdownOmitsMissingFields(t *testing.T) {
	var sb strings.Builder
	entry := Entry{Activity: models.Activity{ActivityName: "Treadmill", StartTimeLocal: "2026-09-18 12:00:00", Duration: 1800}}
	require.NoError(t, WriteMarkdown(&sb, []Entry{entry}, Options{Now: now, NoAnalysis: true}))
	out := sb.String()

	assert.Contains(t, out, "- **Duration:** 30:00\n")
	for _, absent := range []string{"Distance:", "Pace", "Heart Rate", "Cadence", "Elevation", "Calories", "### Splits", "### Notes", "Analysis Request", "N/A"} {
		assert.NotContains(t, out, absent)
	}
}

func TestWriteMarkdownUnknownDate(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteMarkdown(&sb, []Entry{{}}, Options{Now: now, NoAnalysis: true}))
	assert.Contains(t, sb.String(), "## Unknown () - Unnamed Activity")
	assert.Contains(t, sb.String(), "**Type:** unknown")
}

func TestWriteSplitsParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "splits.parquet")
	rows, err := WriteSplitsParquet(path, []Entry{fullEntry(), {Activity: run(7, "2026-09-17 07:00:00")}})
	require.NoError(t, err)
	assert.Equal(t, 2, rows)

	fr, err := local.NewLocalFileReader(path)
	require.NoError(t, err)
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(splitRow), 4)
	require.NoError(t, err)
	defer pr.ReadStop()

	assert.Equal(t, int64(2), pr.GetNumRows())
}
