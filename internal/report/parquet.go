package report

import (
	"math"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/jpignata/garmin-training-plan/internal/units"
)

type splitRow struct {
	ActivityID   int64   `parquet:"name=activity_id, type=INT64"`
	ActivityName string  `parquet:"name=activity_name, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	ActivityType string  `parquet:"name=activity_type, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	StartLocal   string  `parquet:"name=start_local, type=BYTE_ARRAY, convertedtype=UTF8"`
	SplitIndex   int32   `parquet:"name=split_index, type=INT32"`
	DistanceM    float64 `parquet:"name=distance_m, type=DOUBLE"`
	DistanceMi   float64 `parquet:"name=distance_mi, type=DOUBLE"`
	DurationS    float64 `parquet:"name=duration_s, type=DOUBLE"`
	SpeedMPS     float64 `parquet:"name=speed_mps, type=DOUBLE"`
	Pace         string  `parquet:"name=pace_per_mile, type=BYTE_ARRAY, convertedtype=UTF8"`
	AvgHRBPM     float64 `parquet:"name=avg_hr_bpm, type=DOUBLE"`
	MaxHRBPM     float64 `parquet:"name=max_hr_bpm, type=DOUBLE"`
}

// WriteSplitsParquet writes one row per lap of every entry. Missing heart
// rate values are stored as NaN.
func WriteSplitsParquet(path string, entries []Entry) (int, error) {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return 0, err
	}
	pw, err := writer.NewParquetWriter(fw, new(splitRow), 4)
	if err != nil {
		_ = fw.Close()
		return 0, err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	rows := 0
	for _, e := range entries {
		a := e.Activity
		for i, lap := range e.Laps {
			row := splitRow{
				ActivityID:   a.ActivityID,
				ActivityName: a.ActivityName,
				ActivityType: a.ActivityType.TypeKey,
				StartLocal:   a.StartTimeLocal,
				SplitIndex:   int32(i + 1),
				DistanceM:    lap.Distance,
				DistanceMi:   units.MetersToMiles(lap.Distance),
				DurationS:    lap.Duration,
				SpeedMPS:     lap.AverageSpeed,
				Pace:         units.SpeedToPace(lap.AverageSpeed),
				AvgHRBPM:     valueOrNaN(lap.AverageHR),
				MaxHRBPM:     valueOrNaN(lap.MaxHR),
			}
			if err := pw.Write(row); err != nil {
				_ = pw.WriteStop()
				_ = fw.Close()
				return rows, err
			}
			rows++
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return rows, err
	}
	return rows, fw.Close()
}

func valueOrNaN(v float64) float64 {
	if v <= 0 {
		return math.NaN()
	}
	return v
}
