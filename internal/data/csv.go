package data

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"carbon-intensity/internal/model"
)

// WriteIntensityCSV writes national intensity records to a CSV file.
// The actual column is empty for periods with no published outturn.
func WriteIntensityCSV(path string, records []model.IntensityRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"from",
		"to",
		"forecast",
		"actual",
		"index",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			fmtTime(r.From.Time),
			fmtTime(r.To.Time),
			fmtFloat(r.Intensity.Forecast),
			fmtOptFloat(r.Intensity.Actual),
			r.Intensity.Index,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// WriteRegionalCSV writes flattened regional records to a CSV file, one row
// per (period, region) with the generation mix columns flattened.
func WriteRegionalCSV(path string, records []model.RegionalRecord, fuels []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"from",
		"to",
		"regionid",
		"shortname",
		"forecast",
		"actual",
		"index",
	}
	header = append(header, fuels...)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			fmtTime(r.From.Time),
			fmtTime(r.To.Time),
			strconv.Itoa(r.RegionID),
			r.ShortName,
			fmtFloat(r.Intensity.Forecast),
			fmtOptFloat(r.Intensity.Actual),
			r.Intensity.Index,
		}
		mix := r.MixMap()
		for _, fuel := range fuels {
			row = append(row, fmtFloat(mix[fuel]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// StandardFuels is the fuel column order used for regional CSV export.
var StandardFuels = []string{
	"biomass",
	"coal",
	"imports",
	"gas",
	"nuclear",
	"other",
	"hydro",
	"solar",
	"wind",
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}

func fmtOptFloat(x *float64) string {
	if x == nil {
		return ""
	}
	return fmtFloat(*x)
}
