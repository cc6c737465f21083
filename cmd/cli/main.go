package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"carbon-intensity/internal/config"
	"carbon-intensity/internal/data"
	"carbon-intensity/internal/model"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "current":
		cmdCurrent(os.Args[2:])
	case "fetch":
		cmdFetch(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli current --type national|regional|generation [--region 13]")
	fmt.Println("  cli fetch --start 2020-04-01T00:30Z --end 2020-04-17T14:00Z --type national --out results/intensity.csv")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - timestamps are UTC, half-hour settlement periods")
	fmt.Println("  - spans over 14 days are split into multiple API requests automatically")
}

func newClient(cfgPath string) *data.CarbonIntensityClient {
	if cfgPath == "" {
		return data.NewCarbonIntensityClient("")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}
	return cfg.API.NewClient()
}

func cmdCurrent(args []string) {
	fs := flag.NewFlagSet("current", flag.ExitOnError)
	dataType := fs.String("type", "national", "Data type: national, regional or generation")
	region := fs.Int("region", 0, "Optional DNO region id (regional only, 1-17)")
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	_ = fs.Parse(args)

	client := newClient(*cfgPath)

	switch *dataType {
	case "national":
		records, err := client.CurrentIntensity()
		if err != nil {
			panic(err)
		}
		for _, r := range records {
			fmt.Printf("%s  forecast=%6.1f  actual=%s  index=%s\n",
				r.To.Format("2006-01-02 15:04"), r.Intensity.Forecast,
				fmtActual(r.Intensity.Actual), r.Intensity.Index)
		}
	case "regional":
		var records []model.RegionalRecord
		var err error
		if *region != 0 {
			records, err = client.CurrentRegionalByID(*region)
		} else {
			records, err = client.CurrentRegional()
		}
		if err != nil {
			panic(err)
		}
		for _, r := range records {
			fmt.Printf("%s  region=%2d %-25s forecast=%6.1f  index=%s\n",
				r.To.Format("2006-01-02 15:04"), r.RegionID, r.ShortName,
				r.Intensity.Forecast, r.Intensity.Index)
		}
	case "generation":
		record, err := client.CurrentGenerationMix()
		if err != nil {
			panic(err)
		}
		fmt.Printf("%s generation mix:\n", record.To.Format("2006-01-02 15:04"))
		for _, f := range record.Mix {
			fmt.Printf("  %-10s %5.1f%%\n", f.Fuel, f.Perc)
		}
	default:
		fmt.Printf("unsupported type: %q\n", *dataType)
		os.Exit(2)
	}
}

func cmdFetch(args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	startStr := fs.String("start", "", "Range start (e.g. 2020-04-01T00:30Z)")
	endStr := fs.String("end", "", "Range end (e.g. 2020-04-17T14:00Z)")
	dataType := fs.String("type", "national", "Data type: national or regional")
	region := fs.Int("region", 0, "Optional DNO region id (regional only, 1-17)")
	outPath := fs.String("out", "results/intensity.csv", "Output CSV path")
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	_ = fs.Parse(args)

	if *startStr == "" || *endStr == "" {
		fmt.Println("--start and --end are required")
		os.Exit(2)
	}
	start, err := model.ParseSettlementTime(*startStr)
	if err != nil {
		panic(err)
	}
	end, err := model.ParseSettlementTime(*endStr)
	if err != nil {
		panic(err)
	}

	client := newClient(*cfgPath)

	fetchStart := time.Now()
	switch *dataType {
	case "national":
		records, err := client.IntensityBetween(start, end)
		if err != nil {
			panic(err)
		}
		if err := data.WriteIntensityCSV(*outPath, records); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote %d records to %s (%v)\n", len(records), *outPath, time.Since(fetchStart))
	case "regional":
		var records []model.RegionalRecord
		if *region != 0 {
			records, err = client.RegionalBetweenByID(start, end, *region)
		} else {
			records, err = client.RegionalBetween(start, end)
		}
		if err != nil {
			panic(err)
		}
		if err := data.WriteRegionalCSV(*outPath, records, data.StandardFuels); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote %d records to %s (%v)\n", len(records), *outPath, time.Since(fetchStart))
	default:
		fmt.Printf("unsupported type: %q\n", *dataType)
		os.Exit(2)
	}
}

func fmtActual(actual *float64) string {
	if actual == nil {
		return "   n/a"
	}
	return fmt.Sprintf("%6.1f", *actual)
}
