// Command precip-validate compares modeled total precipitation (convective
// plus large-scale) against a merged satellite/gauge product.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/polarmet/climval/internal/adapter/nc"
	"github.com/polarmet/climval/internal/usecase"
)

// Model precipitation rates come in m/s; observations in mm/day.
const mPerSecToMMPerDay = 8.64e7

func main() {
	modelDir := flag.String("model-dir", getEnv("MODEL_DIR", "./model"), "Directory of monthly model files")
	pattern := flag.String("pattern", "atm.h0.%04d-%02d.nc", "Model file pattern (%04d year, %02d month)")
	yearOffset := flag.Int("year-offset", 0, "Calendar year minus model file year")
	obsPath := flag.String("obs", getEnv("OBS_PATH", "./obs/precip.nc"), "Observation NetCDF file")
	obsUnits := flag.String("obs-time-units", "", "CF units of the obs time axis (empty: auto-detect YYYYMM)")
	outDir := flag.String("out", getEnv("OUT_DIR", "./out"), "Output directory")
	startYear := flag.Int("start", 1979, "First analysis year")
	endYear := flag.Int("end", 2005, "Last analysis year")
	complete := flag.Bool("complete-years", false, "Drop years with missing months from annual means")
	flag.Parse()

	cfg := usecase.PrecipConfig{
		Model: nc.FileLayout{Dir: *modelDir, Pattern: *pattern, YearOffset: *yearOffset},
		ModelVar: nc.VarSpec{
			Names: []string{"PRECC"},
			Plus:  []string{"PRECL"},
			Scale: mPerSecToMMPerDay,
			Unit:  "mm/day",
		},
		ModelGrid: nc.GridSpec{},
		ObsPath:   *obsPath,
		ObsVar: nc.VarSpec{
			Names: []string{"precip", "pr", "precipitation"},
			Unit:  "mm/day",
		},
		ObsGrid:       nc.GridSpec{},
		ObsTime:       nc.TimeSpec{Units: *obsUnits},
		OutDir:        *outDir,
		Analysis:      usecase.YearRange{Start: *startYear, End: *endYear},
		CompleteYears: *complete,
	}

	log.Printf("precipitation validation %d-%d", *startYear, *endYear)
	rep, err := usecase.RunPrecip(cfg)
	if err != nil {
		log.Fatalf("precipitation validation failed: %v", err)
	}
	log.Printf("done: bias=%.4f rmse=%.4f r=%.4f", rep.Scores.Bias, rep.Scores.RMSE, rep.Scores.Corr)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
